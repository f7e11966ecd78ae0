package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SolidChecker отвечает, занят ли воксель твёрдым блоком.
// Реализуется миром (world.World.IsSolidAt).
type SolidChecker interface {
	IsSolidAt(x, y, z int) bool
}

// HitBox - выровненный по осям параллелепипед
type HitBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewHitBox создаёт коллайдер с центром основания в pos (как у стоящей сущности)
func NewHitBox(pos mgl32.Vec3, width, height float32) HitBox {
	half := width / 2
	return HitBox{
		Min: mgl32.Vec3{pos[0] - half, pos[1], pos[2] - half},
		Max: mgl32.Vec3{pos[0] + half, pos[1] + height, pos[2] + half},
	}
}

// Translate возвращает коллайдер, сдвинутый на offset
func (h HitBox) Translate(offset mgl32.Vec3) HitBox {
	return HitBox{Min: h.Min.Add(offset), Max: h.Max.Add(offset)}
}

// Size возвращает размеры коллайдера
func (h HitBox) Size() mgl32.Vec3 {
	return h.Max.Sub(h.Min)
}

// Intersects проверяет пересечение двух коллайдеров (касание гранями не считается)
func (h HitBox) Intersects(o HitBox) bool {
	return h.Min[0] < o.Max[0] && h.Max[0] > o.Min[0] &&
		h.Min[1] < o.Max[1] && h.Max[1] > o.Min[1] &&
		h.Min[2] < o.Max[2] && h.Max[2] > o.Min[2]
}

// blockRange возвращает индексы вокселей, которые пересекает отрезок [min, max)
func blockRange(min, max float32) (int, int) {
	return int(math.Floor(float64(min))), int(math.Ceil(float64(max))) - 1
}

// CollidesWithWorld проверяет, пересекает ли коллайдер хотя бы один твёрдый воксель
func (h HitBox) CollidesWithWorld(w SolidChecker) bool {
	x0, x1 := blockRange(h.Min[0], h.Max[0])
	y0, y1 := blockRange(h.Min[1], h.Max[1])
	z0, z1 := blockRange(h.Min[2], h.Max[2])

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				if w.IsSolidAt(x, y, z) {
					return true
				}
			}
		}
	}
	return false
}

// CanMoveToPosition проверяет, может ли коллайдер сместиться на offset без столкновений
func CanMoveToPosition(h HitBox, offset mgl32.Vec3, w SolidChecker) bool {
	return !h.Translate(offset).CollidesWithWorld(w)
}
