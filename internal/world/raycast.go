package world

import (
	"math"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
)

// RayResult - результат трассировки луча по сетке
type RayResult struct {
	Block  block.BlockID // найденный блок (AirBlockID без попадания)
	Hit    bool
	End    mgl32.Vec3 // точка входа луча в последний воксель
	Normal mgl32.Vec3 // нормаль грани входа, нулевая без попадания
	Voxel  vec.Vec3   // последний посещённый воксель
}

var inf = float32(math.Inf(1))

func raySetup(origin, dir float32, i int) (step, tDelta, tMax float32) {
	step = -1
	if dir > 0 {
		step = 1
	}

	tDelta = inf
	if dir != 0 {
		tDelta = float32(math.Abs(float64(1 / dir)))
	}

	var dist float32
	if step > 0 {
		dist = float32(i) + 1 - origin
	} else {
		dist = origin - float32(i)
	}

	tMax = inf
	if tDelta < inf {
		tMax = tDelta * dist
	}
	return step, tDelta, tMax
}

// RayGet проходит воксели вдоль луча (DDA) и возвращает первый непустой блок
// в пределах maxDistance. Направление не обязано быть нормализованным:
// расстояние измеряется в единицах параметра луча.
func (w *World) RayGet(origin, direction mgl32.Vec3, maxDistance float32) RayResult {
	var t float32

	ix := int(math.Floor(float64(origin[0])))
	iy := int(math.Floor(float64(origin[1])))
	iz := int(math.Floor(float64(origin[2])))

	stepX, tdx, txMax := raySetup(origin[0], direction[0], ix)
	stepY, tdy, tyMax := raySetup(origin[1], direction[1], iy)
	stepZ, tdz, tzMax := raySetup(origin[2], direction[2], iz)

	axis := -1

	for t <= maxDistance {
		pos, ok := vec.Vec3ByteFrom(vec.Vec3{X: ix, Y: iy, Z: iz})
		if !ok {
			break
		}

		if id := w.GetBlock(pos); id != block.AirBlockID {
			res := RayResult{
				Block: id,
				Hit:   true,
				End:   origin.Add(direction.Mul(t)),
				Voxel: vec.Vec3{X: ix, Y: iy, Z: iz},
			}
			switch axis {
			case 0:
				res.Normal[0] = -stepX
			case 1:
				res.Normal[1] = -stepY
			case 2:
				res.Normal[2] = -stepZ
			}
			return res
		}

		if txMax < tyMax {
			if txMax < tzMax {
				axis = 0
			} else {
				axis = 2
			}
		} else {
			if tyMax < tzMax {
				axis = 1
			} else {
				axis = 2
			}
		}

		switch axis {
		case 0:
			ix += int(stepX)
			t = txMax
			txMax += tdx
		case 1:
			iy += int(stepY)
			t = tyMax
			tyMax += tdy
		case 2:
			if tzMax == inf {
				// все оси бесконечны: нулевое направление
				return w.rayMiss(origin, direction, t, ix, iy, iz)
			}
			iz += int(stepZ)
			t = tzMax
			tzMax += tdz
		}
	}

	return w.rayMiss(origin, direction, t, ix, iy, iz)
}

func (w *World) rayMiss(origin, direction mgl32.Vec3, t float32, ix, iy, iz int) RayResult {
	return RayResult{
		Block: block.AirBlockID,
		End:   origin.Add(direction.Mul(t)),
		Voxel: vec.Vec3{X: ix, Y: iy, Z: iz},
	}
}
