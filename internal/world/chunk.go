package world

import (
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Chunk представляет столбец мира 16x256x16 из ChunkHeight хранилищ
type Chunk struct {
	Coords    vec.Vec2 // Координаты столбца в мире (X, Z)
	SubChunks [ChunkHeight]*SubChunk
}

// NewChunk создаёт новый столбец с указанными координатами
func NewChunk(coords vec.Vec2) *Chunk {
	c := &Chunk{Coords: coords}
	for i := range c.SubChunks {
		c.SubChunks[i] = NewSubChunk()
	}
	return c
}

// splitColumn разбивает координаты внутри столбца (x,z 0..15, y 0..255)
func splitColumn(local vec.Vec3Byte) (uint8, vec.Vec3Byte) {
	return local.Y >> 4, vec.Vec3Byte{X: local.X & 0x0F, Y: local.Y & 0x0F, Z: local.Z & 0x0F}
}

// GetBlock возвращает ID блока по координатам внутри столбца
func (c *Chunk) GetBlock(local vec.Vec3Byte) block.BlockID {
	cy, l := splitColumn(local)
	return c.SubChunks[cy].GetBlock(l)
}

// SetBlock устанавливает блок по координатам внутри столбца
func (c *Chunk) SetBlock(local vec.Vec3Byte, blockID block.BlockID) {
	cy, l := splitColumn(local)
	c.SubChunks[cy].SetBlock(l, blockID)
}

// FillLayer заполняет горизонтальный слой столбца на высоте y
func (c *Chunk) FillLayer(y uint8, blockID block.BlockID) {
	c.SubChunks[y>>4].FillLayer(y&0x0F, blockID)
}

// HasChanges возвращает true, если хотя бы одно хранилище столбца изменено
func (c *Chunk) HasChanges() bool {
	for _, sc := range c.SubChunks {
		if sc.IsDirty() {
			return true
		}
	}
	return false
}

// ClearChanges снимает пометки изменений со всех хранилищ
func (c *Chunk) ClearChanges() {
	for _, sc := range c.SubChunks {
		sc.ClearDirty()
	}
}

// MarkAllDirty помечает все хранилища столбца изменёнными
func (c *Chunk) MarkAllDirty() {
	for _, sc := range c.SubChunks {
		sc.MarkDirty()
	}
}
