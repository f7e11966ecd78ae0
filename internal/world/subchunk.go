package world

import (
	"github.com/annel0/voxel-world/internal/light"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Размеры мира
const (
	SubChunkSize = 16 // сторона хранилища в вокселях
	ChunkHeight  = 16 // хранилищ в столбце
	WorldSize    = 16 // столбцов по осям X и Z
	WorldExtent  = SubChunkSize * WorldSize
)

// SubChunk - хранилище 16³ вокселей с картой освещения.
// Блоки индексируются как [y][z][x].
type SubChunk struct {
	blocks [SubChunkSize][SubChunkSize][SubChunkSize]block.BlockID
	light  light.LightMap
	dirty  bool
}

// NewSubChunk создаёт пустое хранилище, помеченное как изменённое
func NewSubChunk() *SubChunk {
	return &SubChunk{dirty: true}
}

// GetBlock возвращает блок по локальным координатам
func (s *SubChunk) GetBlock(local vec.Vec3Byte) block.BlockID {
	return s.blocks[local.Y][local.Z][local.X]
}

// SetBlock устанавливает блок по локальным координатам
func (s *SubChunk) SetBlock(local vec.Vec3Byte, id block.BlockID) {
	s.blocks[local.Y][local.Z][local.X] = id
	s.dirty = true
}

// GetLight возвращает уровень канала по локальным координатам
func (s *SubChunk) GetLight(local vec.Vec3Byte, ch light.Channel) uint8 {
	return s.light.Get(local, ch)
}

// SetLight устанавливает уровень канала по локальным координатам
func (s *SubChunk) SetLight(local vec.Vec3Byte, ch light.Channel, level uint8) {
	s.light.Set(local, ch, level)
	s.dirty = true
}

// LightMap возвращает карту освещения хранилища
func (s *SubChunk) LightMap() *light.LightMap {
	return &s.light
}

// FillLayer заполняет горизонтальный слой y одним блоком
func (s *SubChunk) FillLayer(y uint8, id block.BlockID) {
	for z := range s.blocks[y] {
		for x := range s.blocks[y][z] {
			s.blocks[y][z][x] = id
		}
	}
	s.dirty = true
}

// IsEmpty возвращает true, если хранилище целиком состоит из воздуха
func (s *SubChunk) IsEmpty() bool {
	for y := range s.blocks {
		for z := range s.blocks[y] {
			for x := range s.blocks[y][z] {
				if s.blocks[y][z][x] != block.AirBlockID {
					return false
				}
			}
		}
	}
	return true
}

// IsDirty сообщает, требуется ли перестроить меш хранилища
func (s *SubChunk) IsDirty() bool {
	return s.dirty
}

// MarkDirty помечает хранилище как изменённое
func (s *SubChunk) MarkDirty() {
	s.dirty = true
}

// ClearDirty снимает пометку. Вызывается построителем мешей.
func (s *SubChunk) ClearDirty() {
	s.dirty = false
}
