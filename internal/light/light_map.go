package light

import "github.com/annel0/voxel-world/internal/vec"

// LightMap хранит освещённость хранилища 16³.
// Каждая ячейка - uint16 вида {4S 4B 4G 4R}.
type LightMap struct {
	data [16][16][16]uint16 // [y][z][x]
}

// Get возвращает уровень канала в локальной позиции (0..15 по каждой оси)
func (m *LightMap) Get(local vec.Vec3Byte, ch Channel) uint8 {
	return uint8((m.data[local.Y][local.Z][local.X] >> ch.shift()) & 0x0F)
}

// Set записывает уровень канала. Значения выше MaxLevel обрезаются до MaxLevel,
// чтобы не испортить соседние каналы.
func (m *LightMap) Set(local vec.Vec3Byte, ch Channel, level uint8) {
	if level > MaxLevel {
		level = MaxLevel
	}
	cell := &m.data[local.Y][local.Z][local.X]
	*cell = (*cell &^ (0x0F << ch.shift())) | (uint16(level) << ch.shift())
}

// Packed возвращает упакованное значение всех четырёх каналов
func (m *LightMap) Packed(local vec.Vec3Byte) uint16 {
	return m.data[local.Y][local.Z][local.X]
}

// Clear обнуляет все каналы
func (m *LightMap) Clear() {
	m.data = [16][16][16]uint16{}
}
