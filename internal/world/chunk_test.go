package world

import (
	"testing"

	"github.com/annel0/voxel-world/internal/light"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	coords := vec.Vec2{X: 5, Y: 10}
	chunk := NewChunk(coords)

	assert.Equal(t, coords, chunk.Coords, "Координаты столбца должны совпадать")

	// Блоки инициализированы воздухом
	pos := vec.Vec3Byte{X: 3, Y: 200, Z: 4}
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(pos))

	chunk.SetBlock(pos, block.BlockID(5))
	assert.Equal(t, block.BlockID(5), chunk.GetBlock(pos))
	assert.Equal(t, block.BlockID(5), chunk.SubChunks[12].GetBlock(vec.Vec3Byte{X: 3, Y: 8, Z: 4}),
		"Блок должен попасть в хранилище 200>>4")
}

func TestChunkChanges(t *testing.T) {
	chunk := NewChunk(vec.Vec2{})
	assert.True(t, chunk.HasChanges(), "Новый столбец требует построения меша")

	chunk.ClearChanges()
	assert.False(t, chunk.HasChanges())

	chunk.FillLayer(17, block.BlockID(2))
	assert.True(t, chunk.HasChanges())
	assert.True(t, chunk.SubChunks[1].IsDirty())
	assert.False(t, chunk.SubChunks[0].IsDirty())
	assert.Equal(t, block.BlockID(2), chunk.GetBlock(vec.Vec3Byte{X: 15, Y: 17, Z: 0}))
}

func TestSubChunkLightAndEmptiness(t *testing.T) {
	sc := NewSubChunk()
	assert.True(t, sc.IsEmpty())
	sc.ClearDirty()

	local := vec.Vec3Byte{X: 1, Y: 2, Z: 3}
	sc.SetLight(local, light.ChannelG, 9)
	assert.True(t, sc.IsDirty(), "Запись света помечает хранилище")
	assert.Equal(t, uint8(9), sc.GetLight(local, light.ChannelG))
	assert.Equal(t, uint8(9), sc.LightMap().Get(local, light.ChannelG))

	sc.SetBlock(local, block.BlockID(1))
	assert.False(t, sc.IsEmpty())
}
