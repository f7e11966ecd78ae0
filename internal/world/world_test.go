package world

import (
	"errors"
	"testing"

	"github.com/annel0/voxel-world/internal/light"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatWorld строит плоский мир: bedrock, три слоя камня, земля, трава (y 0..5)
func flatWorld(t *testing.T) *World {
	t.Helper()
	catalog := block.DefaultCatalog()
	gen, err := FromBottomLayers(catalog, []uint16{
		block.BedrockID, block.StoneID, block.StoneID, block.StoneID, block.DirtID, block.GrassID,
	})
	require.NoError(t, err)

	w, err := NewWorld(gen, catalog)
	require.NoError(t, err)
	return w
}

// emptyWorld строит мир из одного воздуха
func emptyWorld(t *testing.T) *World {
	t.Helper()
	catalog := block.DefaultCatalog()
	gen, err := FromBottomLayers(catalog, nil)
	require.NoError(t, err)

	w, err := NewWorld(gen, catalog)
	require.NoError(t, err)
	return w
}

func b(x, y, z uint8) vec.Vec3Byte {
	return vec.Vec3Byte{X: x, Y: y, Z: z}
}

type failingGenerator struct{}

func (failingGenerator) GenerateChunk(coords vec.Vec2) (*Chunk, error) {
	if coords.X == 3 {
		return nil, errors.New("сбой")
	}
	return NewChunk(coords), nil
}

type nilGenerator struct{}

func (nilGenerator) GenerateChunk(vec.Vec2) (*Chunk, error) { return nil, nil }

func TestNewWorldGeneratorErrors(t *testing.T) {
	_, err := NewWorld(failingGenerator{}, block.DefaultCatalog())
	assert.Error(t, err, "Ошибка генератора должна вернуться из NewWorld")

	_, err = NewWorld(nilGenerator{}, block.DefaultCatalog())
	assert.ErrorIs(t, err, ErrNilChunk)
}

func TestWorldBlockAddressing(t *testing.T) {
	w := flatWorld(t)
	catalog := w.Catalog()

	assert.Equal(t, catalog.MustLID(block.BedrockName), w.GetBlock(b(0, 0, 0)))
	assert.Equal(t, catalog.MustLID(block.GrassName), w.GetBlock(b(255, 5, 255)))
	assert.Equal(t, block.AirBlockID, w.GetBlock(b(128, 6, 17)))

	stone := catalog.MustLID(block.StoneName)
	w.SetBlock(b(200, 100, 37), stone)
	assert.Equal(t, stone, w.GetBlock(b(200, 100, 37)))
	assert.Equal(t, stone, w.Chunk(12, 2).GetBlock(b(8, 100, 5)))

	assert.True(t, w.IsOpaque(b(200, 100, 37)))
	assert.True(t, w.IsSolidAt(0, 0, 0))
	assert.False(t, w.IsSolidAt(0, 50, 0))
	assert.False(t, w.IsSolidAt(-1, 0, 0), "Вне мира нет твёрдых блоков")
	assert.False(t, w.IsSolidAt(0, 256, 0))

	assert.Nil(t, w.Chunk(16, 0))
	assert.Nil(t, w.SubChunk(0, 16, 0))
	assert.NotNil(t, w.SubChunk(15, 15, 15))
}

func TestWorldSetBlockMarksNeighbours(t *testing.T) {
	w := emptyWorld(t)
	w.ClearDirty()
	assert.Empty(t, w.DirtySubChunks())

	// локальная x = 0 в хранилище (1,0,0), y и z на границе мира
	w.SetBlock(b(16, 0, 0), block.BlockID(5))
	assert.Equal(t, []vec.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, w.DirtySubChunks())

	w.ClearDirty()
	// угол внутреннего хранилища задевает три соседние грани
	w.SetBlock(b(47, 47, 47), block.BlockID(5))
	assert.ElementsMatch(t, []vec.Vec3{
		{X: 2, Y: 2, Z: 2},
		{X: 3, Y: 2, Z: 2},
		{X: 2, Y: 3, Z: 2},
		{X: 2, Y: 2, Z: 3},
	}, w.DirtySubChunks())

	w.ClearDirty()
	// внутренняя позиция помечает только своё хранилище
	w.SetBlock(b(40, 40, 40), block.BlockID(5))
	assert.Equal(t, []vec.Vec3{{X: 2, Y: 2, Z: 2}}, w.DirtySubChunks())

	w.ClearDirty()
	w.SetLightLevel(b(16, 0, 0), light.ChannelR, 7)
	assert.Equal(t, []vec.Vec3{{X: 1, Y: 0, Z: 0}}, w.DirtySubChunks(), "Запись света не помечает соседей")
	assert.Equal(t, uint8(7), w.GetLightLevel(b(16, 0, 0), light.ChannelR))
}
