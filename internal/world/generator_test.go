package world

import (
	"testing"

	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constNoise float64

func (n constNoise) Noise2D(float64, float64) float64 { return float64(n) }

func TestLayerGenerators(t *testing.T) {
	catalog := block.DefaultCatalog()

	bottom, err := FromBottomLayers(catalog, []uint16{block.BedrockID, block.StoneID})
	require.NoError(t, err)
	assert.Equal(t, catalog.MustLID(block.BedrockName), bottom.Layer(0))
	assert.Equal(t, catalog.MustLID(block.StoneName), bottom.Layer(1))
	assert.Equal(t, block.AirBlockID, bottom.Layer(2))

	top, err := FromTopLayers(catalog, []uint16{block.GlassID, block.DirtID})
	require.NoError(t, err)
	assert.Equal(t, catalog.MustLID(block.GlassName), top.Layer(255))
	assert.Equal(t, catalog.MustLID(block.DirtName), top.Layer(254))
	assert.Equal(t, block.AirBlockID, top.Layer(0))

	chunk, err := top.GenerateChunk(vec.Vec2{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, catalog.MustLID(block.GlassName), chunk.GetBlock(vec.Vec3Byte{X: 4, Y: 255, Z: 9}))

	_, err = FromBottomLayers(catalog, []uint16{500})
	assert.ErrorIs(t, err, block.ErrUnknownBlock)

	long := make([]uint16, 300)
	_, err = FromTopLayers(catalog, long)
	assert.NoError(t, err, "Лишние слои отбрасываются")
}

func TestNoiseGeneratorProfile(t *testing.T) {
	catalog := block.DefaultCatalog()
	palette, err := DefaultPalette(catalog)
	require.NoError(t, err)

	gen := NewNoiseGenerator(constNoise(0.5), palette)
	assert.Equal(t, 64, gen.HeightAt(0, 0))

	chunk, err := gen.GenerateChunk(vec.Vec2{X: 3, Y: 7})
	require.NoError(t, err)
	at := func(y uint8) block.BlockID { return chunk.GetBlock(vec.Vec3Byte{X: 5, Y: y, Z: 5}) }

	assert.Equal(t, palette.Bedrock, at(0))
	assert.Equal(t, palette.Stone, at(1))
	assert.Equal(t, palette.Stone, at(60))
	assert.Equal(t, palette.Dirt, at(61))
	assert.Equal(t, palette.Dirt, at(63))
	assert.Equal(t, palette.Grass, at(64))
	assert.Equal(t, block.AirBlockID, at(65))
}

func TestNoiseGeneratorBuildsWorld(t *testing.T) {
	catalog := block.DefaultCatalog()
	palette, err := DefaultPalette(catalog)
	require.NoError(t, err)

	noise, err := util.NewNoise(util.NoiseSimplex, 7)
	require.NoError(t, err)
	w, err := NewWorld(NewNoiseGenerator(noise, palette), catalog)
	require.NoError(t, err)

	h := NewNoiseGenerator(noise, palette).HeightAt(100, 100)
	assert.Equal(t, palette.Grass, w.GetBlock(b(100, uint8(h), 100)))
	assert.Equal(t, block.AirBlockID, w.GetBlock(b(100, uint8(h+1), 100)))

	_, err = (&NoiseGenerator{}).GenerateChunk(vec.Vec2{})
	assert.Error(t, err)
}
