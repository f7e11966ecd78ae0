package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/util"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// ChunkGenerator создаёт содержимое столбца по его координатам
type ChunkGenerator interface {
	GenerateChunk(coords vec.Vec2) (*Chunk, error)
}

// LayerGenerator заполняет каждый столбец одинаковым вертикальным профилем
type LayerGenerator struct {
	layers [WorldExtent]block.BlockID // индекс - высота y
}

func resolveLayers(catalog *block.Catalog, ids []uint16) ([]block.BlockID, error) {
	lids := make([]block.BlockID, len(ids))
	for i, id := range ids {
		b, ok := catalog.ByID(id)
		if !ok {
			return nil, fmt.Errorf("слой %d, id %d: %w", i, id, block.ErrUnknownBlock)
		}
		lids[i] = b.LID
	}
	return lids, nil
}

// FromBottomLayers строит профиль снизу вверх: ids[0] - слой y=0.
// Слои сверх высоты мира отбрасываются, недостающие заполняются воздухом.
func FromBottomLayers(catalog *block.Catalog, ids []uint16) (*LayerGenerator, error) {
	if len(ids) > WorldExtent {
		ids = ids[:WorldExtent]
	}
	lids, err := resolveLayers(catalog, ids)
	if err != nil {
		return nil, err
	}

	g := &LayerGenerator{}
	copy(g.layers[:], lids)
	return g, nil
}

// FromTopLayers строит профиль сверху вниз: ids[0] - слой y=255.
func FromTopLayers(catalog *block.Catalog, ids []uint16) (*LayerGenerator, error) {
	if len(ids) > WorldExtent {
		ids = ids[:WorldExtent]
	}
	lids, err := resolveLayers(catalog, ids)
	if err != nil {
		return nil, err
	}

	g := &LayerGenerator{}
	for i, lid := range lids {
		g.layers[WorldExtent-1-i] = lid
	}
	return g, nil
}

// Layer возвращает блок профиля на высоте y
func (g *LayerGenerator) Layer(y uint8) block.BlockID {
	return g.layers[y]
}

// GenerateChunk реализует ChunkGenerator
func (g *LayerGenerator) GenerateChunk(coords vec.Vec2) (*Chunk, error) {
	chunk := NewChunk(coords)
	for y, id := range g.layers {
		if id != block.AirBlockID {
			chunk.FillLayer(uint8(y), id)
		}
	}
	return chunk, nil
}

// Palette - блоки ландшафта шумового генератора
type Palette struct {
	Bedrock block.BlockID
	Stone   block.BlockID
	Dirt    block.BlockID
	Grass   block.BlockID
}

// DefaultPalette берёт блоки ландшафта из стандартного набора каталога
func DefaultPalette(catalog *block.Catalog) (Palette, error) {
	var p Palette
	for name, dst := range map[string]*block.BlockID{
		block.BedrockName: &p.Bedrock,
		block.StoneName:   &p.Stone,
		block.DirtName:    &p.Dirt,
		block.GrassName:   &p.Grass,
	} {
		b, ok := catalog.ByName(name)
		if !ok {
			return Palette{}, fmt.Errorf("блок %q: %w", name, block.ErrUnknownBlock)
		}
		*dst = b.LID
	}
	return p, nil
}

// NoiseGenerator генерирует рельеф по карте высот из двумерного шума
type NoiseGenerator struct {
	Noise      util.Noise2D
	Palette    Palette
	Scale      float64 // Масштаб шума (сглаженность рельефа)
	BaseHeight int     // Минимальная высота поверхности
	Amplitude  int     // Разброс высоты поверхности
	DirtDepth  int     // Толщина слоя земли под травой
}

// NewNoiseGenerator создаёт шумовой генератор с настройками по умолчанию
func NewNoiseGenerator(noise util.Noise2D, palette Palette) *NoiseGenerator {
	return &NoiseGenerator{
		Noise:      noise,
		Palette:    palette,
		Scale:      0.02,
		BaseHeight: 48,
		Amplitude:  32,
		DirtDepth:  3,
	}
}

// HeightAt возвращает высоту поверхности в глобальных координатах (x, z)
func (g *NoiseGenerator) HeightAt(x, z int) int {
	n := g.Noise.Noise2D(float64(x)*g.Scale, float64(z)*g.Scale)
	h := g.BaseHeight + int(n*float64(g.Amplitude))
	if h < 1 {
		h = 1
	}
	if h > WorldExtent-1 {
		h = WorldExtent - 1
	}
	return h
}

// GenerateChunk реализует ChunkGenerator
func (g *NoiseGenerator) GenerateChunk(coords vec.Vec2) (*Chunk, error) {
	if g.Noise == nil {
		return nil, fmt.Errorf("столбец %v: источник шума не задан", coords)
	}
	chunk := NewChunk(coords)

	globalStartX := coords.X << 4
	globalStartZ := coords.Y << 4

	for z := 0; z < SubChunkSize; z++ {
		for x := 0; x < SubChunkSize; x++ {
			h := g.HeightAt(globalStartX+x, globalStartZ+z)
			for y := 0; y <= h; y++ {
				id := g.Palette.Stone
				switch {
				case y == 0:
					id = g.Palette.Bedrock
				case y == h:
					id = g.Palette.Grass
				case y >= h-g.DirtDepth:
					id = g.Palette.Dirt
				}
				chunk.SetBlock(vec.Vec3Byte{X: uint8(x), Y: uint8(y), Z: uint8(z)}, id)
			}
		}
	}
	return chunk, nil
}
