package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-world/internal/light"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// ErrNilChunk возвращается, если генератор не создал столбец
var ErrNilChunk = errors.New("генератор вернул пустой столбец")

// World - мир фиксированного размера 256x256x256 из WorldSize x WorldSize столбцов.
// Все хранилища создаются при построении мира и не освобождаются.
// World не потокобезопасен: доступ сериализует вызывающая сторона.
type World struct {
	chunks  [WorldSize][WorldSize]*Chunk // [x][z]
	catalog *block.Catalog
	logger  *logging.Logger
}

// NewWorld строит все столбцы мира с помощью генератора
func NewWorld(gen ChunkGenerator, catalog *block.Catalog) (*World, error) {
	w := &World{
		catalog: catalog,
		logger:  logging.GetWorldLogger(),
	}

	for x := 0; x < WorldSize; x++ {
		for z := 0; z < WorldSize; z++ {
			coords := vec.Vec2{X: x, Y: z}
			chunk, err := gen.GenerateChunk(coords)
			if err != nil {
				return nil, fmt.Errorf("генерация столбца %v: %w", coords, err)
			}
			if chunk == nil {
				return nil, fmt.Errorf("столбец %v: %w", coords, ErrNilChunk)
			}
			chunk.Coords = coords
			w.chunks[x][z] = chunk
		}
	}

	w.logger.Debug("Мир построен: %d столбцов", WorldSize*WorldSize)
	return w, nil
}

// Catalog возвращает каталог блоков мира
func (w *World) Catalog() *block.Catalog {
	return w.catalog
}

func (w *World) subChunkAt(pos vec.Vec3Byte) (*SubChunk, vec.Vec3Byte) {
	c := pos.Container()
	return w.chunks[c.X][c.Z].SubChunks[c.Y], pos.Local()
}

// GetBlock возвращает блок в позиции
func (w *World) GetBlock(pos vec.Vec3Byte) block.BlockID {
	sc, local := w.subChunkAt(pos)
	return sc.GetBlock(local)
}

// SetBlock записывает блок в позицию. Помечает изменённым своё хранилище и
// каждое соседнее хранилище, чья общая грань касается позиции.
func (w *World) SetBlock(pos vec.Vec3Byte, id block.BlockID) {
	sc, local := w.subChunkAt(pos)
	sc.SetBlock(local, id)

	c := pos.Container()
	mark := func(dx, dy, dz int) {
		if n := w.SubChunk(int(c.X)+dx, int(c.Y)+dy, int(c.Z)+dz); n != nil {
			n.MarkDirty()
		}
	}
	switch local.X {
	case 0:
		mark(-1, 0, 0)
	case SubChunkSize - 1:
		mark(1, 0, 0)
	}
	switch local.Y {
	case 0:
		mark(0, -1, 0)
	case SubChunkSize - 1:
		mark(0, 1, 0)
	}
	switch local.Z {
	case 0:
		mark(0, 0, -1)
	case SubChunkSize - 1:
		mark(0, 0, 1)
	}
}

// GetLightLevel возвращает уровень канала в позиции
func (w *World) GetLightLevel(pos vec.Vec3Byte, ch light.Channel) uint8 {
	sc, local := w.subChunkAt(pos)
	return sc.GetLight(local, ch)
}

// SetLightLevel записывает уровень канала. Помечается только своё хранилище.
func (w *World) SetLightLevel(pos vec.Vec3Byte, ch light.Channel, level uint8) {
	sc, local := w.subChunkAt(pos)
	sc.SetLight(local, ch, level)
}

// IsOpaque возвращает true, если блок в позиции непрозрачен
func (w *World) IsOpaque(pos vec.Vec3Byte) bool {
	return w.catalog.IsOpaque(w.GetBlock(pos))
}

// IsSolidAt проверяет непрозрачность по знаковым координатам.
// Вне мира всегда false.
func (w *World) IsSolidAt(x, y, z int) bool {
	pos, ok := vec.Vec3ByteFrom(vec.Vec3{X: x, Y: y, Z: z})
	if !ok {
		return false
	}
	return w.IsOpaque(pos)
}

// Chunk возвращает столбец по координатам или nil вне мира
func (w *World) Chunk(cx, cz int) *Chunk {
	if cx < 0 || cx >= WorldSize || cz < 0 || cz >= WorldSize {
		return nil
	}
	return w.chunks[cx][cz]
}

// SubChunk возвращает хранилище по координатам или nil вне мира
func (w *World) SubChunk(cx, cy, cz int) *SubChunk {
	chunk := w.Chunk(cx, cz)
	if chunk == nil || cy < 0 || cy >= ChunkHeight {
		return nil
	}
	return chunk.SubChunks[cy]
}

// DirtySubChunks возвращает координаты всех изменённых хранилищ
func (w *World) DirtySubChunks() []vec.Vec3 {
	var dirty []vec.Vec3
	for x := 0; x < WorldSize; x++ {
		for z := 0; z < WorldSize; z++ {
			for y, sc := range w.chunks[x][z].SubChunks {
				if sc.IsDirty() {
					dirty = append(dirty, vec.Vec3{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return dirty
}

// ClearDirty снимает пометки изменений со всего мира
func (w *World) ClearDirty() {
	for x := 0; x < WorldSize; x++ {
		for z := 0; z < WorldSize; z++ {
			w.chunks[x][z].ClearChanges()
		}
	}
}

// ClearLight обнуляет освещение всего мира
func (w *World) ClearLight() {
	for x := 0; x < WorldSize; x++ {
		for z := 0; z < WorldSize; z++ {
			for _, sc := range w.chunks[x][z].SubChunks {
				sc.LightMap().Clear()
				sc.MarkDirty()
			}
		}
	}
}
