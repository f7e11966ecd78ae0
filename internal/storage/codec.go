package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Размеры сохранённых данных
const (
	subChunkVoxels = world.SubChunkSize * world.SubChunkSize * world.SubChunkSize
	// ColumnBytes - размер одного столбца: ChunkHeight хранилищ по 16³ значений u16
	ColumnBytes = world.ChunkHeight * subChunkVoxels * 2
	// ColumnCount - количество столбцов мира
	ColumnCount = world.WorldSize * world.WorldSize
	// WorldBytes - размер сохранённого мира целиком
	WorldBytes = ColumnBytes * ColumnCount
)

var (
	// ErrInvalidSectionSize возвращается при неверной длине сохранённых данных
	ErrInvalidSectionSize = errors.New("неверный размер секции")
	// ErrUnknownBlock возвращается, если сохранённый id отсутствует в каталоге
	ErrUnknownBlock = fmt.Errorf("сохранённые данные: %w", block.ErrUnknownBlock)
	// ErrNotFound возвращается, если сохранение отсутствует
	ErrNotFound = errors.New("сохранение не найдено")
)

// Column - декодированный столбец: блоки [хранилище][y][z][x] в загруженных id
type Column [world.ChunkHeight][world.SubChunkSize][world.SubChunkSize][world.SubChunkSize]block.BlockID

// EncodeColumn кодирует столбец в сохраняемые id (big-endian u16).
// Порядок: хранилище, плоскость (y), строка (z), колонка (x).
func EncodeColumn(chunk *world.Chunk, catalog *block.Catalog) ([]byte, error) {
	data := make([]byte, 0, ColumnBytes)
	for cy, sc := range chunk.SubChunks {
		for y := 0; y < world.SubChunkSize; y++ {
			for z := 0; z < world.SubChunkSize; z++ {
				for x := 0; x < world.SubChunkSize; x++ {
					lid := sc.GetBlock(vec.Vec3Byte{X: uint8(x), Y: uint8(y), Z: uint8(z)})
					b, ok := catalog.Get(lid)
					if !ok {
						return nil, fmt.Errorf("столбец %v, хранилище %d, блок %d: %w", chunk.Coords, cy, lid, ErrUnknownBlock)
					}
					data = binary.BigEndian.AppendUint16(data, b.ID)
				}
			}
		}
	}
	return data, nil
}

// DecodeColumn декодирует столбец и переводит сохранённые id в загруженные
func DecodeColumn(data []byte, catalog *block.Catalog) (*Column, error) {
	if len(data) != ColumnBytes {
		return nil, fmt.Errorf("столбец: %d байт вместо %d: %w", len(data), ColumnBytes, ErrInvalidSectionSize)
	}

	col := &Column{}
	offset := 0
	for cy := range col {
		for y := range col[cy] {
			for z := range col[cy][y] {
				for x := range col[cy][y][z] {
					id := binary.BigEndian.Uint16(data[offset:])
					b, ok := catalog.ByID(id)
					if !ok {
						return nil, fmt.Errorf("смещение %d, id %d: %w", offset, id, ErrUnknownBlock)
					}
					col[cy][y][z][x] = b.LID
					offset += 2
				}
			}
		}
	}
	return col, nil
}

// ApplyColumn записывает декодированный столбец в мир через SetBlock
func ApplyColumn(w *world.World, cx, cz int, col *Column) {
	for cy := range col {
		for y := range col[cy] {
			for z := range col[cy][y] {
				for x := range col[cy][y][z] {
					pos := vec.Vec3Byte{
						X: uint8(cx*world.SubChunkSize + x),
						Y: uint8(cy*world.SubChunkSize + y),
						Z: uint8(cz*world.SubChunkSize + z),
					}
					w.SetBlock(pos, col[cy][y][z][x])
				}
			}
		}
	}
}

// EncodeWorld кодирует все столбцы мира: сначала по X, затем по Z
func EncodeWorld(w *world.World) ([]byte, error) {
	data := make([]byte, 0, WorldBytes)
	for x := 0; x < world.WorldSize; x++ {
		for z := 0; z < world.WorldSize; z++ {
			col, err := EncodeColumn(w.Chunk(x, z), w.Catalog())
			if err != nil {
				return nil, err
			}
			data = append(data, col...)
		}
	}
	return data, nil
}

// DecodeWorld декодирует сохранённый мир целиком, не трогая сам мир
func DecodeWorld(data []byte, catalog *block.Catalog) ([]*Column, error) {
	if len(data) != WorldBytes {
		return nil, fmt.Errorf("мир: %d байт вместо %d: %w", len(data), WorldBytes, ErrInvalidSectionSize)
	}

	cols := make([]*Column, 0, ColumnCount)
	for i := 0; i < ColumnCount; i++ {
		col, err := DecodeColumn(data[i*ColumnBytes:(i+1)*ColumnBytes], catalog)
		if err != nil {
			return nil, fmt.Errorf("столбец (%d, %d): %w", i/world.WorldSize, i%world.WorldSize, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// ApplyWorld записывает в мир столбцы, полученные из DecodeWorld
func ApplyWorld(w *world.World, cols []*Column) {
	for i, col := range cols {
		ApplyColumn(w, i/world.WorldSize, i%world.WorldSize, col)
	}
}
