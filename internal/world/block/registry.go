package block

import (
	"errors"
	"fmt"
)

var (
	// ErrRedefinition - имя или ID блока объявлены повторно
	ErrRedefinition = errors.New("блок объявлен повторно")
	// ErrNoAir - первое определение каталога не является воздухом (ID 0)
	ErrNoAir = errors.New("первым в каталоге должен быть прозрачный блок с ID 0")
	// ErrEmissionOutOfRange - свечение блока превышает 15
	ErrEmissionOutOfRange = errors.New("свечение блока вне диапазона 0..15")
	// ErrUnknownBlock - в каталоге нет блока с таким идентификатором
	ErrUnknownBlock = errors.New("блок не найден")
)

// BlockID представляет загруженный идентификатор блока (индекс в каталоге).
// Именно он хранится в мире.
type BlockID uint16

// AirBlockID - пустое значение ячейки мира
const AirBlockID BlockID = 0

// MaxEmission - максимальный уровень свечения одного канала
const MaxEmission = 15

// Definition описывает тип блока так, как его задаёт контент
type Definition struct {
	ID       uint16   // сохраняемый идентификатор
	Name     string   // уникальное имя
	Emission [3]uint8 // свечение R, G, B (0..15)
	Mesh     Mesh
}

// Block - тип блока, загруженный в каталог
type Block struct {
	Definition
	LID BlockID // загруженный идентификатор
}

// Catalog отображает загруженные идентификаторы на типы блоков.
// Каталог неизменяем после создания.
type Catalog struct {
	blocks []*Block
	byName map[string]*Block
	byID   map[uint16]*Block
}

// NewCatalog создаёт каталог. Загруженные идентификаторы назначаются по порядку,
// поэтому первое определение (воздух) получает AirBlockID.
func NewCatalog(defs []Definition) (*Catalog, error) {
	if len(defs) == 0 || defs[0].ID != 0 || defs[0].Mesh.IsFullCube() {
		return nil, ErrNoAir
	}

	c := &Catalog{
		blocks: make([]*Block, 0, len(defs)),
		byName: make(map[string]*Block, len(defs)),
		byID:   make(map[uint16]*Block, len(defs)),
	}

	for _, def := range defs {
		for ch, e := range def.Emission {
			if e > MaxEmission {
				return nil, fmt.Errorf("%q канал %d = %d: %w", def.Name, ch, e, ErrEmissionOutOfRange)
			}
		}
		if _, exists := c.byName[def.Name]; exists {
			return nil, fmt.Errorf("имя %q: %w", def.Name, ErrRedefinition)
		}
		if _, exists := c.byID[def.ID]; exists {
			return nil, fmt.Errorf("ID %d: %w", def.ID, ErrRedefinition)
		}

		b := &Block{Definition: def, LID: BlockID(len(c.blocks))}
		c.blocks = append(c.blocks, b)
		c.byName[def.Name] = b
		c.byID[def.ID] = b
	}

	return c, nil
}

// Len возвращает количество загруженных блоков
func (c *Catalog) Len() int {
	return len(c.blocks)
}

// Get возвращает блок по загруженному идентификатору
func (c *Catalog) Get(lid BlockID) (*Block, bool) {
	if int(lid) >= len(c.blocks) {
		return nil, false
	}
	return c.blocks[lid], true
}

// ByName возвращает блок по имени
func (c *Catalog) ByName(name string) (*Block, bool) {
	b, ok := c.byName[name]
	return b, ok
}

// ByID возвращает блок по сохраняемому идентификатору
func (c *Catalog) ByID(id uint16) (*Block, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// MustLID возвращает загруженный идентификатор по имени или паникует.
// Предназначен для инициализации контента.
func (c *Catalog) MustLID(name string) BlockID {
	b, ok := c.byName[name]
	if !ok {
		panic(fmt.Sprintf("блок %q отсутствует в каталоге", name))
	}
	return b.LID
}

// IsOpaque сообщает, блокирует ли блок свет и луч.
// Неизвестные идентификаторы считаются непрозрачными.
func (c *Catalog) IsOpaque(lid BlockID) bool {
	b, ok := c.Get(lid)
	if !ok {
		return true
	}
	return b.Mesh.IsFullCube()
}

// Emission возвращает свечение блока в канале R(0), G(1) или B(2)
func (c *Catalog) Emission(lid BlockID, channel int) uint8 {
	b, ok := c.Get(lid)
	if !ok || channel < 0 || channel >= len(b.Emission) {
		return 0
	}
	return b.Emission[channel]
}

// Emits возвращает true, если блок светится хотя бы в одном канале
func (c *Catalog) Emits(lid BlockID) bool {
	b, ok := c.Get(lid)
	if !ok {
		return false
	}
	return b.Emission[0] > 0 || b.Emission[1] > 0 || b.Emission[2] > 0
}
