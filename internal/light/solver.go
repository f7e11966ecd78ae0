package light

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/gammazero/deque"
)

// ErrLevelOutOfRange возвращается при попытке добавить свечение выше MaxLevel
var ErrLevelOutOfRange = errors.New("уровень освещённости вне диапазона 0..15")

// Grid - состояние мира, через которое работает решатель.
// Решатель не владеет памятью вокселей.
type Grid interface {
	GetBlock(pos vec.Vec3Byte) block.BlockID
	GetLightLevel(pos vec.Vec3Byte, ch Channel) uint8
	SetLightLevel(pos vec.Vec3Byte, ch Channel, level uint8)
}

// Opacity классифицирует блоки по прозрачности (реализуется каталогом блоков)
type Opacity interface {
	IsOpaque(id block.BlockID) bool
}

// Neighborhood - шесть осевых соседей в порядке обхода
var Neighborhood = [6]vec.Vec3{
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
}

// NeighborPos возвращает соседнюю позицию со смещением offset.
// Если сосед выходит за пределы мира 0..255 хотя бы по одной оси, возвращает false.
func NeighborPos(pos vec.Vec3Byte, offset vec.Vec3) (vec.Vec3Byte, bool) {
	return vec.Vec3ByteFrom(pos.ToVec3().Add(offset))
}

type entry struct {
	pos   vec.Vec3Byte
	level uint8
}

// SolveStats описывает работу одного вызова Solve
type SolveStats struct {
	Cleared  int // вокселей, погашенных проходом удаления
	Reseeded int // независимых источников, поставленных на повторное распространение
	Lit      int // вокселей, освещённых проходом распространения
}

// Solver поддерживает освещение одного канала инкрементальным BFS.
// Каналы никогда не взаимодействуют: на каждый канал свой решатель.
type Solver struct {
	channel  Channel
	addQueue deque.Deque[entry]
	remQueue deque.Deque[entry]
	cleared  []vec.Vec3Byte
}

// NewSolver создаёт решатель для канала
func NewSolver(ch Channel) *Solver {
	return &Solver{channel: ch}
}

// Channel возвращает канал решателя
func (s *Solver) Channel() Channel {
	return s.channel
}

// Cleared возвращает позиции, погашенные проходом удаления последнего Solve.
// Срез действителен до следующего вызова Solve.
func (s *Solver) Cleared() []vec.Vec3Byte {
	return s.cleared
}

// Pending возвращает длины очередей распространения и удаления
func (s *Solver) Pending() (adds, removes int) {
	return s.addQueue.Len(), s.remQueue.Len()
}

// Add записывает уровень emission в позицию и ставит её в очередь распространения.
// Уровни 0 и 1 дальше не распространяются, поэтому игнорируются.
func (s *Solver) Add(g Grid, pos vec.Vec3Byte, emission uint8) error {
	if emission > MaxLevel {
		return fmt.Errorf("канал %s, позиция %v, уровень %d: %w", s.channel, pos, emission, ErrLevelOutOfRange)
	}
	s.add(g, pos, emission)
	return nil
}

// AddLast повторно распространяет уже записанный уровень позиции.
// Нужен, когда изменилось окружение позиции, а не её свет.
func (s *Solver) AddLast(g Grid, pos vec.Vec3Byte) {
	s.add(g, pos, g.GetLightLevel(pos, s.channel))
}

func (s *Solver) add(g Grid, pos vec.Vec3Byte, level uint8) {
	if level <= 1 {
		return
	}
	s.addQueue.PushBack(entry{pos: pos, level: level})
	g.SetLightLevel(pos, s.channel, level)
}

// Remove гасит позицию и ставит её в очередь удаления
func (s *Solver) Remove(g Grid, pos vec.Vec3Byte) {
	level := g.GetLightLevel(pos, s.channel)
	if level == 0 {
		return
	}
	s.remQueue.PushBack(entry{pos: pos, level: level})
	g.SetLightLevel(pos, s.channel, 0)
}

// Solve опустошает обе очереди. Сначала полностью обрабатывается очередь удаления,
// затем очередь распространения заново заливает открывшуюся область.
func (s *Solver) Solve(g Grid, o Opacity) SolveStats {
	var stats SolveStats
	s.cleared = s.cleared[:0]

	for s.remQueue.Len() > 0 {
		e := s.remQueue.PopFront()
		for _, offset := range Neighborhood {
			npos, ok := NeighborPos(e.pos, offset)
			if !ok {
				continue
			}
			level := g.GetLightLevel(npos, s.channel)
			if level != 0 && level == e.level-1 {
				// сосед был освещён только этой позицией
				s.remQueue.PushBack(entry{pos: npos, level: level})
				g.SetLightLevel(npos, s.channel, 0)
				s.cleared = append(s.cleared, npos)
				stats.Cleared++
			} else if level >= e.level {
				s.addQueue.PushBack(entry{pos: npos, level: level})
				stats.Reseeded++
			}
		}
	}

	for s.addQueue.Len() > 0 {
		e := s.addQueue.PopFront()
		if e.level <= 1 {
			continue
		}
		next := e.level - 1
		for _, offset := range Neighborhood {
			npos, ok := NeighborPos(e.pos, offset)
			if !ok {
				continue
			}
			if o.IsOpaque(g.GetBlock(npos)) {
				continue
			}
			if g.GetLightLevel(npos, s.channel) < next {
				g.SetLightLevel(npos, s.channel, next)
				s.addQueue.PushBack(entry{pos: npos, level: next})
				stats.Lit++
			}
		}
	}

	return stats
}
