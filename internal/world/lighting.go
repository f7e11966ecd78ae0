package world

import (
	"fmt"
	"time"

	"github.com/annel0/voxel-world/internal/light"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Recorder получает статистику каждого решения канала
type Recorder interface {
	ObserveSolve(ch light.Channel, stats light.SolveStats, elapsed time.Duration)
	ObserveMutation(kind string)
}

// Виды изменений мира для Recorder
const (
	MutationPlace = "place"
	MutationBreak = "break"
)

// Lighting владеет решателями всех каналов и согласованно меняет
// блоки мира вместе с освещением
type Lighting struct {
	world    *World
	solvers  [light.ChannelCount]*light.Solver
	recorder Recorder
	logger   *logging.Logger
}

// NewLighting создаёт фасад освещения для мира
func NewLighting(w *World) *Lighting {
	l := &Lighting{
		world:  w,
		logger: logging.GetLightLogger(),
	}
	for _, ch := range light.Channels {
		l.solvers[ch] = light.NewSolver(ch)
	}
	return l
}

// SetRecorder подключает приёмник статистики (nil отключает)
func (l *Lighting) SetRecorder(r Recorder) {
	l.recorder = r
}

// Solver возвращает решатель канала
func (l *Lighting) Solver(ch light.Channel) *light.Solver {
	return l.solvers[ch]
}

// SeedSunlight заливает каждый столбец (x, z) солнечным светом сверху вниз
// до первого непрозрачного блока. В очередь ставится только нижний освещённый воксель.
func (l *Lighting) SeedSunlight() {
	w := l.world
	sun := l.solvers[light.ChannelS]

	for x := 0; x < WorldExtent; x++ {
		for z := 0; z < WorldExtent; z++ {
			lowest := -1
			for y := WorldExtent - 1; y >= 0; y-- {
				pos := vec.Vec3Byte{X: uint8(x), Y: uint8(y), Z: uint8(z)}
				if w.IsOpaque(pos) {
					break
				}
				w.SetLightLevel(pos, light.ChannelS, light.MaxLevel)
				lowest = y
			}
			if lowest >= 0 {
				sun.AddLast(w, vec.Vec3Byte{X: uint8(x), Y: uint8(lowest), Z: uint8(z)})
			}
		}
	}
}

// SeedEmitters ставит в очереди R, G, B все светящиеся блоки мира
func (l *Lighting) SeedEmitters() error {
	w := l.world
	for cx := 0; cx < WorldSize; cx++ {
		for cz := 0; cz < WorldSize; cz++ {
			for cy, sc := range w.chunks[cx][cz].SubChunks {
				if sc.IsEmpty() {
					continue
				}
				base := vec.Vec3{X: cx * SubChunkSize, Y: cy * SubChunkSize, Z: cz * SubChunkSize}
				for y := 0; y < SubChunkSize; y++ {
					for z := 0; z < SubChunkSize; z++ {
						for x := 0; x < SubChunkSize; x++ {
							id := sc.blocks[y][z][x]
							if !w.catalog.Emits(id) {
								continue
							}
							pos := vec.Vec3Byte{X: uint8(base.X + x), Y: uint8(base.Y + y), Z: uint8(base.Z + z)}
							if err := l.addEmission(pos, id); err != nil {
								return err
							}
						}
					}
				}
			}
		}
	}
	return nil
}

func (l *Lighting) addEmission(pos vec.Vec3Byte, id block.BlockID) error {
	for _, ch := range light.Channels {
		if !ch.IsColor() {
			continue
		}
		if _, err := l.emit(ch, pos, id); err != nil {
			return err
		}
	}
	return nil
}

// emit ставит свечение блока в очередь канала, если оно выше текущего уровня.
// Свет соседнего источника может быть ярче собственного свечения блока.
func (l *Lighting) emit(ch light.Channel, pos vec.Vec3Byte, id block.BlockID) (bool, error) {
	emission := l.world.catalog.Emission(id, int(ch))
	if emission <= l.world.GetLightLevel(pos, ch) {
		return false, nil
	}
	if err := l.solvers[ch].Add(l.world, pos, emission); err != nil {
		return false, fmt.Errorf("свечение блока %d в %v: %w", id, pos, err)
	}
	return true, nil
}

// reseedCleared возвращает свечение источникам, которые погасил проход удаления.
// Возвращает true, если в очередь канала что-то добавлено.
func (l *Lighting) reseedCleared(s *light.Solver) bool {
	if !s.Channel().IsColor() {
		return false
	}
	w := l.world
	added := false
	for _, pos := range s.Cleared() {
		id := w.GetBlock(pos)
		if !w.catalog.Emits(id) {
			continue
		}
		ok, err := l.emit(s.Channel(), pos, id)
		if err != nil {
			// свечение проверено каталогом при загрузке
			l.logger.Error("Источник %v не восстановлен: %v", pos, err)
			continue
		}
		added = added || ok
	}
	return added
}

// Rebuild пересчитывает освещение всего мира с нуля.
// Вызывается после построения или загрузки мира: освещение не сохраняется.
func (l *Lighting) Rebuild() error {
	start := time.Now()

	l.world.ClearLight()
	l.SeedSunlight()
	if err := l.SeedEmitters(); err != nil {
		return err
	}
	stats := l.Solve()

	l.logger.Info("Освещение пересчитано за %v (S: %d, R: %d, G: %d, B: %d вокселей)",
		time.Since(start), stats[light.ChannelS].Lit, stats[light.ChannelR].Lit,
		stats[light.ChannelG].Lit, stats[light.ChannelB].Lit)
	return nil
}

// Solve опустошает очереди всех каналов.
// Источники цветного света, погашенные удалением соседнего источника,
// ставятся в очередь заново, пока канал не стабилизируется.
func (l *Lighting) Solve() map[light.Channel]light.SolveStats {
	result := make(map[light.Channel]light.SolveStats, light.ChannelCount)
	for _, s := range l.solvers {
		start := time.Now()
		stats := s.Solve(l.world, l.world.catalog)
		for l.reseedCleared(s) {
			more := s.Solve(l.world, l.world.catalog)
			stats.Cleared += more.Cleared
			stats.Reseeded += more.Reseeded
			stats.Lit += more.Lit
		}
		if l.recorder != nil {
			l.recorder.ObserveSolve(s.Channel(), stats, time.Since(start))
		}
		result[s.Channel()] = stats
	}
	return result
}

// PlaceBlock ставит блок с пересчётом освещения.
// Сначала гасится свет позиции (и солнечный столб под непрозрачным блоком),
// затем записывается блок, и только после удаления свет распространяется заново.
func (l *Lighting) PlaceBlock(pos vec.Vec3Byte, id block.BlockID) error {
	w := l.world
	if _, ok := w.catalog.Get(id); !ok {
		return fmt.Errorf("позиция %v, id %d: %w", pos, id, block.ErrUnknownBlock)
	}
	if w.GetBlock(pos) == id {
		return nil
	}

	opaque := w.catalog.IsOpaque(id)

	for _, s := range l.solvers {
		s.Remove(w, pos)
	}
	if opaque {
		l.removeSunColumn(pos)
	}

	w.SetBlock(pos, id)
	l.Solve()

	if err := l.addEmission(pos, id); err != nil {
		return err
	}
	if !opaque {
		l.relightFrom(pos)
	}
	l.Solve()

	if l.recorder != nil {
		kind := MutationPlace
		if id == block.AirBlockID {
			kind = MutationBreak
		}
		l.recorder.ObserveMutation(kind)
	}
	l.logger.Trace("Блок %d установлен в %v", id, pos)
	return nil
}

// BreakBlock заменяет блок воздухом с пересчётом освещения
func (l *Lighting) BreakBlock(pos vec.Vec3Byte) error {
	return l.PlaceBlock(pos, block.AirBlockID)
}

// removeSunColumn гасит солнечный столб под позицией
func (l *Lighting) removeSunColumn(pos vec.Vec3Byte) {
	w := l.world
	sun := l.solvers[light.ChannelS]
	for y := int(pos.Y) - 1; y >= 0; y-- {
		below := vec.Vec3Byte{X: pos.X, Y: uint8(y), Z: pos.Z}
		if w.IsOpaque(below) || w.GetLightLevel(below, light.ChannelS) != light.MaxLevel {
			break
		}
		sun.Remove(w, below)
	}
}

// relightFrom заново распространяет свет соседей в открывшуюся позицию
// и восстанавливает солнечный столб, если над позицией открытое небо
func (l *Lighting) relightFrom(pos vec.Vec3Byte) {
	w := l.world
	for _, offset := range light.Neighborhood {
		n, ok := light.NeighborPos(pos, offset)
		if !ok {
			continue
		}
		for _, s := range l.solvers {
			s.AddLast(w, n)
		}
	}

	above, ok := light.NeighborPos(pos, vec.Vec3{Y: 1})
	if ok && w.GetLightLevel(above, light.ChannelS) != light.MaxLevel {
		return
	}

	sun := l.solvers[light.ChannelS]
	for y := int(pos.Y); y >= 0; y-- {
		p := vec.Vec3Byte{X: pos.X, Y: uint8(y), Z: pos.Z}
		if w.IsOpaque(p) {
			break
		}
		// уровень MaxLevel всегда допустим
		_ = sun.Add(w, p, light.MaxLevel)
	}
}
