package metrics

import (
	"time"

	"github.com/annel0/voxel-world/internal/light"
	"github.com/prometheus/client_golang/prometheus"
)

// WorldMetrics - Prometheus-метрики освещения и изменений мира.
// Реализует world.Recorder.
type WorldMetrics struct {
	solveDuration  *prometheus.HistogramVec
	voxelsLit      *prometheus.CounterVec
	voxelsCleared  *prometheus.CounterVec
	sourcesReadded *prometheus.CounterVec
	mutations      *prometheus.CounterVec
	dirtySubChunks prometheus.Gauge
	saves          *prometheus.CounterVec
}

// NewWorldMetrics создаёт метрики и регистрирует их в reg
// (nil - глобальный регистр Prometheus).
func NewWorldMetrics(reg prometheus.Registerer) *WorldMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &WorldMetrics{
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voxel",
			Subsystem: "light",
			Name:      "solve_duration_seconds",
			Help:      "Длительность решения очередей канала.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"channel"}),
		voxelsLit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "light",
			Name:      "voxels_lit_total",
			Help:      "Вокселей, освещённых проходом распространения.",
		}, []string{"channel"}),
		voxelsCleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "light",
			Name:      "voxels_cleared_total",
			Help:      "Вокселей, погашенных проходом удаления.",
		}, []string{"channel"}),
		sourcesReadded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "light",
			Name:      "sources_readded_total",
			Help:      "Независимых источников, повторно поставленных в очередь.",
		}, []string{"channel"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "mutations_total",
			Help:      "Изменения блоков мира.",
		}, []string{"kind"}),
		dirtySubChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Subsystem: "world",
			Name:      "dirty_subchunks",
			Help:      "Хранилища, ожидающие перестройки меша.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Subsystem: "storage",
			Name:      "saves_total",
			Help:      "Сохранения мира по результату.",
		}, []string{"backend", "result"}),
	}

	reg.MustRegister(m.solveDuration, m.voxelsLit, m.voxelsCleared, m.sourcesReadded,
		m.mutations, m.dirtySubChunks, m.saves)
	return m
}

// ObserveSolve учитывает одно решение канала
func (m *WorldMetrics) ObserveSolve(ch light.Channel, stats light.SolveStats, elapsed time.Duration) {
	label := ch.String()
	m.solveDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.voxelsLit.WithLabelValues(label).Add(float64(stats.Lit))
	m.voxelsCleared.WithLabelValues(label).Add(float64(stats.Cleared))
	m.sourcesReadded.WithLabelValues(label).Add(float64(stats.Reseeded))
}

// ObserveMutation учитывает изменение блока
func (m *WorldMetrics) ObserveMutation(kind string) {
	m.mutations.WithLabelValues(kind).Inc()
}

// SetDirtySubChunks обновляет число изменённых хранилищ
func (m *WorldMetrics) SetDirtySubChunks(n int) {
	m.dirtySubChunks.Set(float64(n))
}

// ObserveSave учитывает попытку сохранения
func (m *WorldMetrics) ObserveSave(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(backend, result).Inc()
}
