package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/annel0/voxel-world/internal/light"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldMetricsRecordsSolves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorldMetrics(reg)

	m.ObserveSolve(light.ChannelR, light.SolveStats{Lit: 10, Cleared: 3, Reseeded: 1}, time.Millisecond)
	m.ObserveSolve(light.ChannelR, light.SolveStats{Lit: 5}, time.Millisecond)
	m.ObserveSolve(light.ChannelS, light.SolveStats{Cleared: 7}, time.Millisecond)

	assert.Equal(t, 15.0, testutil.ToFloat64(m.voxelsLit.WithLabelValues("R")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.voxelsCleared.WithLabelValues("R")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.voxelsCleared.WithLabelValues("S")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourcesReadded.WithLabelValues("R")))
}

func TestWorldMetricsMutationsAndSaves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorldMetrics(reg)

	m.ObserveMutation("place")
	m.ObserveMutation("place")
	m.SetDirtySubChunks(12)
	m.ObserveSave("file", nil)
	m.ObserveSave("file", errors.New("диск заполнен"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("place")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.dirtySubChunks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves.WithLabelValues("file", "error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestWorldMetricsDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWorldMetrics(reg)
	assert.Panics(t, func() { NewWorldMetrics(reg) })
}
