package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector собирает полученные события
type collector struct {
	mu     sync.Mutex
	events []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestMemoryBusDeliversInOrder(t *testing.T) {
	bus := NewMemoryBus(16)
	var c collector
	_, err := bus.Subscribe(context.Background(), Filter{}, c.handle)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, Emit(context.Background(), bus, "test", EventBlockPlaced, "", BlockChange{X: i}))
	}
	require.NoError(t, bus.Close())

	require.Equal(t, 5, c.len())
	for i, ev := range c.events {
		var change BlockChange
		require.NoError(t, ev.Decode(&change))
		assert.Equal(t, i, change.X)
		assert.Equal(t, PayloadVersion, ev.Version)
		assert.NotEmpty(t, ev.ID)
	}

	stats := bus.Metrics()
	assert.Equal(t, uint64(5), stats.Published)
	assert.Equal(t, uint64(5), stats.Consumed)
}

func TestMemoryBusFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	var placed, saved collector
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{EventBlockPlaced}}, placed.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{EventWorldSaved}, Sources: []string{"api"}}, saved.handle)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Emit(ctx, bus, "api", EventBlockPlaced, "req-1", BlockChange{}))
	require.NoError(t, Emit(ctx, bus, "cli", EventWorldSaved, "", WorldSaved{Backend: "file"}))
	require.NoError(t, Emit(ctx, bus, "api", EventWorldSaved, "", WorldSaved{Backend: "badger", Duration: time.Second}))
	require.NoError(t, bus.Close())

	require.Equal(t, 1, placed.len())
	assert.Equal(t, "req-1", placed.events[0].CorrelationID)

	require.Equal(t, 1, saved.len())
	var payload WorldSaved
	require.NoError(t, saved.events[0].Decode(&payload))
	assert.Equal(t, "badger", payload.Backend)
	assert.Equal(t, time.Second, payload.Duration)
}

func TestMemoryBusUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	var c collector
	sub, err := bus.Subscribe(context.Background(), Filter{}, c.handle)
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, Emit(context.Background(), bus, "test", EventBlockBroken, "", BlockChange{}))
	require.NoError(t, bus.Close())
	assert.Equal(t, 0, c.len())
}

func TestMemoryBusDropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	// первое событие занимает обработчик, второе - буфер
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: EventBlockPlaced}))
	<-started
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: EventBlockPlaced}))
	require.NoError(t, bus.Publish(ctx, &Envelope{EventType: EventBlockPlaced}))

	assert.Equal(t, uint64(1), bus.Metrics().Dropped)

	// высокий приоритет ждёт места до отмены контекста
	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err = bus.Publish(cctx, &Envelope{EventType: EventBlockPlaced, Priority: 9})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(ctx, &Envelope{}), ErrClosed)
}

func TestEmitNilBus(t *testing.T) {
	assert.NoError(t, Emit(context.Background(), nil, "test", EventBlockPlaced, "", BlockChange{}))
}

func TestOpen(t *testing.T) {
	bus, err := Open(BackendNone, "", "", 0, 0)
	require.NoError(t, err)
	assert.Nil(t, bus)

	bus, err = Open(BackendMemory, "", "", 0, 8)
	require.NoError(t, err)
	require.NotNil(t, bus)
	assert.NoError(t, bus.Close())

	_, err = Open("kafka", "", "", 0, 0)
	assert.Error(t, err)

	// порт 1 заведомо не слушается
	_, err = Open(BackendJetStream, "nats://127.0.0.1:1", "WORLD", time.Hour, 0)
	assert.Error(t, err)
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg, bus))

	require.NoError(t, Emit(context.Background(), bus, "test", EventBlockPlaced, "", BlockChange{}))
	require.NoError(t, bus.Close())

	count, err := testutil.GatherAndCount(reg, "eventbus_messages_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Error(t, RegisterMetrics(reg, bus), "повторная регистрация")
}

func TestLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)
	sub, err := StartLoggingListener(bus, logging.GetComponentLogger("eventbus"))
	require.NoError(t, err)
	require.NotNil(t, sub)
	require.NoError(t, Emit(context.Background(), bus, "test", EventWorldSaved, "", WorldSaved{}))
	require.NoError(t, bus.Close())
	assert.Equal(t, uint64(1), bus.Metrics().Consumed)
}
