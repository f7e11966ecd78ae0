package eventbus

import (
	"fmt"
	"time"
)

// Виды шины событий
const (
	BackendNone      = "none"
	BackendMemory    = "memory"
	BackendJetStream = "jetstream"
)

// Open создаёт шину указанного вида. Для BackendNone возвращает nil.
func Open(backend, url, stream string, retention time.Duration, capacity int) (EventBus, error) {
	switch backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemoryBus(capacity), nil
	case BackendJetStream:
		bus, err := NewJetStreamBus(url, stream, retention)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("неизвестный вид шины событий: %q", backend)
	}
}
