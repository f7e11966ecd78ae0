package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий мира
const (
	EventBlockPlaced = "block_placed"
	EventBlockBroken = "block_broken"
	EventWorldSaved  = "world_saved"
)

// PayloadVersion - версия схемы полезной нагрузки
const PayloadVersion = 1

// BlockChange - полезная нагрузка событий block_placed и block_broken
type BlockChange struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Z        int    `json:"z"`
	Block    string `json:"block"`
	ID       uint16 `json:"id"`
	Previous string `json:"previous"`
}

// WorldSaved - полезная нагрузка события world_saved
type WorldSaved struct {
	Backend  string        `json:"backend"`
	Duration time.Duration `json:"duration"`
}

// NewEnvelope упаковывает полезную нагрузку в конверт
func NewEnvelope(source, eventType string, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   PayloadVersion,
		Payload:   data,
	}, nil
}

// Decode распаковывает полезную нагрузку события
func (ev *Envelope) Decode(out interface{}) error {
	if err := json.Unmarshal(ev.Payload, out); err != nil {
		return fmt.Errorf("событие %s (%s): %w", ev.ID, ev.EventType, err)
	}
	return nil
}

// Emit упаковывает и публикует событие. При bus == nil ничего не делает.
func Emit(ctx context.Context, bus EventBus, source, eventType, correlationID string, payload interface{}) error {
	if bus == nil {
		return nil
	}
	ev, err := NewEnvelope(source, eventType, payload)
	if err != nil {
		return err
	}
	ev.CorrelationID = correlationID
	return bus.Publish(ctx, ev)
}
