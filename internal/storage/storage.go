package storage

import (
	"context"
	"fmt"

	"github.com/annel0/voxel-world/internal/world"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Виды хранилищ
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// WorldStore сохраняет и загружает блоки мира. Освещение не сохраняется:
// после загрузки вызывающая сторона пересчитывает его.
type WorldStore interface {
	SaveWorld(ctx context.Context, w *world.World) error
	LoadWorld(ctx context.Context, w *world.World) error
	Close() error
}

var tracer = otel.Tracer("github.com/annel0/voxel-world/internal/storage")

func startSpan(ctx context.Context, name, backend string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("storage.backend", backend)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Open открывает хранилище указанного вида
func Open(backend, path string) (WorldStore, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStorage(path)
	case BackendBadger:
		return NewWorldStorage(path)
	case BackendRedis:
		return NewRedisStorage(path)
	default:
		return nil, fmt.Errorf("неизвестный вид хранилища: %q", backend)
	}
}
