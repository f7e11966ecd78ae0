package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/world"
	"go.opentelemetry.io/otel/attribute"
)

// FileStorage хранит мир в одном плоском файле
type FileStorage struct {
	path   string
	mu     sync.Mutex
	logger *logging.Logger
}

// NewFileStorage создаёт файловое хранилище. Директория файла создаётся при необходимости.
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для %s: %w", path, err)
	}

	return &FileStorage{
		path:   path,
		logger: logging.GetStorageLogger(),
	}, nil
}

// Path возвращает путь к файлу мира
func (f *FileStorage) Path() string {
	return f.path
}

// SaveWorld записывает мир во временный файл и атомарно заменяет им старый
func (f *FileStorage) SaveWorld(ctx context.Context, w *world.World) (err error) {
	ctx, span := startSpan(ctx, "FileStorage.SaveWorld", BackendFile)
	defer func() { endSpan(span, err) }()

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := EncodeWorld(w)
	if err != nil {
		return fmt.Errorf("ошибка кодирования мира: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка замены файла %s: %w", f.path, err)
	}

	span.SetAttributes(attribute.Int("storage.bytes", len(data)))
	f.logger.Info("Мир сохранён в %s (%d байт)", f.path, len(data))
	return nil
}

// LoadWorld читает мир из файла. Данные декодируются целиком до записи в мир,
// поэтому ошибка не оставляет мир наполовину загруженным.
func (f *FileStorage) LoadWorld(ctx context.Context, w *world.World) (err error) {
	ctx, span := startSpan(ctx, "FileStorage.LoadWorld", BackendFile)
	defer func() { endSpan(span, err) }()

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", f.path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("ошибка чтения файла %s: %w", f.path, err)
	}

	cols, err := DecodeWorld(data, w.Catalog())
	if err != nil {
		f.logger.Debug("Начало повреждённого файла:\n%s", logging.HexDump(data))
		return fmt.Errorf("файл %s: %w", f.path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ApplyWorld(w, cols)
	f.logger.Info("Мир загружен из %s", f.path)
	return nil
}

// Close ничего не делает: файл открывается только на время операции
func (f *FileStorage) Close() error {
	return nil
}
