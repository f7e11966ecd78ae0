package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const metaKey = "meta"

// SaveMeta описывает последнее сохранение мира
type SaveMeta struct {
	SaveID  string    `json:"save_id"`
	SavedAt time.Time `json:"saved_at"`
	Columns int       `json:"columns"`
}

// WorldStorage хранит мир в BadgerDB: один ключ на столбец и запись meta
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
	logger  *logging.Logger
}

// NewWorldStorage открывает хранилище мира в директории dataPath
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		logger:  logging.GetStorageLogger(),
	}, nil
}

func columnKey(cx, cz int) []byte {
	return []byte(fmt.Sprintf("column:%d:%d", cx, cz))
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	return ws.db.Close()
}

// SaveWorld сохраняет все столбцы мира и новую запись meta
func (ws *WorldStorage) SaveWorld(ctx context.Context, w *world.World) (err error) {
	ctx, span := startSpan(ctx, "WorldStorage.SaveWorld", BackendBadger)
	defer func() { endSpan(span, err) }()

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	wb := ws.db.NewWriteBatch()
	defer wb.Cancel()

	for x := 0; x < world.WorldSize; x++ {
		for z := 0; z < world.WorldSize; z++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := EncodeColumn(w.Chunk(x, z), w.Catalog())
			if err != nil {
				return fmt.Errorf("ошибка кодирования столбца (%d, %d): %w", x, z, err)
			}
			if err := wb.Set(columnKey(x, z), data); err != nil {
				return fmt.Errorf("ошибка записи столбца (%d, %d): %w", x, z, err)
			}
		}
	}

	meta := SaveMeta{
		SaveID:  uuid.New().String(),
		SavedAt: time.Now().UTC(),
		Columns: ColumnCount,
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("ошибка сериализации meta: %w", err)
	}
	if err := wb.Set([]byte(metaKey), metaData); err != nil {
		return fmt.Errorf("ошибка записи meta: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	span.SetAttributes(attribute.String("storage.save_id", meta.SaveID))
	ws.logger.Info("Мир сохранён в %s (save %s)", ws.dbPath, meta.SaveID)
	return nil
}

// SaveColumn сохраняет один столбец без обновления meta
func (ws *WorldStorage) SaveColumn(ctx context.Context, w *world.World, cx, cz int) (err error) {
	_, span := startSpan(ctx, "WorldStorage.SaveColumn", BackendBadger)
	defer func() { endSpan(span, err) }()

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	chunk := w.Chunk(cx, cz)
	if chunk == nil {
		return fmt.Errorf("столбец (%d, %d) вне мира", cx, cz)
	}
	data, err := EncodeColumn(chunk, w.Catalog())
	if err != nil {
		return err
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(columnKey(cx, cz), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// LoadWorld читает все столбцы. Мир меняется только после успешного
// декодирования всех столбцов.
func (ws *WorldStorage) LoadWorld(ctx context.Context, w *world.World) (err error) {
	ctx, span := startSpan(ctx, "WorldStorage.LoadWorld", BackendBadger)
	defer func() { endSpan(span, err) }()

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	cols := make([]*Column, 0, ColumnCount)
	err = ws.db.View(func(txn *badger.Txn) error {
		for x := 0; x < world.WorldSize; x++ {
			for z := 0; z < world.WorldSize; z++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				col, err := ws.readColumn(txn, x, z, w)
				if err != nil {
					return err
				}
				cols = append(cols, col)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ApplyWorld(w, cols)
	ws.logger.Info("Мир загружен из %s", ws.dbPath)
	return nil
}

// LoadColumn читает один столбец и записывает его в мир
func (ws *WorldStorage) LoadColumn(ctx context.Context, w *world.World, cx, cz int) (err error) {
	_, span := startSpan(ctx, "WorldStorage.LoadColumn", BackendBadger)
	defer func() { endSpan(span, err) }()

	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if w.Chunk(cx, cz) == nil {
		return fmt.Errorf("столбец (%d, %d) вне мира", cx, cz)
	}

	var col *Column
	err = ws.db.View(func(txn *badger.Txn) error {
		var err error
		col, err = ws.readColumn(txn, cx, cz, w)
		return err
	})
	if err != nil {
		return err
	}

	ApplyColumn(w, cx, cz, col)
	return nil
}

func (ws *WorldStorage) readColumn(txn *badger.Txn, cx, cz int, w *world.World) (*Column, error) {
	item, err := txn.Get(columnKey(cx, cz))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("столбец (%d, %d): %w", cx, cz, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	var col *Column
	err = item.Value(func(val []byte) error {
		var err error
		col, err = DecodeColumn(val, w.Catalog())
		if err != nil {
			ws.logger.Debug("Столбец (%d, %d) повреждён:\n%s", cx, cz, logging.HexDump(val))
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("столбец (%d, %d): %w", cx, cz, err)
	}
	return col, nil
}

// Meta возвращает описание последнего сохранения
func (ws *WorldStorage) Meta() (*SaveMeta, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	var meta SaveMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("ошибка десериализации meta: %w", err)
	}
	return &meta, nil
}

// rawColumn возвращает сохранённые байты столбца
func (ws *WorldStorage) rawColumn(cx, cz int) ([]byte, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(columnKey(cx, cz))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return data, err
}

// putRawColumn записывает байты столбца как есть
func (ws *WorldStorage) putRawColumn(cx, cz int, data []byte) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	return ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(columnKey(cx, cz), data)
	})
}
