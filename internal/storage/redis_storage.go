package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// redisKeyPrefix - пространство ключей мира в Redis
const redisKeyPrefix = "voxel:"

// RedisStorage хранит столбцы мира в Redis под ключами voxel:column:<x>:<z>
type RedisStorage struct {
	client *redis.Client
	addr   string
	logger *logging.Logger
}

// NewRedisStorage подключается к Redis по адресу host:port
func NewRedisStorage(addr string) (*RedisStorage, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     4,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	// Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", addr, err)
	}

	return &RedisStorage{
		client: rdb,
		addr:   addr,
		logger: logging.GetStorageLogger(),
	}, nil
}

func redisColumnKey(cx, cz int) string {
	return redisKeyPrefix + string(columnKey(cx, cz))
}

// SaveWorld записывает все столбцы и meta одной транзакцией MULTI/EXEC
func (r *RedisStorage) SaveWorld(ctx context.Context, w *world.World) (err error) {
	ctx, span := startSpan(ctx, "RedisStorage.SaveWorld", BackendRedis)
	defer func() { endSpan(span, err) }()

	values := make(map[string][]byte, ColumnCount)
	for x := 0; x < world.WorldSize; x++ {
		for z := 0; z < world.WorldSize; z++ {
			data, err := EncodeColumn(w.Chunk(x, z), w.Catalog())
			if err != nil {
				return fmt.Errorf("ошибка кодирования столбца (%d, %d): %w", x, z, err)
			}
			values[redisColumnKey(x, z)] = data
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

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range values {
			pipe.Set(ctx, key, data, 0)
		}
		pipe.Set(ctx, redisKeyPrefix+metaKey, metaData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в Redis: %w", err)
	}

	span.SetAttributes(attribute.String("storage.save_id", meta.SaveID))
	r.logger.Info("Мир сохранён в Redis %s (save %s)", r.addr, meta.SaveID)
	return nil
}

// LoadWorld читает все столбцы одним MGET и применяет их только после
// успешного декодирования
func (r *RedisStorage) LoadWorld(ctx context.Context, w *world.World) (err error) {
	ctx, span := startSpan(ctx, "RedisStorage.LoadWorld", BackendRedis)
	defer func() { endSpan(span, err) }()

	keys := make([]string, 0, ColumnCount)
	for x := 0; x < world.WorldSize; x++ {
		for z := 0; z < world.WorldSize; z++ {
			keys = append(keys, redisColumnKey(x, z))
		}
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("ошибка чтения из Redis: %w", err)
	}

	cols, err := decodeRedisColumns(keys, values, w)
	if err != nil {
		return err
	}

	ApplyWorld(w, cols)
	r.logger.Info("Мир загружен из Redis %s", r.addr)
	return nil
}

// decodeRedisColumns разбирает ответ MGET в порядке ключей
func decodeRedisColumns(keys []string, values []interface{}, w *world.World) ([]*Column, error) {
	cols := make([]*Column, 0, len(values))
	for i, v := range values {
		var data []byte
		switch val := v.(type) {
		case nil:
			return nil, fmt.Errorf("%s: %w", keys[i], ErrNotFound)
		case string:
			data = []byte(val)
		case []byte:
			data = val
		default:
			return nil, fmt.Errorf("%s: неожиданный тип значения %T", keys[i], v)
		}

		col, err := DecodeColumn(data, w.Catalog())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keys[i], err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Close закрывает соединение с Redis
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
