package storage

import (
	"testing"

	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisColumnKey(t *testing.T) {
	assert.Equal(t, "voxel:column:3:15", redisColumnKey(3, 15))
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	// порт 1 заведомо не слушается
	_, err := NewRedisStorage("127.0.0.1:1")
	assert.Error(t, err)

	_, err = Open(BackendRedis, "127.0.0.1:1")
	assert.Error(t, err)
}

func TestDecodeRedisColumns(t *testing.T) {
	src := newTestWorld(t)
	decorate(src)

	keys := []string{redisColumnKey(0, 0), redisColumnKey(15, 15)}
	first, err := EncodeColumn(src.Chunk(0, 0), src.Catalog())
	require.NoError(t, err)
	last, err := EncodeColumn(src.Chunk(15, 15), src.Catalog())
	require.NoError(t, err)

	// go-redis отдаёт значения MGET строками
	cols, err := decodeRedisColumns(keys, []interface{}{string(first), last}, src)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, src.Catalog().MustLID(block.GlowstoneName), cols[0][12][8][0][0])
	assert.Equal(t, src.Catalog().MustLID(block.GlassName), cols[1][15][15][15][15])

	_, err = decodeRedisColumns(keys, []interface{}{string(first), nil}, src)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = decodeRedisColumns(keys[:1], []interface{}{"short"}, src)
	assert.ErrorIs(t, err, ErrInvalidSectionSize)

	_, err = decodeRedisColumns(keys[:1], []interface{}{42}, src)
	assert.Error(t, err)
}
