package storage

import (
	"context"
	"encoding/binary"
	"os"
	"testing"

	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) (*WorldStorage, string) {
	// Создаем временную директорию для тестов
	tempDir, err := os.MkdirTemp("", "world-storage-test")
	require.NoError(t, err, "Не удалось создать временную директорию")

	storage, err := NewWorldStorage(tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}

	return storage, tempDir
}

func cleanupTestStorage(storage *WorldStorage, tempDir string) {
	if storage != nil {
		storage.Close()
	}
	if tempDir != "" {
		os.RemoveAll(tempDir)
	}
}

func TestWorldStorageSaveAndLoad(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer cleanupTestStorage(storage, tempDir)

	ctx := context.Background()
	_, err := storage.Meta()
	assert.ErrorIs(t, err, ErrNotFound, "До сохранения meta отсутствует")

	dst := emptyTestWorld(t)
	assert.ErrorIs(t, storage.LoadWorld(ctx, dst), ErrNotFound)

	src := newTestWorld(t)
	decorate(src)
	require.NoError(t, storage.SaveWorld(ctx, src))

	meta, err := storage.Meta()
	require.NoError(t, err)
	assert.Equal(t, ColumnCount, meta.Columns)
	_, err = uuid.Parse(meta.SaveID)
	assert.NoError(t, err, "SaveID должен быть UUID")
	assert.False(t, meta.SavedAt.IsZero())

	require.NoError(t, storage.LoadWorld(ctx, dst))
	assertDecorated(t, dst)

	raw, err := storage.rawColumn(0, 0)
	require.NoError(t, err)
	assert.Len(t, raw, ColumnBytes)
}

func TestWorldStorageColumnOperations(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer cleanupTestStorage(storage, tempDir)

	ctx := context.Background()
	src := newTestWorld(t)
	decorate(src)
	require.NoError(t, storage.SaveColumn(ctx, src, 1, 15))

	dst := emptyTestWorld(t)
	require.NoError(t, storage.LoadColumn(ctx, dst, 1, 15))
	assert.Equal(t, src.Catalog().MustLID(block.RedLampName), dst.GetBlock(p(17, 33, 250)))
	assert.Equal(t, block.AirBlockID, dst.GetBlock(p(0, 0, 0)), "Другие столбцы не загружаются")

	assert.ErrorIs(t, storage.LoadColumn(ctx, dst, 2, 2), ErrNotFound)
	assert.Error(t, storage.SaveColumn(ctx, src, 16, 0))
}

func TestWorldStorageRejectsCorruptColumn(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer cleanupTestStorage(storage, tempDir)

	ctx := context.Background()
	src := newTestWorld(t)
	require.NoError(t, storage.SaveWorld(ctx, src))

	require.NoError(t, storage.putRawColumn(3, 4, []byte{1, 2, 3}))
	dst := emptyTestWorld(t)
	assert.ErrorIs(t, storage.LoadWorld(ctx, dst), ErrInvalidSectionSize)
	assert.Equal(t, block.AirBlockID, dst.GetBlock(p(0, 0, 0)), "Мир не изменён частично")

	bad := make([]byte, ColumnBytes)
	binary.BigEndian.PutUint16(bad, 999)
	require.NoError(t, storage.putRawColumn(3, 4, bad))
	assert.ErrorIs(t, storage.LoadWorld(ctx, dst), ErrUnknownBlock)
}

func TestWorldStorageClosed(t *testing.T) {
	storage, tempDir := setupTestStorage(t)
	defer os.RemoveAll(tempDir)

	require.NoError(t, storage.Close())
	require.NoError(t, storage.Close(), "Повторное закрытие безопасно")
	assert.Error(t, storage.SaveWorld(context.Background(), emptyTestWorld(t)))
}
