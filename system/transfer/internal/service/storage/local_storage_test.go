package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"

	"github.com/stretchr/testify/assert"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()

	store, err := NewLocalStorage(t.TempDir(), logger.GetLogger())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	return store
}

func TestLocalStorage_PutAndOpen(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	content := []byte("hello shanchuan")
	obj, err := store.Put(ctx, "a/b.png", bytes.NewReader(content), int64(len(content)), "image/png")
	assert.NoError(t, err)
	assert.Equal(t, int64(len(content)), obj.Size)

	wantHash := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(wantHash[:]), obj.SHA256)

	reader, err := store.Open(ctx, "a/b.png")
	assert.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorage_PutSizeMismatch(t *testing.T) {
	store := newTestLocalStorage(t)

	content := []byte("hello")
	_, err := store.Put(context.Background(), "x.bin", bytes.NewReader(content), 999, "")
	assert.Error(t, err)

	// 大小不符时不落盘
	exists, err := store.Exists(context.Background(), "x.bin")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_OpenNotFound(t *testing.T) {
	store := newTestLocalStorage(t)

	_, err := store.Open(context.Background(), "missing.bin")
	assert.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))
}

func TestLocalStorage_DeleteIdempotent(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	content := []byte("data")
	_, err := store.Put(ctx, "d.bin", bytes.NewReader(content), int64(len(content)), "")
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(ctx, "d.bin"))
	// 重复删除不算错误
	assert.NoError(t, store.Delete(ctx, "d.bin"))

	exists, err := store.Exists(ctx, "d.bin")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_RejectsTraversalKey(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.bin", "a/../../escape.bin", "/abs.bin"} {
		_, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), 1, "")
		assert.Error(t, err, "key %q 应被拒绝", key)

		_, err = store.Open(ctx, key)
		assert.Error(t, err, "key %q 应被拒绝", key)
	}
}
