package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
	"time"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"
	"shanchuan/system/transfer/internal/model"
	"shanchuan/system/transfer/internal/service"
	"shanchuan/system/transfer/internal/service/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// stubStorage 内存文件存储
type stubStorage struct {
	blobs map[string][]byte
}

func newStubStorage() *stubStorage {
	return &stubStorage{blobs: map[string][]byte{}}
}

func (s *stubStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*storage.StoredObject, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	s.blobs[key] = content

	hash := sha256.Sum256(content)
	return &storage.StoredObject{
		Key:         key,
		Size:        int64(len(content)),
		ContentType: contentType,
		SHA256:      hex.EncodeToString(hash[:]),
		CreatedAt:   time.Now(),
	}, nil
}

func (s *stubStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	content, ok := s.blobs[key]
	if !ok {
		return nil, errorc.New("文件不存在", nil).NotFound()
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

func (s *stubStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *stubStorage) Mode() string {
	return "stub"
}

// stubStore 内存记录存储
type stubStore struct {
	records    map[string]*model.TransferRecord
	nextID     int64
	insertErrs []error // 队列，非空时 Insert 依次返回
	findCalls  int
}

func newStubStore() *stubStore {
	return &stubStore{records: map[string]*model.TransferRecord{}}
}

func (s *stubStore) Insert(ctx context.Context, record *model.TransferRecord) error {
	if len(s.insertErrs) > 0 {
		err := s.insertErrs[0]
		s.insertErrs = s.insertErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := s.records[record.Code]; ok {
		return errorc.New("提取码已被占用", nil).Duplicate()
	}

	s.nextID++
	record.ID = s.nextID
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	clone := *record
	s.records[record.Code] = &clone
	return nil
}

func (s *stubStore) FindActiveByCode(ctx context.Context, code string, cutoff time.Time) (*model.TransferRecord, error) {
	s.findCalls++

	record, ok := s.records[code]
	if !ok || !record.CreatedAt.After(cutoff) {
		return nil, errorc.New("闪传记录不存在或已过期", nil).NotFound()
	}

	clone := *record
	return &clone, nil
}

func (s *stubStore) DeleteByCode(ctx context.Context, code string) error {
	delete(s.records, code)
	return nil
}

func (s *stubStore) IncrementDownloadCount(ctx context.Context, id int64) error {
	for _, record := range s.records {
		if record.ID == id {
			record.DownloadCount++
			return nil
		}
	}
	return nil
}

func (s *stubStore) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.TransferRecord, error) {
	var results []*model.TransferRecord
	for _, record := range s.records {
		if !record.CreatedAt.After(cutoff) {
			clone := *record
			results = append(results, &clone)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (s *stubStore) DeleteRecord(ctx context.Context, id int64) error {
	for code, record := range s.records {
		if record.ID == id {
			delete(s.records, code)
			return nil
		}
	}
	return nil
}

// newTestApp 组装测试用App，codes耗尽后回退到随机生成
func newTestApp(store *stubStore, blobs *stubStorage, codes ...string) *App {
	idx := 0
	gen := func(length int) (string, error) {
		if idx < len(codes) {
			code := codes[idx]
			idx++
			return code, nil
		}
		return service.GenerateCode(length)
	}

	return &App{
		Records:    store,
		Storage:    blobs,
		ttl:        24 * time.Hour,
		codeLength: 8,
		genCode:    gen,
		log:        logger.GetLogger().WithEntryName("TestTransferApp"),
		err:        errorc.NewErrorBuilder("TestTransferApp"),
	}
}

func uploadRequest(content string) *UploadRequest {
	return &UploadRequest{
		FileName:    "photo.png",
		Size:        int64(len(content)),
		ContentType: "image/png",
		Reader:      bytes.NewReader([]byte(content)),
	}
}

func TestUpload_ReturnsRecordWithCode(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs, "aaaa1111")

	record, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.NoError(t, err)
	assert.Equal(t, "aaaa1111", record.Code)
	assert.Equal(t, "photo.png", record.FileName)
	assert.Equal(t, int64(len("content")), record.Size)
	assert.NotEmpty(t, record.SHA256)

	// 文件已落盘
	assert.Equal(t, []byte("content"), blobs.blobs[record.ObjectKey])
}

func TestUpload_EmptyFileRejected(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs)

	_, err := a.Upload(context.Background(), uploadRequest(""))
	assert.Error(t, err)
	assert.Empty(t, blobs.blobs)
	assert.Empty(t, store.records)
}

func TestUpload_NilReaderRejected(t *testing.T) {
	a := newTestApp(newStubStore(), newStubStorage())

	_, err := a.Upload(context.Background(), &UploadRequest{FileName: "x.png", Size: 1})
	assert.Error(t, err)
}

func TestUpload_CodeCollisionRetries(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()

	// 预占第一个码，触发一次换码
	occupied := &model.TransferRecord{Code: "aaaa1111", ObjectKey: "other"}
	assert.NoError(t, store.Insert(context.Background(), occupied))

	a := newTestApp(store, blobs, "aaaa1111", "bbbb2222")

	record, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.NoError(t, err)
	assert.Equal(t, "bbbb2222", record.Code)
}

func TestUpload_CollisionExhaustedCleansBlob(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()

	// 每次插入都报冲突
	for i := 0; i < 5; i++ {
		store.insertErrs = append(store.insertErrs, errorc.New("提取码已被占用", nil).Duplicate())
	}

	a := newTestApp(store, blobs, "c1", "c2", "c3", "c4", "c5")

	_, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.Error(t, err)
	// 记录没写成，文件也要回收
	assert.Empty(t, blobs.blobs)
}

func TestUpload_InsertFailureCleansBlob(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	store.insertErrs = append(store.insertErrs, errorc.New("数据库不可用", nil).DB())

	a := newTestApp(store, blobs, "aaaa1111")

	_, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.Error(t, err)
	assert.Empty(t, blobs.blobs)
}

func TestDownload_HappyPath(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs, "aaaa1111")

	_, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.NoError(t, err)

	record, reader, err := a.Download(context.Background(), "aaaa1111")
	assert.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, []byte("content"), got)

	// 下载次数已递增
	assert.Equal(t, int64(1), store.records[record.Code].DownloadCount)
}

func TestDownload_UnknownCodeNotFound(t *testing.T) {
	a := newTestApp(newStubStore(), newStubStorage())

	_, _, err := a.Download(context.Background(), "nosuchcd")
	assert.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))
}

func TestDownload_ExpiredRecordNotFound(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs)

	expired := &model.TransferRecord{Code: "aaaa1111", ObjectKey: "k"}
	expired.CreatedAt = time.Now().Add(-25 * time.Hour)
	assert.NoError(t, store.Insert(context.Background(), expired))
	blobs.blobs["k"] = []byte("content")

	_, _, err := a.Download(context.Background(), "aaaa1111")
	assert.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))
}

func TestDownload_MissingBlobSelfHeals(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs, "aaaa1111")

	record, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.NoError(t, err)

	// 文件被外部清掉，记录成了孤儿
	delete(blobs.blobs, record.ObjectKey)

	_, _, err = a.Download(context.Background(), "aaaa1111")
	assert.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))

	// 孤儿记录已被顺手删除
	_, ok := store.records["aaaa1111"]
	assert.False(t, ok)

	// 再次下载仍然是404，不报错
	_, _, err = a.Download(context.Background(), "aaaa1111")
	assert.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))
}

func TestMeta_MissingBlobSelfHeals(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs, "aaaa1111")

	record, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.NoError(t, err)

	// 文件在，元数据正常返回
	meta, err := a.Meta(context.Background(), "aaaa1111")
	assert.NoError(t, err)
	assert.Equal(t, "aaaa1111", meta.Code)

	// 文件被外部清掉后，元数据查询和下载一样收敛到404
	delete(blobs.blobs, record.ObjectKey)

	_, err = a.Meta(context.Background(), "aaaa1111")
	assert.Error(t, err)
	assert.True(t, errorc.IsNotFound(err))

	// 孤儿记录已被顺手删除
	_, ok := store.records["aaaa1111"]
	assert.False(t, ok)
}

func TestSweepExpired(t *testing.T) {
	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs)

	fresh := &model.TransferRecord{Code: "freshcd1", ObjectKey: "fresh"}
	assert.NoError(t, store.Insert(context.Background(), fresh))
	blobs.blobs["fresh"] = []byte("fresh")

	expired := &model.TransferRecord{Code: "oldcd111", ObjectKey: "old"}
	expired.CreatedAt = time.Now().Add(-25 * time.Hour)
	assert.NoError(t, store.Insert(context.Background(), expired))
	blobs.blobs["old"] = []byte("old")

	deleted, err := a.SweepExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, deleted)

	// 过期的记录和文件都没了，未过期的保留
	_, ok := store.records["oldcd111"]
	assert.False(t, ok)
	_, ok = blobs.blobs["old"]
	assert.False(t, ok)
	_, ok = store.records["freshcd1"]
	assert.True(t, ok)
	_, ok = blobs.blobs["fresh"]
	assert.True(t, ok)
}

func TestFindActive_CacheReadThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := newStubStore()
	blobs := newStubStorage()
	a := newTestApp(store, blobs, "aaaa1111")
	a.cache = cache.New(&cache.Options{Redis: rdb})

	_, err := a.Upload(context.Background(), uploadRequest("content"))
	assert.NoError(t, err)

	// 第一次查询可能命中上传时写入的缓存，清掉后从库里读
	a.cacheDelete(context.Background(), "aaaa1111")

	_, err = a.Meta(context.Background(), "aaaa1111")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.findCalls)

	// 第二次查询走缓存，不再查库
	record, err := a.Meta(context.Background(), "aaaa1111")
	assert.NoError(t, err)
	assert.Equal(t, "aaaa1111", record.Code)
	assert.Equal(t, 1, store.findCalls)
}
