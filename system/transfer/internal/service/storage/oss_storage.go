package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"
	"shanchuan/pkg/oss"
)

// OSSStorage OSS 存储实现
type OSSStorage struct {
	ossService *oss.AliyunService
	prefix     string // key 前缀，用于隔离
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

// NewOSSStorage 创建 OSS 存储实例
func NewOSSStorage(ossService *oss.AliyunService, prefix string, log *logger.Log) *OSSStorage {
	return &OSSStorage{
		ossService: ossService,
		prefix:     prefix,
		log:        log.WithEntryName("OSSStorage"),
		err:        errorc.NewErrorBuilder("OSSStorage"),
	}
}

// Mode 返回存储模式标识
func (s *OSSStorage) Mode() string {
	return "oss"
}

// fullKey 获取完整的 OSS key
func (s *OSSStorage) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// Put 上传文件到 OSS
func (s *OSSStorage) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*StoredObject, error) {
	fullKey := s.fullKey(key)

	// 需要先读全内容计算 SHA256
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, s.err.New("读取文件内容失败", err)
	}

	if size > 0 && int64(len(content)) != size {
		return nil, s.err.New("文件大小不匹配", nil).ValidWithCtx()
	}

	hash := sha256.Sum256(content)
	sha256Sum := hex.EncodeToString(hash[:])

	err = s.ossService.UploadFile(ctx, fullKey, bytes.NewReader(content))
	if err != nil {
		return nil, s.err.New("上传到 OSS 失败", err)
	}

	s.log.WithFields(map[string]interface{}{
		"key":    fullKey,
		"size":   len(content),
		"sha256": sha256Sum,
	}).Info("文件上传到 OSS 成功")

	return &StoredObject{
		Key:         key,
		Size:        int64(len(content)),
		ContentType: contentType,
		SHA256:      sha256Sum,
		CreatedAt:   time.Now(),
	}, nil
}

// Open 从 OSS 下载文件
func (s *OSSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullKey := s.fullKey(key)

	reader, err := s.ossService.DownloadFile(ctx, fullKey)
	if err != nil {
		if oss.IsObjectNotFound(err) {
			return nil, s.err.New("文件不存在", err).WithCode(errorc.ErrorCodeNotFound)
		}
		return nil, s.err.New("从 OSS 下载失败", err)
	}

	return reader, nil
}

// Delete 从 OSS 删除文件
func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	fullKey := s.fullKey(key)

	err := s.ossService.DeleteFile(ctx, fullKey)
	if err != nil {
		return s.err.New("从 OSS 删除失败", err)
	}

	s.log.WithField("key", fullKey).Info("文件从 OSS 删除成功")
	return nil
}

// Exists 检查 OSS 文件是否存在
func (s *OSSStorage) Exists(ctx context.Context, key string) (bool, error) {
	exist, err := s.ossService.ExistsFile(ctx, s.fullKey(key))
	if err != nil {
		return false, s.err.New("检查 OSS 文件是否存在失败", err)
	}
	return exist, nil
}
