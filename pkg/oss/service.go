package oss

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"shanchuan/pkg/core/config"
	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// AliyunService 阿里云OSS服务实现
type AliyunService struct {
	config   *config.OssConfig
	client   *oss.Client
	log      *logger.Log
	err      *errorc.ErrorBuilder
	provider credentials.CredentialsProvider
}

// NewAliyunService 创建阿里云OSS服务实例
func NewAliyunService(config *config.OssConfig) (*AliyunService, error) {
	log := logger.GetLogger().WithEntryName("AliyunOSSService")
	errBuilder := errorc.NewErrorBuilder("AliyunOSSService")

	if config.AccessKeyID == "" || config.AccessKeySecret == "" || config.Bucket == "" {
		return nil, errBuilder.New("阿里云配置不完整", nil).ValidWithCtx().ToLog(log.Entry)
	}

	provider := credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.AccessKeySecret, "")
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(provider).
		WithRegion(config.Region)

	if config.Domain != "" {
		cfg = cfg.WithEndpoint(config.Domain).WithUseCName(true)
	}

	client := oss.NewClient(cfg)

	return &AliyunService{
		config:   config,
		client:   client,
		log:      log,
		err:      errBuilder,
		provider: provider,
	}, nil
}

// normalizeKey 保证objectKey不以"/"开头
func normalizeKey(objectKey string) string {
	return strings.TrimPrefix(objectKey, "/")
}

// IsObjectNotFound 判断错误链中是否是对象不存在
func IsObjectNotFound(err error) bool {
	var serviceErr *oss.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.StatusCode == http.StatusNotFound || serviceErr.Code == "NoSuchKey"
	}
	return false
}

// UploadFile 上传文件
func (s *AliyunService) UploadFile(ctx context.Context, objectKey string, reader io.Reader) error {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("上传文件到阿里云OSS")

	request := &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(normalizeKey(objectKey)),
		Body:   reader,
	}

	_, err := s.client.PutObject(ctx, request)
	if err != nil {
		return s.err.New("上传文件到阿里云OSS失败", err).WithTraceID(ctx).ToLog(s.log.Entry)
	}

	return nil
}

// DownloadFile 直接下载文件内容
func (s *AliyunService) DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("直接下载阿里云文件")

	request := &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(normalizeKey(objectKey)),
	}

	result, err := s.client.GetObject(ctx, request)
	if err != nil {
		return nil, s.err.New("直接下载阿里云文件失败", err).WithTraceID(ctx).ToLog(s.log.Entry)
	}

	return result.Body, nil
}

// DeleteFile 直接删除文件
func (s *AliyunService) DeleteFile(ctx context.Context, objectKey string) error {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("直接删除阿里云文件")

	request := &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(normalizeKey(objectKey)),
	}

	_, err := s.client.DeleteObject(ctx, request)
	if err != nil {
		return s.err.New("删除阿里云文件失败", err).WithTraceID(ctx).ToLog(s.log.Entry)
	}

	return nil
}

// ExistsFile 检查文件是否存在
func (s *AliyunService) ExistsFile(ctx context.Context, objectKey string) (bool, error) {
	exist, err := s.client.IsObjectExist(ctx, s.config.Bucket, normalizeKey(objectKey))
	if err != nil {
		return false, s.err.New("检查阿里云文件是否存在失败", err).WithTraceID(ctx)
	}
	return exist, nil
}
