package oss

import (
	"net/http"
	"testing"

	errorc "shanchuan/pkg/core/err"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/stretchr/testify/assert"
)

func TestIsObjectNotFound(t *testing.T) {
	notFoundByStatus := &oss.ServiceError{StatusCode: http.StatusNotFound}
	notFoundByCode := &oss.ServiceError{Code: "NoSuchKey"}
	forbidden := &oss.ServiceError{StatusCode: http.StatusForbidden, Code: "AccessDenied"}

	assert.True(t, IsObjectNotFound(notFoundByStatus))
	assert.True(t, IsObjectNotFound(notFoundByCode))
	assert.False(t, IsObjectNotFound(forbidden))
	assert.False(t, IsObjectNotFound(nil))

	// 包了一层业务错误也要能识别出来
	wrapped := errorc.New("直接下载阿里云文件失败", notFoundByStatus)
	assert.True(t, IsObjectNotFound(wrapped))

	wrappedForbidden := errorc.New("直接下载阿里云文件失败", forbidden)
	assert.False(t, IsObjectNotFound(wrappedForbidden))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "a/b.png", normalizeKey("/a/b.png"))
	assert.Equal(t, "a/b.png", normalizeKey("a/b.png"))
}
