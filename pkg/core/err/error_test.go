package errorc

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestIsNotFound(t *testing.T) {
	builder := NewErrorBuilder("Test")

	if !IsNotFound(builder.New("不存在", nil).NotFound()) {
		t.Error("NotFound错误应被识别")
	}
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Error("gorm.ErrRecordNotFound应被识别")
	}
	if IsNotFound(builder.New("数据库错误", nil).DB()) {
		t.Error("DB错误不应被识别为NotFound")
	}
	if IsNotFound(nil) {
		t.Error("nil不应被识别为NotFound")
	}
}

func TestIsDuplicate(t *testing.T) {
	builder := NewErrorBuilder("Test")

	if !IsDuplicate(builder.New("已存在", nil).Duplicate()) {
		t.Error("Duplicate错误应被识别")
	}
	if !IsDuplicate(gorm.ErrDuplicatedKey) {
		t.Error("gorm.ErrDuplicatedKey应被识别")
	}
	if IsDuplicate(builder.New("不存在", nil).NotFound()) {
		t.Error("NotFound错误不应被识别为Duplicate")
	}
	if IsDuplicate(nil) {
		t.Error("nil不应被识别为Duplicate")
	}
}

func TestErrorCodeFromCause(t *testing.T) {
	// 包装gorm唯一索引冲突时应自动映射为Duplicate
	err := New("插入失败", gorm.ErrDuplicatedKey)
	if err.ErrorCode != ErrorCodeDuplicate {
		t.Errorf("ErrorCode = %v, want Duplicate", err.ErrorCode)
	}

	// 包装记录不存在时应自动映射为NotFound
	err = New("查询失败", gorm.ErrRecordNotFound)
	if err.ErrorCode != ErrorCodeNotFound {
		t.Errorf("ErrorCode = %v, want NotFound", err.ErrorCode)
	}
}

func TestErrorChainMessage(t *testing.T) {
	builder := NewErrorBuilder("Outer")
	inner := errors.New("底层错误")

	err := builder.New("外层消息", inner)
	if err.Error() == "" {
		t.Error("Error()不应为空")
	}
	if !errors.Is(err, inner) {
		t.Error("错误链应能追溯到底层错误")
	}
}
