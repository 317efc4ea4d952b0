package utils

import (
	"strings"
	"testing"
)

type sampleForm struct {
	Name string `json:"name" validate:"required" comment:"名称"`
	Mode string `json:"mode" validate:"oneof=local oss" comment:"存储模式"`
}

func TestValidate_OK(t *testing.T) {
	msg, err := Validate(&sampleForm{Name: "a", Mode: "local"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if msg != "" {
		t.Errorf("Validate() msg = %q, want empty", msg)
	}
}

func TestValidate_ChineseMessage(t *testing.T) {
	msg, err := Validate(&sampleForm{Mode: "ftp"})
	if err == nil {
		t.Fatal("Validate() 应返回错误")
	}
	if !strings.Contains(msg, "名称") {
		t.Errorf("错误信息应包含中文字段名，got %q", msg)
	}
	if !strings.Contains(msg, "存储模式") {
		t.Errorf("错误信息应包含中文字段名，got %q", msg)
	}
}

func TestValidationError_First(t *testing.T) {
	_, err := Validate(&sampleForm{Mode: "ftp"})
	if err == nil {
		t.Fatal("Validate() 应返回错误")
	}

	first := ValidationError(err)
	if first == "" {
		t.Error("ValidationError() 不应为空")
	}
}
