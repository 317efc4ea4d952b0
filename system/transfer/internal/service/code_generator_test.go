package service

import (
	"strings"
	"testing"
)

func TestGenerateCode_Length(t *testing.T) {
	code, err := GenerateCode(8)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if len(code) != 8 {
		t.Errorf("GenerateCode() len = %d, want 8", len(code))
	}
}

func TestGenerateCode_DefaultLength(t *testing.T) {
	code, err := GenerateCode(0)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	if len(code) != DefaultCodeLength {
		t.Errorf("GenerateCode() len = %d, want %d", len(code), DefaultCodeLength)
	}
}

func TestGenerateCode_Charset(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(8)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		for _, ch := range code {
			if !strings.ContainsRune(codeChars, ch) {
				t.Fatalf("GenerateCode() 包含非法字符 %q in %q", ch, code)
			}
		}
	}
}

func TestGenerateCode_Unique(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode(8)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if seen[code] {
			t.Fatalf("GenerateCode() 出现重复: %q", code)
		}
		seen[code] = true
	}
}
