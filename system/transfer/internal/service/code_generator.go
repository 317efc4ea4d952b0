package service

import (
	"crypto/rand"
	"math/big"
)

// 提取码字符表，小写字母加数字，避免大小写混淆
const codeChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultCodeLength 默认提取码长度
const DefaultCodeLength = 8

// GenerateCode 生成指定长度的随机提取码
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(codeChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = codeChars[n.Int64()]
	}

	return string(result), nil
}
