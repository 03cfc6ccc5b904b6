package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// RandomDigits 生成指定位数的随机数字字符串，用于快递OTP
func RandomDigits(length int) string {
	if length <= 0 {
		length = 4
	}

	digits := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic("generate random digit failed")
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}

// GenerateQRToken 生成访客二维码的不透明令牌
func GenerateQRToken() string {
	return "QR-" + uuid.NewString()
}
