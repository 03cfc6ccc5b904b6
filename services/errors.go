package services

import (
	"errors"

	"securacore-http-service/internal/error/code"
)

// ServiceError 携带错误码的业务错误，控制器据此映射HTTP响应。
// 不同的失败原因（如OTP不匹配与快递已送达）必须保持可区分。
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError 根据错误码创建业务错误
func NewServiceError(errorCode int) *ServiceError {
	return &ServiceError{
		Code:    errorCode,
		Message: code.GetMessage(errorCode),
	}
}

// ErrorCode 提取错误对应的错误码；非业务错误归为未知错误
func ErrorCode(err error) int {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return code.ErrUnknown
}
