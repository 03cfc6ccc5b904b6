package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",

	// 访客相关错误码
	ErrVisitorNotFound:         "Visitor Not Found",
	ErrVisitNotPending:         "Visit request is not pending",
	ErrVisitNotApproved:        "Visitor not approved",
	ErrVisitorAlreadyCheckedIn: "Visitor already checked in",
	ErrQRCodeMismatch:          "QR payload does not match the stored record",
	ErrQRWrongDate:             "QR pass is not valid for today",
	ErrQRAlreadyUsed:           "QR pass has already been used",
	ErrQRNotCheckedIn:          "Visitor has not checked in",

	// 快递相关错误码
	ErrPackageNotFound:         "Package Not Found",
	ErrPackageAlreadyDelivered: "Package has already been delivered",
	ErrPackageOTPNotSet:        "Package does not have an OTP configured",
	ErrPackageOTPMismatch:      "Invalid OTP. Please check and try again.",
	ErrPackageInvalidStatus:    "Status can only be 'Pending' or 'Delivered'",

	// 投诉相关错误码
	ErrComplaintNotFound:      "Complaint Not Found",
	ErrComplaintInvalidStatus: "Invalid complaint status",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "用户密码错误",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 访客相关错误码
	ErrVisitorNotFound:         StatusNotFound,
	ErrVisitNotPending:         StatusConflict,
	ErrVisitNotApproved:        StatusConflict,
	ErrVisitorAlreadyCheckedIn: StatusConflict,
	ErrQRCodeMismatch:          StatusBadRequest,
	ErrQRWrongDate:             StatusBadRequest,
	ErrQRAlreadyUsed:           StatusConflict,
	ErrQRNotCheckedIn:          StatusConflict,

	// 快递相关错误码
	ErrPackageNotFound:         StatusNotFound,
	ErrPackageAlreadyDelivered: StatusConflict,
	ErrPackageOTPNotSet:        StatusBadRequest,
	ErrPackageOTPMismatch:      StatusBadRequest,
	ErrPackageInvalidStatus:    StatusBadRequest,

	// 投诉相关错误码
	ErrComplaintNotFound:      StatusNotFound,
	ErrComplaintInvalidStatus: StatusBadRequest,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
