package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 状态冲突.
	StatusConflict = 409
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 访客相关错误码 (101xxx).
const (
	// ErrVisitorNotFound - 404: 访客请求不存在.
	ErrVisitorNotFound int = iota + 101000
	// ErrVisitNotPending - 409: 访客请求不在待审批状态.
	ErrVisitNotPending
	// ErrVisitNotApproved - 409: 访客请求未获批准.
	ErrVisitNotApproved
	// ErrVisitorAlreadyCheckedIn - 409: 访客已入场.
	ErrVisitorAlreadyCheckedIn
	// ErrQRCodeMismatch - 400: 二维码载荷与记录不符.
	ErrQRCodeMismatch
	// ErrQRWrongDate - 400: 二维码不在有效日期.
	ErrQRWrongDate
	// ErrQRAlreadyUsed - 409: 二维码已被使用.
	ErrQRAlreadyUsed
	// ErrQRNotCheckedIn - 409: 访客尚未入场.
	ErrQRNotCheckedIn
)

// 快递相关错误码 (102xxx).
const (
	// ErrPackageNotFound - 404: 快递不存在.
	ErrPackageNotFound int = iota + 102000
	// ErrPackageAlreadyDelivered - 409: 快递已送达.
	ErrPackageAlreadyDelivered
	// ErrPackageOTPNotSet - 400: 快递未配置OTP.
	ErrPackageOTPNotSet
	// ErrPackageOTPMismatch - 400: OTP不匹配.
	ErrPackageOTPMismatch
	// ErrPackageInvalidStatus - 400: 非法的快递状态值.
	ErrPackageInvalidStatus
)

// 投诉相关错误码 (103xxx).
const (
	// ErrComplaintNotFound - 404: 投诉不存在.
	ErrComplaintNotFound int = iota + 103000
	// ErrComplaintInvalidStatus - 400: 非法的投诉状态值.
	ErrComplaintInvalidStatus
)

// 用户相关错误码 (104xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 104000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
