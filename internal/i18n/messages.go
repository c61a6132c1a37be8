package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":            "Invalid request",
		"error.validation_failed":      "Validation failed",
		"error.unauthorized":           "Authentication required",
		"error.token_invalid":          "Session is invalid or expired",
		"error.forbidden":              "You are not allowed to perform this action",
		"error.not_found":              "Resource not found",
		"error.shipment_not_found":     "Shipment not found",
		"error.tracking_not_found":     "No shipment matches this tracking number",
		"error.user_not_found":         "User not found",
		"error.vehicle_not_found":      "Vehicle not found",
		"error.personnel_not_found":    "Personnel record not found",
		"error.conflict":               "Resource already exists",
		"error.username_taken":         "Username is already taken",
		"error.email_taken":            "Email is already registered",
		"error.tracking_number_exists": "Tracking number already exists",
		"error.plate_number_exists":    "Plate number already exists",
		"error.personnel_exists":       "This user already has a personnel record",
		"error.invalid_transition":     "Status change is not allowed from the current status",
		"error.invalid_credentials":    "Invalid username or password",
		"error.weak_password":          "Password does not meet the password policy",
		"error.captcha_required":       "Captcha is required",
		"error.captcha_invalid":        "Captcha is incorrect or expired",
		"error.id_invalid":             "Invalid id",
		"error.too_many_requests":      "Too many requests, retry in %d seconds",
		"error.internal":               "Internal server error",
	},
	LocaleZH: {
		"error.bad_request":            "请求参数错误",
		"error.validation_failed":      "参数校验失败",
		"error.unauthorized":           "请先登录",
		"error.token_invalid":          "登录已失效，请重新登录",
		"error.forbidden":              "无权执行该操作",
		"error.not_found":              "资源不存在",
		"error.shipment_not_found":     "运单不存在",
		"error.tracking_not_found":     "未找到该运单号对应的运单",
		"error.user_not_found":         "用户不存在",
		"error.vehicle_not_found":      "车辆不存在",
		"error.personnel_not_found":    "人员记录不存在",
		"error.conflict":               "资源已存在",
		"error.username_taken":         "用户名已被占用",
		"error.email_taken":            "邮箱已被注册",
		"error.tracking_number_exists": "运单号已存在",
		"error.plate_number_exists":    "车牌号已存在",
		"error.personnel_exists":       "该用户已存在人员记录",
		"error.invalid_transition":     "当前状态不允许变更为目标状态",
		"error.invalid_credentials":    "用户名或密码错误",
		"error.weak_password":          "密码不符合安全策略",
		"error.captcha_required":       "请输入验证码",
		"error.captcha_invalid":        "验证码错误或已过期",
		"error.id_invalid":             "无效的 ID",
		"error.too_many_requests":      "请求过于频繁，请在 %d 秒后重试",
		"error.internal":               "服务器内部错误",
	},
}
