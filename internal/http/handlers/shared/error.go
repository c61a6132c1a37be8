package shared

import (
	"errors"

	"github.com/logiroute/internal/http/response"
	"github.com/logiroute/internal/i18n"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.WithRequestID(id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	RespondErrorWithMsg(c, code, msg, err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.NewAppError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error", "code", code, "error", appErr)
	}
	appErr.Render(c, nil)
}

// MappedHandlerError 定义业务错误到接口错误响应的映射关系。
type MappedHandlerError struct {
	Target error
	Code   int
	Key    string
}

// 越具体的错误越靠前，通用分类兜底
var serviceErrorRules = []MappedHandlerError{
	{Target: service.ErrUnauthenticated, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.token_invalid"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrShipmentNotFound, Code: response.CodeNotFound, Key: "error.shipment_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrVehicleNotFound, Code: response.CodeNotFound, Key: "error.vehicle_not_found"},
	{Target: service.ErrPersonnelNotFound, Code: response.CodeNotFound, Key: "error.personnel_not_found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrUsernameTaken, Code: response.CodeConflict, Key: "error.username_taken"},
	{Target: service.ErrEmailTaken, Code: response.CodeConflict, Key: "error.email_taken"},
	{Target: service.ErrTrackingNumberExists, Code: response.CodeConflict, Key: "error.tracking_number_exists"},
	{Target: service.ErrPlateNumberExists, Code: response.CodeConflict, Key: "error.plate_number_exists"},
	{Target: service.ErrPersonnelExists, Code: response.CodeConflict, Key: "error.personnel_exists"},
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.conflict"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "error.invalid_transition"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.weak_password"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
}

// RespondServiceError 按映射表返回业务错误，校验错误附带字段列表。
func RespondServiceError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, serviceErrorRules, response.CodeInternal, "error.internal")
}

// RespondWithMappedError 按指定映射表返回错误，未命中时按兜底码记录并返回。
func RespondWithMappedError(c *gin.Context, err error, rules []MappedHandlerError, fallbackCode int, fallbackKey string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		msg := i18n.T(i18n.ResolveLocale(c), "error.validation_failed")
		response.NewAppError(response.CodeBadRequest, msg, err).Render(c, gin.H{"fields": verr.Fields})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}
