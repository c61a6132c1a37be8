package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// AppError 接口层错误：业务码、已本地化的提示与原始错误
type AppError struct {
	Code    int
	Message string
	Cause   error
}

// NewAppError 创建接口层错误
func NewAppError(code int, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Render 输出错误响应
func (e *AppError) Render(c *gin.Context, data interface{}) {
	ErrorWithData(c, e.Code, e.Message, data)
}
