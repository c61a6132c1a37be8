package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/logiroute/internal/authz"
)

var (
	// ErrValidation 参数校验失败（具体字段见 ValidationError）
	ErrValidation = errors.New("validation failed")

	ErrNotFound          = errors.New("not found")
	ErrShipmentNotFound  = fmt.Errorf("shipment %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrVehicleNotFound   = fmt.Errorf("vehicle %w", ErrNotFound)
	ErrPersonnelNotFound = fmt.Errorf("personnel %w", ErrNotFound)

	ErrConflict             = errors.New("conflict")
	ErrUsernameTaken        = fmt.Errorf("username taken: %w", ErrConflict)
	ErrEmailTaken           = fmt.Errorf("email taken: %w", ErrConflict)
	ErrTrackingNumberExists = fmt.Errorf("tracking number exists: %w", ErrConflict)
	ErrPlateNumberExists    = fmt.Errorf("plate number exists: %w", ErrConflict)
	ErrPersonnelExists      = fmt.Errorf("personnel record exists: %w", ErrConflict)

	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidToken       = errors.New("invalid token")

	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")

	// 授权错误沿用 authz 定义，保证 errors.Is 在各层一致
	ErrForbidden       = authz.ErrForbidden
	ErrUnauthenticated = authz.ErrUnauthenticated
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError 字段级校验错误集合
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+" "+field.Reason)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Is 支持 errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add 追加字段错误
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Err 无字段错误时返回 nil
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// 字段错误原因
const (
	ReasonRequired  = "required"
	ReasonInvalid   = "invalid"
	ReasonNegative  = "must_not_be_negative"
	ReasonImmutable = "immutable"
	ReasonTooShort  = "too_short"
	ReasonTooLong   = "too_long"
)

func newFieldError(field, reason string) error {
	v := &ValidationError{}
	v.Add(field, reason)
	return v
}
