package service

import (
	"unicode"

	"github.com/logiroute/internal/config"
)

// 密码策略违规原因，作为 password 字段的校验原因返回
const (
	ReasonPasswordMinLength      = "password_min_length"
	ReasonPasswordRequireUpper   = "password_require_upper"
	ReasonPasswordRequireLower   = "password_require_lower"
	ReasonPasswordRequireNumber  = "password_require_number"
	ReasonPasswordRequireSpecial = "password_require_special"
)

// WeakPasswordError 密码不满足策略
type WeakPasswordError struct {
	Reason string
}

func (e *WeakPasswordError) Error() string {
	return ErrWeakPassword.Error() + ": " + e.Reason
}

func (e *WeakPasswordError) Unwrap() error {
	return ErrWeakPassword
}

type passwordClasses struct {
	upper, lower, number, special bool
}

func classifyPassword(password string) passwordClasses {
	var classes passwordClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			classes.upper = true
		case unicode.IsLower(r):
			classes.lower = true
		case unicode.IsDigit(r):
			classes.number = true
		default:
			classes.special = true
		}
	}
	return classes
}

// validatePassword 按配置校验密码，返回首个违反的规则
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return &WeakPasswordError{Reason: ReasonPasswordMinLength}
	}
	classes := classifyPassword(password)
	rules := []struct {
		required bool
		present  bool
		reason   string
	}{
		{policy.RequireUpper, classes.upper, ReasonPasswordRequireUpper},
		{policy.RequireLower, classes.lower, ReasonPasswordRequireLower},
		{policy.RequireNumber, classes.number, ReasonPasswordRequireNumber},
		{policy.RequireSpecial, classes.special, ReasonPasswordRequireSpecial},
	}
	for _, rule := range rules {
		if rule.required && !rule.present {
			return &WeakPasswordError{Reason: rule.reason}
		}
	}
	return nil
}
