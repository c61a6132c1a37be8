package service

import (
	"errors"
	"testing"

	"github.com/logiroute/internal/config"
)

func TestValidatePassword(t *testing.T) {
	strict := config.PasswordPolicyConfig{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}
	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		reason   string
	}{
		{"empty policy accepts anything", config.PasswordPolicyConfig{}, "a", ""},
		{"too short", strict, "Ab1!", ReasonPasswordMinLength},
		{"length counts runes", config.PasswordPolicyConfig{MinLength: 4}, "密码密码", ""},
		{"missing upper", strict, "abcdef1!", ReasonPasswordRequireUpper},
		{"missing lower", strict, "ABCDEF1!", ReasonPasswordRequireLower},
		{"missing number", strict, "Abcdefg!", ReasonPasswordRequireNumber},
		{"missing special", strict, "Abcdefg1", ReasonPasswordRequireSpecial},
		{"strong", strict, "Abcdef1!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.policy, tc.password)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var weak *WeakPasswordError
			if !errors.As(err, &weak) || weak.Reason != tc.reason {
				t.Fatalf("expected reason %s, got %v", tc.reason, err)
			}
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword in chain")
			}
		})
	}
}
