package i18n

import (
	"fmt"
	"strings"

	"github.com/logiroute/internal/constants"

	"github.com/gin-gonic/gin"
)

// 语言标识
const (
	LocaleEN = constants.LocaleEnUS
	LocaleZH = constants.LocaleZhCN
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

// T 获取指定语言的文案，缺失时回退到默认语言，仍缺失返回 key 本身
func T(locale, key string) string {
	if msgs, ok := catalog[NormalizeLocale(locale)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 获取格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// ResolveLocale 从请求中解析语言：lang 查询参数优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if locale := NormalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标识，不支持的语言回退默认语言
func NormalizeLocale(locale string) string {
	lower := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(lower, "zh"):
		return LocaleZH
	case strings.HasPrefix(lower, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}
