package i18n

import (
	"fmt"
	"strings"

	"github.com/microtask-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// 站点语言标识
const (
	LocaleZH = constants.LocaleZhCN
	LocaleEN = constants.LocaleEnUS
)

// ResolveLocale 解析请求语言：?lang= 优先，其次 Accept-Language，默认 zh-CN
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return LocaleZH
	}
	if lang := normalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	if lang := normalizeLocale(c.GetHeader("Accept-Language")); lang != "" {
		return lang
	}
	return LocaleZH
}

func normalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	// Accept-Language 只取第一个语言段
	if idx := strings.IndexAny(raw, ",;"); idx >= 0 {
		raw = raw[:idx]
	}
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(lower, "zh"):
		return LocaleZH
	case strings.HasPrefix(lower, "en"):
		return LocaleEN
	}
	return ""
}

// T 查找文案，未命中时按 zh-CN 回退，最终回退 key 本身
func T(locale, key string) string {
	if m, ok := messages[locale]; ok {
		if msg, ok := m[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[LocaleZH][key]; ok {
		return msg
	}
	return key
}

// Sprintf 带参数的文案格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
