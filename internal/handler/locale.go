package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ticsite/internal/locale"
)

const localeContextKey = "__request_locale"

// LocaleMiddleware resolves request language and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := a.requestLocale(c)
		c.Header("Content-Language", pref.HTMLLang)
		appendVaryHeader(c, "Accept-Language")
		c.Next()
	}
}

func (a *API) requestLocale(c *gin.Context) locale.Preference {
	if cached, exists := c.Get(localeContextKey); exists {
		if pref, ok := cached.(locale.Preference); ok {
			return pref
		}
	}
	pref := a.matcher.Preference(a.resolveLanguage(c))
	c.Set(localeContextKey, pref)
	return pref
}

// resolveLanguage 依次检查 lang 参数、Accept-Language 头，最后回退到默认语言。
func (a *API) resolveLanguage(c *gin.Context) string {
	if override := a.matcher.Normalize(c.Query("lang")); override != "" {
		return override
	}
	if fromHeader := a.matcher.FromAcceptLanguage(c.GetHeader("Accept-Language")); fromHeader != "" {
		return fromHeader
	}
	return a.matcher.Default()
}

func (a *API) requestLanguage(c *gin.Context) string {
	return a.requestLocale(c).Language
}

func appendVaryHeader(c *gin.Context, values ...string) {
	existing := c.Writer.Header().Values("Vary")
	seen := make(map[string]struct{})
	var merged []string
	for _, header := range existing {
		for _, part := range strings.Split(header, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			key := strings.ToLower(trimmed)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, trimmed)
		}
	}
	for _, value := range values {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, strings.TrimSpace(value))
	}
	if len(merged) > 0 {
		c.Writer.Header().Set("Vary", strings.Join(merged, ", "))
	}
}
