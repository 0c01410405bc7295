package locale

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
	LanguageFrench  = "fr"
)

// Preference describes the resolved language of a request.
type Preference struct {
	Language  string
	HTMLLang  string
	Direction string
}

// Matcher resolves client language hints against the site's supported languages.
type Matcher struct {
	fallback  string
	supported []string
	tags      []language.Tag
	matcher   language.Matcher
}

// NewMatcher builds a matcher; fallback is used when nothing matches and is
// always treated as supported.
func NewMatcher(fallback string, supported []string) *Matcher {
	fallback = baseOf(fallback)
	if fallback == "" {
		fallback = LanguageEnglish
	}

	codes := []string{fallback}
	for _, raw := range supported {
		code := baseOf(raw)
		if code == "" || containsCode(codes, code) {
			continue
		}
		codes = append(codes, code)
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tags = append(tags, language.Make(code))
	}

	return &Matcher{
		fallback:  fallback,
		supported: codes,
		tags:      tags,
		matcher:   language.NewMatcher(tags),
	}
}

// Default returns the fallback language.
func (m *Matcher) Default() string {
	return m.fallback
}

// Supported returns the supported base languages, fallback first.
func (m *Matcher) Supported() []string {
	out := make([]string, len(m.supported))
	copy(out, m.supported)
	return out
}

// Normalize maps an explicit language value ("ar-SA", "FR", "en_US") to a
// supported base language, or "" when it is not supported.
func (m *Matcher) Normalize(raw string) string {
	code := baseOf(raw)
	if code == "" || !containsCode(m.supported, code) {
		return ""
	}
	return code
}

// FromAcceptLanguage picks the best supported language for an
// Accept-Language header, or "" when the header names none of them.
func (m *Matcher) FromAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return ""
	}
	_, index, confidence := m.matcher.Match(desired...)
	if confidence == language.No {
		return ""
	}
	return m.supported[index]
}

// Preference returns display attributes for a language code.
func (m *Matcher) Preference(code string) Preference {
	normalized := m.Normalize(code)
	if normalized == "" {
		normalized = m.fallback
	}
	return Preference{
		Language:  normalized,
		HTMLLang:  language.Make(normalized).String(),
		Direction: Direction(normalized),
	}
}

// Direction returns the text direction for a language.
func Direction(code string) string {
	switch baseOf(code) {
	case "ar", "he", "fa", "ur":
		return "rtl"
	default:
		return "ltr"
	}
}

func baseOf(raw string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}

func containsCode(codes []string, target string) bool {
	for _, code := range codes {
		if code == target {
			return true
		}
	}
	return false
}
