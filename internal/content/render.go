package content

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = buildSanitizer()
)

func buildSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// RenderHTML converts stored content to sanitized HTML.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

var plainReplacer = strings.NewReplacer(
	"#", " ",
	"*", " ",
	"`", " ",
	"_", " ",
	">", " ",
	"[", " ",
	"]", " ",
	"(", " ",
	")", " ",
	"!", " ",
)

// PlainText strips markup and images, collapsing whitespace. A positive limit
// truncates the result to that many runes followed by an ellipsis.
func PlainText(text string, limit int) string {
	var parts []string
	for _, block := range Parse(text) {
		switch block.Type {
		case BlockImage, BlockDivider:
			continue
		case BlockList:
			parts = append(parts, block.Items...)
		default:
			parts = append(parts, block.Text)
		}
	}

	plain := plainReplacer.Replace(strings.Join(parts, " "))
	plain = strings.Join(strings.Fields(plain), " ")
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}

	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

const wordsPerMinute = 200

// ReadingTime estimates minutes to read text, at least one when non-empty.
func ReadingTime(text string) int {
	words := len(strings.Fields(PlainText(text, 0)))
	if words == 0 {
		return 0
	}
	minutes := words / wordsPerMinute
	if words%wordsPerMinute != 0 {
		minutes++
	}
	return minutes
}
