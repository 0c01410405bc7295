package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrLinkLost 表示译文丢失或重复了受保护的链接占位符。
var ErrLinkLost = errors.New("translated text lost a protected link")

// 匹配 Markdown 图片与链接的目标地址部分，标题保留在正文中参与翻译
var linkTargetPattern = regexp.MustCompile(`(!?\[[^\]]*\]\(\s*)(<[^>]+>|[^)\s]+)`)

// ProtectedText is markdown whose link and image targets were swapped for
// opaque tokens before it is sent to a machine translator.
type ProtectedText struct {
	Text    string
	targets []string
}

// ProtectLinks 将图片和链接地址替换为 urn:x-ref:N，避免翻译接口改写 URL。
func ProtectLinks(input string) ProtectedText {
	var targets []string
	text := linkTargetPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := linkTargetPattern.FindStringSubmatch(match)
		targets = append(targets, groups[2])
		return groups[1] + linkToken(len(targets))
	})
	return ProtectedText{Text: text, targets: targets}
}

func linkToken(n int) string {
	return fmt.Sprintf("urn:x-ref:%d", n)
}

// Count returns how many targets were protected.
func (p ProtectedText) Count() int {
	return len(p.targets)
}

// Restore puts the original targets back into translated. Every token must
// come back exactly once, otherwise the translation is rejected.
func (p ProtectedText) Restore(translated string) (string, error) {
	out := translated
	// 倒序替换，urn:x-ref:1 不会误配 urn:x-ref:10
	for n := p.Count(); n >= 1; n-- {
		token := linkToken(n)
		if got := strings.Count(out, token); got != 1 {
			return "", fmt.Errorf("%w: %s appears %d times", ErrLinkLost, token, got)
		}
		out = strings.Replace(out, token, p.targets[n-1], 1)
	}
	return out, nil
}
