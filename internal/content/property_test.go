package content

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var fragments = []string{
	"# ", "## ", "- ", "* ", "1. ", "> ", "---", "![", "](", ")", "\"", "<", ">",
	"\n", "\r\n", "\t", " ", "word", "Ünïcödé", "http://x.test/a.png", "**", "#",
}

func raggedText() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(fragments)-1)).Map(func(idx []int) string {
		var b strings.Builder
		for _, i := range idx {
			b.WriteString(fragments[i])
		}
		return b.String()
	})
}

func TestParseProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("parse never yields empty text blocks", prop.ForAll(
		func(input string) bool {
			for _, block := range Parse(input) {
				switch block.Type {
				case BlockParagraph, BlockQuote, BlockHeading:
					if strings.TrimSpace(block.Text) == "" {
						return false
					}
				case BlockList:
					if len(block.Items) == 0 {
						return false
					}
				case BlockImage:
					if block.URL == "" {
						return false
					}
				}
			}
			return true
		},
		raggedText(),
	))

	properties.Property("plain text has no newlines", prop.ForAll(
		func(input string) bool {
			return !strings.ContainsAny(PlainText(input, 40), "\r\n")
		},
		raggedText(),
	))

	properties.Property("slugs are lowercase ascii with single hyphens", prop.ForAll(
		func(input string) bool {
			slug := Slugify(input)
			if strings.Contains(slug, "--") || strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
				return false
			}
			for _, r := range slug {
				if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
