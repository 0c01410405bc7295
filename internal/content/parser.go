// Package content parses and renders the rich text stored in blog posts,
// careers and page sections.
//
// The stored format is a small markdown dialect: headings, paragraphs,
// bullet and ordered lists, quotes, dividers and standalone image lines that
// may sit between paragraphs. Parse turns it into blocks the front end lays
// out itself; RenderHTML produces sanitized HTML for clients that cannot.
package content

import (
	"regexp"
	"strings"
)

const (
	BlockHeading   = "heading"
	BlockParagraph = "paragraph"
	BlockList      = "list"
	BlockQuote     = "quote"
	BlockImage     = "image"
	BlockDivider   = "divider"
)

// Block is one top-level element of parsed content.
type Block struct {
	Type    string   `json:"type"`
	Level   int      `json:"level,omitempty"`
	Text    string   `json:"text,omitempty"`
	Items   []string `json:"items,omitempty"`
	Ordered bool     `json:"ordered,omitempty"`
	URL     string   `json:"url,omitempty"`
	Alt     string   `json:"alt,omitempty"`
	Caption string   `json:"caption,omitempty"`
}

var (
	imageLinePattern   = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*(<[^>]+>|[^)\s]+)(?:\s+"([^"]*)")?\s*\)$`)
	orderedItemPattern = regexp.MustCompile(`^\d{1,3}[.)]\s+`)
)

// Parse splits text into blocks. It never fails: anything it does not
// recognise becomes paragraph text.
func Parse(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	blocks := make([]Block, 0, len(lines)/2+1)
	var current *Block

	flush := func() {
		if current == nil {
			return
		}
		if current.Type == BlockParagraph || current.Type == BlockQuote {
			current.Text = strings.TrimSpace(current.Text)
			if current.Text == "" {
				current = nil
				return
			}
		}
		blocks = append(blocks, *current)
		current = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(strings.ReplaceAll(raw, "\t", "    "))
		if line == "" {
			flush()
			continue
		}

		if level, heading, ok := parseHeading(line); ok {
			flush()
			blocks = append(blocks, Block{Type: BlockHeading, Level: level, Text: heading})
			continue
		}

		if isDivider(line) {
			flush()
			blocks = append(blocks, Block{Type: BlockDivider})
			continue
		}

		if img, ok := parseImage(line); ok {
			flush()
			blocks = append(blocks, img)
			continue
		}

		if item, ok := bulletItem(line); ok {
			if current == nil || current.Type != BlockList || current.Ordered {
				flush()
				current = &Block{Type: BlockList}
			}
			current.Items = append(current.Items, item)
			continue
		}

		if loc := orderedItemPattern.FindStringIndex(line); loc != nil {
			if current == nil || current.Type != BlockList || !current.Ordered {
				flush()
				current = &Block{Type: BlockList, Ordered: true}
			}
			current.Items = append(current.Items, strings.TrimSpace(line[loc[1]:]))
			continue
		}

		if strings.HasPrefix(line, ">") {
			quoted := strings.TrimSpace(strings.TrimPrefix(line, ">"))
			if current == nil || current.Type != BlockQuote {
				flush()
				current = &Block{Type: BlockQuote}
			}
			current.Text = joinLine(current.Text, quoted)
			continue
		}

		// A plain line right after a list item continues that item.
		if current != nil && current.Type == BlockList && len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t') {
			last := len(current.Items) - 1
			current.Items[last] = joinLine(current.Items[last], line)
			continue
		}

		if current == nil || current.Type != BlockParagraph {
			flush()
			current = &Block{Type: BlockParagraph}
		}
		current.Text = joinLine(current.Text, line)
	}
	flush()

	return blocks
}

func parseHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	text := strings.TrimSpace(strings.TrimRight(line[level:], "#"))
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

func isDivider(line string) bool {
	if len(line) < 3 {
		return false
	}
	compact := strings.ReplaceAll(line, " ", "")
	for _, marker := range []string{"-", "*", "_"} {
		if len(compact) >= 3 && strings.Trim(compact, marker) == "" {
			return true
		}
	}
	return false
}

func parseImage(line string) (Block, bool) {
	groups := imageLinePattern.FindStringSubmatch(line)
	if groups == nil {
		return Block{}, false
	}
	url := strings.TrimSuffix(strings.TrimPrefix(groups[2], "<"), ">")
	if strings.TrimSpace(url) == "" {
		return Block{}, false
	}
	return Block{
		Type:    BlockImage,
		URL:     strings.TrimSpace(url),
		Alt:     strings.TrimSpace(groups[1]),
		Caption: strings.TrimSpace(groups[3]),
	}, true
}

func bulletItem(line string) (string, bool) {
	if len(line) < 2 {
		return "", false
	}
	if (line[0] == '-' || line[0] == '*' || line[0] == '+') && line[1] == ' ' {
		item := strings.TrimSpace(line[2:])
		return item, item != ""
	}
	return "", false
}

func joinLine(existing, next string) string {
	if existing == "" {
		return next
	}
	return existing + " " + next
}

// Images returns the URLs of standalone images in order of appearance.
func Images(text string) []string {
	var urls []string
	for _, block := range Parse(text) {
		if block.Type == BlockImage {
			urls = append(urls, block.URL)
		}
	}
	return urls
}
