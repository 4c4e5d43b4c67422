// Package notion is the publishing collaborator: it converts summary
// markdown into Notion content blocks and creates pages and tasks through
// the Notion API.
package notion

import (
	"strings"
)

// RichText is one styled text run inside a block.
type RichText struct {
	Type        string       `json:"type"`
	Text        TextContent  `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// TextContent is the literal content of a rich text run.
type TextContent struct {
	Content string `json:"content"`
}

// Annotations carries text styling. Only bold is produced by the markdown
// conventions the summaries use.
type Annotations struct {
	Bold bool `json:"bold,omitempty"`
}

// BlockText is the rich text payload shared by paragraph, heading, and
// bullet blocks.
type BlockText struct {
	RichText []RichText `json:"rich_text"`
}

// TodoText is the payload of a to_do block.
type TodoText struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// Block is one Notion content block. Exactly one of the typed payloads is
// set, matching the Type field.
type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Heading2  *BlockText `json:"heading_2,omitempty"`
	Paragraph *BlockText `json:"paragraph,omitempty"`
	Bulleted  *BlockText `json:"bulleted_list_item,omitempty"`
	ToDo      *TodoText  `json:"to_do,omitempty"`
	Divider   *struct{}  `json:"divider,omitempty"`
}

func newBlock(blockType string) Block {
	return Block{Object: "block", Type: blockType}
}

// ParseRichText splits a line on **bold** markers into styled runs.
// An unpaired ** is kept literally.
func ParseRichText(line string) []RichText {
	var runs []RichText
	for len(line) > 0 {
		open := strings.Index(line, "**")
		if open < 0 {
			runs = append(runs, plainText(line))
			break
		}
		end := strings.Index(line[open+2:], "**")
		if end < 0 {
			runs = append(runs, plainText(line))
			break
		}
		if open > 0 {
			runs = append(runs, plainText(line[:open]))
		}
		bold := line[open+2 : open+2+end]
		if bold != "" {
			runs = append(runs, RichText{
				Type:        "text",
				Text:        TextContent{Content: bold},
				Annotations: &Annotations{Bold: true},
			})
		}
		line = line[open+2+end+2:]
	}
	if len(runs) == 0 {
		runs = append(runs, plainText(""))
	}
	return runs
}

func plainText(s string) RichText {
	return RichText{Type: "text", Text: TextContent{Content: s}}
}

// MarkdownToBlocks converts summary markdown into Notion blocks using the
// fixed conventions the prompts enforce: "## " headings, "- [ ] " action
// items, "- " bullets, and **bold** labels. Consecutive plain lines collapse
// into a single paragraph.
func MarkdownToBlocks(markdown string) []Block {
	var blocks []Block
	var paragraph []string

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		b := newBlock("paragraph")
		b.Paragraph = &BlockText{RichText: ParseRichText(strings.Join(paragraph, "\n"))}
		blocks = append(blocks, b)
		paragraph = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			b := newBlock("heading_2")
			b.Heading2 = &BlockText{RichText: ParseRichText(line[3:])}
			blocks = append(blocks, b)

		case strings.HasPrefix(line, "- [ ] "), strings.HasPrefix(line, "- [x] "):
			flush()
			b := newBlock("to_do")
			b.ToDo = &TodoText{
				RichText: ParseRichText(line[6:]),
				Checked:  strings.HasPrefix(line, "- [x] "),
			}
			blocks = append(blocks, b)

		case strings.HasPrefix(line, "- "):
			flush()
			b := newBlock("bulleted_list_item")
			b.Bulleted = &BlockText{RichText: ParseRichText(line[2:])}
			blocks = append(blocks, b)

		default:
			paragraph = append(paragraph, line)
		}
	}
	flush()

	return blocks
}
