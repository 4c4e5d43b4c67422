package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToBlocks(t *testing.T) {
	summary := `## Team Meeting Summary

## Action Items
- [ ] **Update the forecast** - Owner: Alex | Due: Friday
- [x] Send the deck
- Regular bullet point

Some closing remarks.
Another line of remarks.`

	blocks := MarkdownToBlocks(summary)
	require.Len(t, blocks, 6)

	assert.Equal(t, "heading_2", blocks[0].Type)
	assert.Equal(t, "Team Meeting Summary", blocks[0].Heading2.RichText[0].Text.Content)

	assert.Equal(t, "heading_2", blocks[1].Type)

	todo := blocks[2]
	assert.Equal(t, "to_do", todo.Type)
	assert.False(t, todo.ToDo.Checked)
	// Bold label parsed into a styled run.
	require.True(t, len(todo.ToDo.RichText) >= 2)
	assert.Equal(t, "Update the forecast", todo.ToDo.RichText[0].Text.Content)
	require.NotNil(t, todo.ToDo.RichText[0].Annotations)
	assert.True(t, todo.ToDo.RichText[0].Annotations.Bold)

	done := blocks[3]
	assert.Equal(t, "to_do", done.Type)
	assert.True(t, done.ToDo.Checked)

	assert.Equal(t, "bulleted_list_item", blocks[4].Type)
	assert.Equal(t, "Regular bullet point", blocks[4].Bulleted.RichText[0].Text.Content)

	para := blocks[5]
	assert.Equal(t, "paragraph", para.Type)
	assert.Equal(t, "Some closing remarks.\nAnother line of remarks.", para.Paragraph.RichText[0].Text.Content)
}

func TestMarkdownToBlocks_Empty(t *testing.T) {
	assert.Empty(t, MarkdownToBlocks(""))
	assert.Empty(t, MarkdownToBlocks("\n\n\n"))
}

func TestParseRichText(t *testing.T) {
	runs := ParseRichText("before **bold** after")
	require.Len(t, runs, 3)
	assert.Equal(t, "before ", runs[0].Text.Content)
	assert.Nil(t, runs[0].Annotations)
	assert.Equal(t, "bold", runs[1].Text.Content)
	assert.True(t, runs[1].Annotations.Bold)
	assert.Equal(t, " after", runs[2].Text.Content)
}

func TestParseRichText_UnpairedMarker(t *testing.T) {
	runs := ParseRichText("odd ** marker")
	require.Len(t, runs, 1)
	assert.Equal(t, "odd ** marker", runs[0].Text.Content)
	assert.Nil(t, runs[0].Annotations)
}

func TestParseRichText_MultipleBoldRuns(t *testing.T) {
	runs := ParseRichText("**Owner:** Alex | **Due:** Friday")
	require.Len(t, runs, 4)
	assert.True(t, runs[0].Annotations.Bold)
	assert.Equal(t, "Owner:", runs[0].Text.Content)
	assert.Equal(t, " Alex | ", runs[1].Text.Content)
	assert.True(t, runs[2].Annotations.Bold)
	assert.Equal(t, " Friday", runs[3].Text.Content)
}
