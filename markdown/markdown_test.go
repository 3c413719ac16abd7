package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToText_PlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "just plain text", ToText("just plain text"))
}

func TestToText_InlineFormatting(t *testing.T) {
	assert.Equal(t, "Hello world", ToText("**Hello** _world_"))
}

func TestToText_InlineCode(t *testing.T) {
	assert.Equal(t, "use go build here", ToText("use `go build` here"))
}

func TestToText_Link(t *testing.T) {
	assert.Equal(t, "see the docs", ToText("see [the docs](https://example.com)"))
}

func TestToText_Heading(t *testing.T) {
	got := ToText("# Title\n\nBody text")
	assert.Equal(t, "Title\n\nBody text", got)
}

func TestToText_FencedCodeBlock(t *testing.T) {
	got := ToText("```go\nfmt.Println(1)\n```")
	assert.Equal(t, "fmt.Println(1)", got)
}

func TestToText_List(t *testing.T) {
	got := ToText("- first\n- second")
	assert.Equal(t, "first\n\nsecond", got)
}

func TestToText_SoftLineBreak(t *testing.T) {
	got := ToText("line one\nline two")
	assert.Equal(t, "line one\nline two", got)
}

func TestToText_Strikethrough(t *testing.T) {
	// GFM strikethrough markers are stripped, content kept.
	assert.Equal(t, "kept", ToText("~~kept~~"))
}

func TestToText_Empty(t *testing.T) {
	assert.Equal(t, "", ToText(""))
}

func TestToText_DiffersFromMarkup(t *testing.T) {
	source := "**bold** and `code`"
	stripped := ToText(source)

	// Plain-text mode must produce a different string than the raw markup.
	assert.NotEqual(t, source, stripped)
	assert.Equal(t, "bold and code", stripped)
}
