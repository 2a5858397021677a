package converter

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressfolio/contentcore/pkg/doc"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Format
	}{
		{"json snapshot", `{"type":"doc","content":[]}`, FormatJSON},
		{"json snapshot canonical", `{"type":"document","content":[]}`, FormatJSON},
		{"render markup", `<p>hello</p>`, FormatHTML},
		{"markup text", "# Heading\nbody", FormatMarkdown},
		{"plain text", "just words", FormatMarkdown},
		{"json that is not a snapshot", `{"foo":1}`, FormatMarkdown},
		{"empty", "", FormatMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.content))
		})
	}
}

func TestConvertMarkdownToHTML(t *testing.T) {
	out, err := Convert("# Heading\n**bold** text", FormatMarkdown, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Heading</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestConvertHTMLToMarkdown(t *testing.T) {
	out, err := Convert(`<ul data-type="taskList"><li data-type="taskItem" data-checked="false"><label><input type="checkbox"><span></span></label><div><p>Buy milk</p></div></li></ul>`,
		FormatHTML, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] Buy milk", out)
}

func TestConvertRepairsMarkdownInput(t *testing.T) {
	out, err := Convert("broken **bold", FormatMarkdown, FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestConvertJSONSnapshot(t *testing.T) {
	snapshot := `{"type":"doc","content":[{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"Title"}]}]}`
	out, err := Convert(snapshot, FormatJSON, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "## Title", out)
}

func TestConvertUnsupportedFormat(t *testing.T) {
	_, err := Convert("x", FormatMarkdown, Format("docx"))
	require.Error(t, err)

	var ufe *UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, Format("docx"), ufe.Format)

	_, err = Parse("x", Format("rtf"))
	assert.Error(t, err)
}

func TestRenderNilRoot(t *testing.T) {
	_, err := Render(nil, FormatMarkdown)
	assert.Error(t, err)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse(`{"type":`, FormatJSON)
	assert.Error(t, err)
}

func TestParseProducesWellFormedTrees(t *testing.T) {
	inputs := map[Format]string{
		FormatMarkdown: "# T\n\n- [x] done\n\ntext",
		FormatHTML:     `<h1>T</h1><ul><li><p>x</p></li></ul>`,
		FormatJSON:     `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x"}]}]}`,
	}
	for format, content := range inputs {
		tree, err := Parse(content, format)
		require.NoError(t, err, "format %s", format)
		assert.True(t, doc.IsWellFormed(tree), "format %s", format)
	}
}

func TestImportHTML(t *testing.T) {
	out, err := ImportHTML(`<article><h1>Legacy</h1><p>Imported <b>content</b>.</p></article>`)
	require.NoError(t, err)
	assert.Contains(t, out, "# Legacy")
	assert.Contains(t, out, "**content**")
}
