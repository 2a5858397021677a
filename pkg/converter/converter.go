// Package converter is the facade the rest of the platform talks to: it
// detects which representation a piece of content is in and converts between
// the markup-language, render-markup and structured-snapshot forms via the
// document tree.
package converter

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/pressfolio/contentcore/pkg/doc"
	"github.com/pressfolio/contentcore/pkg/markdown"
	"github.com/pressfolio/contentcore/pkg/richtext"
)

// Format names a content representation.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// UnsupportedFormatError is returned when a conversion names a format this
// core does not speak.
type UnsupportedFormatError struct {
	Format Format
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported format %q: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("unsupported format %q", e.Format)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// Detect guesses the representation of content: a JSON document snapshot, a
// render-markup fragment, or markup-language text as the default.
func Detect(content string) Format {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") && gjson.Valid(trimmed) {
		switch gjson.Get(trimmed, "type").String() {
		case "doc", "document":
			return FormatJSON
		}
	}
	if strings.HasPrefix(trimmed, "<") {
		return FormatHTML
	}
	return FormatMarkdown
}

// Parse builds a document tree from content in the given format. Markdown
// input is repaired before parsing.
func Parse(content string, format Format) (*doc.Node, error) {
	switch format {
	case FormatMarkdown:
		return markdown.Parse(markdown.Repair(content)), nil
	case FormatHTML:
		return richtext.Parse(content), nil
	case FormatJSON:
		n, err := doc.ParseJSON([]byte(content))
		if err != nil {
			return nil, errors.Wrap(err, "parse document snapshot")
		}
		return n, nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// Render serializes a document tree into the given format. A nil root is a
// programmer error and the one case a serializer rejects.
func Render(node *doc.Node, format Format) (string, error) {
	if node == nil {
		return "", errors.New("nil document root")
	}
	switch format {
	case FormatMarkdown:
		return markdown.Serialize(node), nil
	case FormatHTML:
		return richtext.Serialize(node), nil
	case FormatJSON:
		data, err := doc.MarshalJSONSnapshot(node)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

// Convert parses content in the from format and renders it in the to format.
func Convert(content string, from, to Format) (string, error) {
	node, err := Parse(content, from)
	if err != nil {
		return "", err
	}
	return Render(node, to)
}

// ImportHTML converts foreign HTML (content that did not come out of the
// editor, such as a legacy article being migrated) straight to
// markup-language text. Editor-native markup goes through Parse/Render
// instead, which preserves task lists and storage references.
func ImportHTML(content string) (string, error) {
	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", errors.Wrap(err, "import foreign HTML")
	}
	return strings.TrimSpace(md), nil
}
