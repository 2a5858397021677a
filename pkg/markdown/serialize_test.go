package markdown

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressfolio/contentcore/pkg/doc"
)

func TestSerializeBasicBlocks(t *testing.T) {
	tree := doc.NewDocument(
		doc.NewHeading(2, doc.NewText("Title")),
		doc.NewParagraph(doc.NewText("hello")),
		&doc.Node{Kind: doc.KindHorizontalRule},
	)
	assert.Equal(t, "## Title\n\nhello\n\n---", Serialize(tree))
}

func TestSerializeNilAndEmpty(t *testing.T) {
	assert.Equal(t, "", Serialize(nil))
	assert.Equal(t, "", Serialize(doc.NewDocument()))
}

func TestSerializeTaskList(t *testing.T) {
	tree := doc.NewDocument(&doc.Node{Kind: doc.KindTaskList, Content: []*doc.Node{
		doc.NewTaskItem(false, doc.NewParagraph(doc.NewText("Buy milk"))),
		doc.NewTaskItem(true, doc.NewParagraph(doc.NewText("Task completed"))),
	}})
	assert.Equal(t, "- [ ] Buy milk\n- [x] Task completed", Serialize(tree))
}

func TestSerializeOrderedListNumbers(t *testing.T) {
	tree := doc.NewDocument(&doc.Node{Kind: doc.KindOrderedList, Content: []*doc.Node{
		doc.NewListItem(doc.NewParagraph(doc.NewText("first"))),
		doc.NewListItem(doc.NewParagraph(doc.NewText("second"))),
	}})
	assert.Equal(t, "1. first\n2. second", Serialize(tree))
}

func TestSerializeListThenParagraphSeparated(t *testing.T) {
	tree := doc.NewDocument(
		&doc.Node{Kind: doc.KindTaskList, Content: []*doc.Node{
			doc.NewTaskItem(false, doc.NewParagraph(doc.NewText("Test"))),
		}},
		doc.NewParagraph(doc.NewText("Welcome")),
	)
	out := Serialize(tree)
	assert.Regexp(t, regexp.MustCompile(`- \[ \] Test\n+Welcome`), out)
	assert.NotContains(t, out, "TestWelcome")
}

func TestSerializeMarkOrderDeterministic(t *testing.T) {
	// Marks render outermost-first in canonical order regardless of the
	// order they were attached in.
	text := doc.NewText("x", doc.NewMark(doc.MarkItalic), doc.NewMark(doc.MarkBold))
	tree := doc.NewDocument(doc.NewParagraph(text))
	assert.Equal(t, "**_x_**", Serialize(tree))

	text = doc.NewText("x", doc.NewMark(doc.MarkCode), doc.NewMark(doc.MarkBold))
	tree = doc.NewDocument(doc.NewParagraph(text))
	assert.Equal(t, "**`x`**", Serialize(tree))
}

func TestSerializeLink(t *testing.T) {
	tree := doc.NewDocument(doc.NewParagraph(
		doc.NewText("home", doc.NewLinkMark("https://example.com", "")),
	))
	assert.Equal(t, "[home](https://example.com)", Serialize(tree))

	tree = doc.NewDocument(doc.NewParagraph(
		doc.NewText("home", doc.NewLinkMark("https://example.com", "Homepage")),
	))
	assert.Equal(t, `[home](https://example.com "Homepage")`, Serialize(tree))
}

func TestSerializeCodeBlock(t *testing.T) {
	tree := doc.NewDocument(doc.NewCodeBlock("go", "fmt.Println(\"hi\")"))
	assert.Equal(t, "```go\nfmt.Println(\"hi\")\n```", Serialize(tree))
}

func TestSerializeBlockquote(t *testing.T) {
	tree := doc.NewDocument(&doc.Node{Kind: doc.KindBlockquote, Content: []*doc.Node{
		doc.NewParagraph(doc.NewText("wisdom")),
	}})
	assert.Equal(t, "> wisdom", Serialize(tree))
}

func TestSerializeBlockquoteWithNestedBlocks(t *testing.T) {
	tree := doc.NewDocument(&doc.Node{Kind: doc.KindBlockquote, Content: []*doc.Node{
		doc.NewParagraph(doc.NewText("heads up")),
		{Kind: doc.KindBulletList, Content: []*doc.Node{
			doc.NewListItem(doc.NewParagraph(doc.NewText("one"))),
			doc.NewListItem(doc.NewParagraph(doc.NewText("two"))),
		}},
	}})
	assert.Equal(t, "> heads up\n>\n> - one\n> - two", Serialize(tree))
}

func TestSerializeImage(t *testing.T) {
	tree := doc.NewDocument(doc.NewParagraph(doc.NewImage("media:img42", "cover", "")))
	assert.Equal(t, "![cover](media:img42)", Serialize(tree))
}

func TestSerializeUnknownKindSkipped(t *testing.T) {
	tree := doc.NewDocument(
		&doc.Node{Kind: doc.NodeKind("video"), Content: []*doc.Node{}},
		doc.NewParagraph(doc.NewText("still here")),
	)
	require.NotPanics(t, func() { Serialize(tree) })
	assert.Equal(t, "still here", Serialize(tree))
}

func TestSerializeNestedList(t *testing.T) {
	tree := doc.NewDocument(&doc.Node{Kind: doc.KindBulletList, Content: []*doc.Node{
		{Kind: doc.KindListItem, Content: []*doc.Node{
			doc.NewParagraph(doc.NewText("parent")),
			{Kind: doc.KindBulletList, Content: []*doc.Node{
				doc.NewListItem(doc.NewParagraph(doc.NewText("child"))),
			}},
		}},
	}})
	assert.Equal(t, "- parent\n  - child", Serialize(tree))
}
