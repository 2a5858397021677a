package richtext

import (
	"fmt"
	stdhtml "html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pressfolio/contentcore/pkg/doc"
	"github.com/pressfolio/contentcore/pkg/storageref"
)

// Canonical mark nesting for emitted markup, outermost first. Matches the
// markup-language serializer so both renderings stay deterministic.
var markOrder = map[doc.MarkKind]int{
	doc.MarkBold:          0,
	doc.MarkItalic:        1,
	doc.MarkStrikethrough: 2,
	doc.MarkLink:          3,
	doc.MarkCode:          4,
}

var markTags = map[doc.MarkKind]string{
	doc.MarkBold:          "strong",
	doc.MarkItalic:        "em",
	doc.MarkStrikethrough: "s",
	doc.MarkCode:          "code",
}

// policy is the allow-list boundary: any tag or attribute outside this
// vocabulary is dropped from the output, not escaped.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "code", "hr", "br",
		"strong", "em", "s", "del", "label", "span", "div")
	p.AllowAttrs("data-type").OnElements("ul", "li")
	p.AllowAttrs("data-checked").OnElements("li")
	p.AllowAttrs("class").OnElements("code")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto", storageref.Scheme)
	p.AllowRelativeURLs(true)
	return p
}

// Serialize renders a document tree as render markup and passes the result
// through the sanitation policy. Unknown node kinds are skipped; serialization
// never fails.
func Serialize(node *doc.Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	writeNode(&b, node)
	return policy.Sanitize(b.String())
}

func writeNode(b *strings.Builder, node *doc.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case doc.KindDocument:
		writeChildren(b, node)
	case doc.KindParagraph:
		b.WriteString("<p>")
		writeChildren(b, node)
		b.WriteString("</p>")
	case doc.KindHeading:
		tag := fmt.Sprintf("h%d", node.Level())
		b.WriteString("<" + tag + ">")
		writeChildren(b, node)
		b.WriteString("</" + tag + ">")
	case doc.KindBulletList:
		b.WriteString("<ul>")
		writeChildren(b, node)
		b.WriteString("</ul>")
	case doc.KindOrderedList:
		b.WriteString("<ol>")
		writeChildren(b, node)
		b.WriteString("</ol>")
	case doc.KindTaskList:
		b.WriteString(`<ul data-type="taskList">`)
		writeChildren(b, node)
		b.WriteString("</ul>")
	case doc.KindListItem:
		b.WriteString("<li>")
		writeChildren(b, node)
		b.WriteString("</li>")
	case doc.KindTaskItem:
		writeTaskItem(b, node)
	case doc.KindBlockquote:
		b.WriteString("<blockquote>")
		writeChildren(b, node)
		b.WriteString("</blockquote>")
	case doc.KindCodeBlock:
		writeCodeBlock(b, node)
	case doc.KindHorizontalRule:
		b.WriteString("<hr>")
	case doc.KindImage:
		writeImage(b, node)
	case doc.KindText:
		writeText(b, node)
	default:
		writeChildren(b, node)
	}
}

// writeTaskItem emits both the semantic data attributes and the visible
// checkbox markup. Consumers that only need semantics read the attributes and
// can ignore the control entirely.
func writeTaskItem(b *strings.Builder, node *doc.Node) {
	checked := "false"
	checkbox := `<input type="checkbox" disabled="disabled">`
	if node.Checked() {
		checked = "true"
		checkbox = `<input type="checkbox" checked="checked" disabled="disabled">`
	}
	fmt.Fprintf(b, `<li data-type="taskItem" data-checked="%s">`, checked)
	b.WriteString("<label>" + checkbox + "<span></span></label><div>")
	writeChildren(b, node)
	b.WriteString("</div></li>")
}

func writeCodeBlock(b *strings.Builder, node *doc.Node) {
	b.WriteString("<pre><code")
	if lang := node.Language(); lang != "" {
		fmt.Fprintf(b, ` class="language-%s"`, stdhtml.EscapeString(lang))
	}
	b.WriteString(">")
	for _, child := range node.Content {
		if child != nil && child.Kind == doc.KindText {
			b.WriteString(stdhtml.EscapeString(child.Text))
		}
	}
	b.WriteString("</code></pre>")
}

func writeImage(b *strings.Builder, node *doc.Node) {
	fmt.Fprintf(b, `<img src="%s"`, stdhtml.EscapeString(node.Src()))
	if alt := node.Alt(); alt != "" {
		fmt.Fprintf(b, ` alt="%s"`, stdhtml.EscapeString(alt))
	}
	if title := node.Title(); title != "" {
		fmt.Fprintf(b, ` title="%s"`, stdhtml.EscapeString(title))
	}
	b.WriteString(">")
}

func writeText(b *strings.Builder, node *doc.Node) {
	marks := make([]*doc.Mark, len(node.Marks))
	copy(marks, node.Marks)
	sort.SliceStable(marks, func(i, j int) bool {
		return markOrder[marks[i].Kind] < markOrder[marks[j].Kind]
	})

	for _, m := range marks {
		if m.Kind == doc.MarkLink {
			fmt.Fprintf(b, `<a href="%s"`, stdhtml.EscapeString(m.Href()))
			if title := m.Title(); title != "" {
				fmt.Fprintf(b, ` title="%s"`, stdhtml.EscapeString(title))
			}
			b.WriteString(">")
			continue
		}
		if tag, ok := markTags[m.Kind]; ok {
			b.WriteString("<" + tag + ">")
		}
	}
	b.WriteString(stdhtml.EscapeString(node.Text))
	for i := len(marks) - 1; i >= 0; i-- {
		if marks[i].Kind == doc.MarkLink {
			b.WriteString("</a>")
			continue
		}
		if tag, ok := markTags[marks[i].Kind]; ok {
			b.WriteString("</" + tag + ">")
		}
	}
}

func writeChildren(b *strings.Builder, node *doc.Node) {
	for _, child := range node.Content {
		writeNode(b, child)
	}
}
