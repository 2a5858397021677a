// Package richtext converts between render markup (the HTML-like form the
// interactive editor produces and consumes) and the document tree. Parsing is
// tolerant: unclosed tags close implicitly, unknown tags unwrap, and the
// several historical shapes of checkable task items all normalize to one
// taskItem node. Serialized output is restricted to an allow-listed
// vocabulary.
package richtext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pressfolio/contentcore/pkg/doc"
	"github.com/pressfolio/contentcore/pkg/storageref"
)

// maxParseDepth bounds tree recursion; content nested beyond it is flattened
// to its text so adversarial input cannot overflow the stack.
const maxParseDepth = 200

var spaceRun = regexp.MustCompile(`\s+`)

// Parse converts render markup into a document tree. It never fails:
// malformed markup degrades to a best-effort tree and empty input yields an
// empty document.
func Parse(markup string) *doc.Node {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return doc.NewDocument()
	}
	body := gq.Find("body")
	if len(body.Nodes) == 0 {
		return doc.NewDocument()
	}
	return doc.NewDocument(parseBlocks(body.Nodes[0], 0)...)
}

// Tags treated as block containers. Wrapper tags carry no meaning of their
// own and are unwrapped into their parent.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "blockquote": true, "pre": true,
	"hr": true,
	"div": true, "section": true, "article": true, "main": true,
	"aside": true, "header": true, "footer": true, "figure": true,
	"table": true, "tbody": true, "thead": true, "tr": true, "td": true,
	"th": true, "li": true,
}

// parseBlocks builds the block sequence under parent. Loose inline content at
// block level is wrapped in a paragraph so no two blocks can ever concatenate
// without a boundary.
func parseBlocks(parent *html.Node, depth int) []*doc.Node {
	if depth > maxParseDepth {
		if t := strings.TrimSpace(collapse(textContent(parent))); t != "" {
			return []*doc.Node{doc.NewParagraph(doc.NewText(t))}
		}
		return nil
	}

	var blocks []*doc.Node
	var pending []*doc.Node
	flush := func() {
		pending = trimEdges(pending)
		if len(pending) > 0 {
			blocks = append(blocks, doc.NewParagraph(pending...))
		}
		pending = nil
	}

	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			// Same whitespace rules as inline text so the gap between a text
			// run and an adjacent inline element survives.
			pending = append(pending, parseInline(c, nil, depth+1)...)
		case html.ElementNode:
			if blockTags[c.Data] {
				flush()
				blocks = append(blocks, parseBlock(c, depth+1)...)
			} else {
				pending = append(pending, parseInline(c, nil, depth+1)...)
			}
		}
	}
	flush()
	return blocks
}

func parseBlock(n *html.Node, depth int) []*doc.Node {
	switch n.Data {
	case "p":
		return []*doc.Node{doc.NewParagraph(parseInlineChildren(n, depth)...)}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		return []*doc.Node{doc.NewHeading(level, parseInlineChildren(n, depth)...)}
	case "ul":
		if isTaskList(n) {
			return []*doc.Node{parseTaskList(n, depth)}
		}
		return []*doc.Node{parseList(n, doc.KindBulletList, depth)}
	case "ol":
		return []*doc.Node{parseList(n, doc.KindOrderedList, depth)}
	case "blockquote":
		inner := parseBlocks(n, depth)
		if len(inner) == 0 {
			inner = []*doc.Node{doc.NewParagraph()}
		}
		return []*doc.Node{{Kind: doc.KindBlockquote, Content: inner}}
	case "pre":
		return []*doc.Node{parseCodeBlock(n)}
	case "hr":
		return []*doc.Node{{Kind: doc.KindHorizontalRule}}
	default:
		// Wrapper and unknown block tags unwrap; their children are hoisted.
		return parseBlocks(n, depth)
	}
}

func parseList(list *html.Node, flavor doc.NodeKind, depth int) *doc.Node {
	node := &doc.Node{Kind: flavor}
	for _, li := range itemElements(list) {
		content := parseBlocks(li, depth+1)
		if len(content) == 0 {
			content = []*doc.Node{doc.NewParagraph()}
		}
		node.Content = append(node.Content, &doc.Node{Kind: doc.KindListItem, Content: content})
	}
	return node
}

// isTaskList accepts both the list-level marker and the older shape where
// only the items are marked.
func isTaskList(ul *html.Node) bool {
	if strings.EqualFold(attrValue(ul, "data-type"), "taskList") {
		return true
	}
	for _, li := range itemElements(ul) {
		if strings.EqualFold(attrValue(li, "data-type"), "taskItem") {
			return true
		}
	}
	return false
}

func parseTaskList(list *html.Node, depth int) *doc.Node {
	node := &doc.Node{Kind: doc.KindTaskList}
	for _, li := range itemElements(list) {
		node.Content = append(node.Content, parseTaskItem(li, depth+1))
	}
	return node
}

// parseTaskItem normalizes every historical task-item shape to one taskItem:
// text directly in a paragraph, text behind an extra wrapper container, or
// text preceded by interactive-control markup. The control markup is
// discarded; only the semantic text content survives. The checked state comes
// from the data-checked attribute regardless of attribute order, and a
// disabled control carries no meaning.
func parseTaskItem(li *html.Node, depth int) *doc.Node {
	checked := strings.EqualFold(attrValue(li, "data-checked"), "true")
	stripTaskControls(li)
	content := parseBlocks(li, depth)
	if len(content) == 0 {
		content = []*doc.Node{doc.NewParagraph()}
	}
	return &doc.Node{
		Kind:    doc.KindTaskItem,
		Attrs:   map[string]interface{}{"checked": checked},
		Content: content,
	}
}

// stripTaskControls removes checkbox inputs and label/span wrappers that
// contain no text of their own. A label that does carry text is kept and
// unwraps later so the text is not lost.
func stripTaskControls(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch c.Data {
			case "input":
				n.RemoveChild(c)
			case "label", "span":
				if strings.TrimSpace(textContent(c)) == "" {
					n.RemoveChild(c)
				} else {
					stripTaskControls(c)
				}
			default:
				stripTaskControls(c)
			}
		}
		c = next
	}
}

func parseCodeBlock(pre *html.Node) *doc.Node {
	src := pre
	language := ""
	if code := childElement(pre, "code"); code != nil {
		src = code
		language = languageFromClass(attrValue(code, "class"))
	}
	return doc.NewCodeBlock(language, strings.TrimRight(textContent(src), "\n"))
}

func parseInlineChildren(n *html.Node, depth int) []*doc.Node {
	var out []*doc.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, parseInline(c, nil, depth)...)
	}
	return out
}

// parseInline converts inline markup into text and image nodes, accumulating
// the mark set implied by the surrounding emphasis tags. Unknown tags unwrap.
func parseInline(n *html.Node, marks []*doc.Mark, depth int) []*doc.Node {
	if depth > maxParseDepth {
		if t := collapse(textContent(n)); strings.TrimSpace(t) != "" {
			return []*doc.Node{doc.NewText(t, cloneMarks(marks)...)}
		}
		return nil
	}

	switch n.Type {
	case html.TextNode:
		t := collapse(n.Data)
		if strings.TrimSpace(t) == "" {
			// Pretty-printing whitespace is dropped, a genuine word gap kept.
			if strings.ContainsAny(n.Data, "\n\t") || t == "" {
				return nil
			}
			return []*doc.Node{doc.NewText(" ", cloneMarks(marks)...)}
		}
		return []*doc.Node{doc.NewText(t, cloneMarks(marks)...)}
	case html.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "strong", "b":
		marks = pushMark(marks, doc.NewMark(doc.MarkBold))
	case "em", "i":
		marks = pushMark(marks, doc.NewMark(doc.MarkItalic))
	case "del", "s", "strike":
		marks = pushMark(marks, doc.NewMark(doc.MarkStrikethrough))
	case "code":
		marks = pushMark(marks, doc.NewMark(doc.MarkCode))
	case "a":
		if href := attrValue(n, "href"); href != "" {
			marks = pushMark(marks, doc.NewLinkMark(storageref.Canonical(href), attrValue(n, "title")))
		}
	case "img":
		src := storageref.Canonical(attrValue(n, "src"))
		if src == "" {
			return nil
		}
		return []*doc.Node{doc.NewImage(src, attrValue(n, "alt"), attrValue(n, "title"))}
	case "br":
		return []*doc.Node{doc.NewText(" ", cloneMarks(marks)...)}
	case "input", "script", "style", "template":
		return nil
	}

	var out []*doc.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, parseInline(c, marks, depth+1)...)
	}
	return out
}

func pushMark(marks []*doc.Mark, m *doc.Mark) []*doc.Mark {
	for _, existing := range marks {
		if existing.Kind == m.Kind {
			return marks
		}
	}
	out := make([]*doc.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

// trimEdges strips leading whitespace off the first text node and trailing
// whitespace off the last, dropping nodes that become empty, so a wrapped
// paragraph never begins or ends with a word gap. Interior gaps are kept.
func trimEdges(nodes []*doc.Node) []*doc.Node {
	for len(nodes) > 0 && nodes[0].Kind == doc.KindText {
		nodes[0].Text = strings.TrimLeft(nodes[0].Text, " ")
		if nodes[0].Text != "" {
			break
		}
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && nodes[len(nodes)-1].Kind == doc.KindText {
		last := nodes[len(nodes)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			break
		}
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

func cloneMarks(marks []*doc.Mark) []*doc.Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]*doc.Mark, len(marks))
	copy(out, marks)
	return out
}

func itemElements(list *html.Node) []*html.Node {
	var items []*html.Node
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			items = append(items, c)
		}
	}
	return items
}

func childElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func languageFromClass(class string) string {
	for _, part := range strings.Fields(class) {
		if lang := strings.TrimPrefix(part, "language-"); lang != part {
			return lang
		}
	}
	return ""
}

func collapse(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// textContent concatenates all text beneath n, iteratively so depth is not a
// concern.
func textContent(n *html.Node) string {
	var b strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return b.String()
}
