// Package doc defines the canonical document tree that every conversion in
// the platform passes through. Parsers build these trees, serializers consume
// them; nothing mutates a tree after construction.
package doc

// NodeKind identifies a node in the document tree.
type NodeKind string

const (
	KindDocument       NodeKind = "document"
	KindParagraph      NodeKind = "paragraph"
	KindHeading        NodeKind = "heading"
	KindBulletList     NodeKind = "bulletList"
	KindOrderedList    NodeKind = "orderedList"
	KindTaskList       NodeKind = "taskList"
	KindListItem       NodeKind = "listItem"
	KindTaskItem       NodeKind = "taskItem"
	KindBlockquote     NodeKind = "blockquote"
	KindCodeBlock      NodeKind = "codeBlock"
	KindHorizontalRule NodeKind = "horizontalRule"
	KindImage          NodeKind = "image"
	KindText           NodeKind = "text"
)

// MarkKind identifies an inline decoration on a text node.
type MarkKind string

const (
	MarkBold          MarkKind = "bold"
	MarkItalic        MarkKind = "italic"
	MarkStrikethrough MarkKind = "strikethrough"
	MarkCode          MarkKind = "code"
	MarkLink          MarkKind = "link"
)

// Node represents one element of the document tree.
type Node struct {
	Kind    NodeKind               `json:"type"`
	Text    string                 `json:"text,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Marks   []*Mark                `json:"marks,omitempty"`
	Content []*Node                `json:"content,omitempty"`
}

// Mark represents a formatting mark on a text node.
type Mark struct {
	Kind  MarkKind               `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// NewDocument builds a document root around the given block nodes.
func NewDocument(children ...*Node) *Node {
	return &Node{Kind: KindDocument, Content: children}
}

// NewText builds a text leaf carrying the given marks.
func NewText(text string, marks ...*Mark) *Node {
	return &Node{Kind: KindText, Text: text, Marks: marks}
}

// NewParagraph builds a paragraph around inline content.
func NewParagraph(children ...*Node) *Node {
	return &Node{Kind: KindParagraph, Content: children}
}

// NewHeading builds a heading of the given level (clamped to 1-6).
func NewHeading(level int, children ...*Node) *Node {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return &Node{Kind: KindHeading, Attrs: map[string]interface{}{"level": level}, Content: children}
}

// NewListItem builds a plain list item around block content.
func NewListItem(children ...*Node) *Node {
	return &Node{Kind: KindListItem, Content: children}
}

// NewTaskItem builds a checkable list item around block content.
func NewTaskItem(checked bool, children ...*Node) *Node {
	return &Node{Kind: KindTaskItem, Attrs: map[string]interface{}{"checked": checked}, Content: children}
}

// NewCodeBlock builds a code block; language may be empty.
func NewCodeBlock(language, code string) *Node {
	n := &Node{Kind: KindCodeBlock, Content: []*Node{NewText(code)}}
	if language != "" {
		n.Attrs = map[string]interface{}{"language": language}
	}
	return n
}

// NewImage builds an image node; alt and title may be empty.
func NewImage(src, alt, title string) *Node {
	attrs := map[string]interface{}{"src": src}
	if alt != "" {
		attrs["alt"] = alt
	}
	if title != "" {
		attrs["title"] = title
	}
	return &Node{Kind: KindImage, Attrs: attrs}
}

// NewLinkMark builds a link mark; title may be empty.
func NewLinkMark(href, title string) *Mark {
	attrs := map[string]interface{}{"href": href}
	if title != "" {
		attrs["title"] = title
	}
	return &Mark{Kind: MarkLink, Attrs: attrs}
}

// NewMark builds an attribute-free mark.
func NewMark(kind MarkKind) *Mark {
	return &Mark{Kind: kind}
}

// Level returns the heading level, defaulting to 1. JSON decoding stores
// numbers as float64, so both representations are accepted.
func (n *Node) Level() int {
	switch v := n.attr("level").(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 1
}

// Checked reports whether a task item is checked.
func (n *Node) Checked() bool {
	if v, ok := n.attr("checked").(bool); ok {
		return v
	}
	if v, ok := n.attr("checked").(string); ok {
		return v == "true"
	}
	return false
}

// Language returns the code block language tag, or "".
func (n *Node) Language() string {
	s, _ := n.attr("language").(string)
	return s
}

// Src returns the image source reference, or "".
func (n *Node) Src() string {
	s, _ := n.attr("src").(string)
	return s
}

// Alt returns the image alt text, or "".
func (n *Node) Alt() string {
	s, _ := n.attr("alt").(string)
	return s
}

// Title returns the image title, or "".
func (n *Node) Title() string {
	s, _ := n.attr("title").(string)
	return s
}

func (n *Node) attr(key string) interface{} {
	if n == nil || n.Attrs == nil {
		return nil
	}
	return n.Attrs[key]
}

// HasMark reports whether a text node carries a mark of the given kind.
func (n *Node) HasMark(kind MarkKind) bool {
	for _, m := range n.Marks {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// MarkOf returns the first mark of the given kind, or nil.
func (n *Node) MarkOf(kind MarkKind) *Mark {
	for _, m := range n.Marks {
		if m.Kind == kind {
			return m
		}
	}
	return nil
}

// Href returns the link target of a link mark, or "".
func (m *Mark) Href() string {
	if m == nil || m.Attrs == nil {
		return ""
	}
	s, _ := m.Attrs["href"].(string)
	return s
}

// Title returns the link title of a link mark, or "".
func (m *Mark) Title() string {
	if m == nil || m.Attrs == nil {
		return ""
	}
	s, _ := m.Attrs["title"].(string)
	return s
}

// IsBlock reports whether the kind is a block-level construct.
func (k NodeKind) IsBlock() bool {
	switch k {
	case KindParagraph, KindHeading, KindBulletList, KindOrderedList, KindTaskList,
		KindListItem, KindTaskItem, KindBlockquote, KindCodeBlock, KindHorizontalRule:
		return true
	}
	return false
}

// IsList reports whether the kind is one of the three list containers.
func (k NodeKind) IsList() bool {
	return k == KindBulletList || k == KindOrderedList || k == KindTaskList
}
