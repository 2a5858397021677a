package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pressfolio/contentcore/pkg/doc"
)

// Canonical mark nesting, outermost first. Code is kept innermost because
// code spans are atomic when parsed back: any delimiter wrapped inside one
// would be read as literal text.
var markRank = map[doc.MarkKind]int{
	doc.MarkBold:          0,
	doc.MarkItalic:        1,
	doc.MarkStrikethrough: 2,
	doc.MarkLink:          3,
	doc.MarkCode:          4,
}

// Serialize renders a document tree as markup-language text. Blocks are
// separated by exactly one blank line; unknown node kinds are skipped.
// Serialization never fails.
func Serialize(node *doc.Node) string {
	if node == nil {
		return ""
	}
	var result strings.Builder
	writeNode(node, &result, 0)
	return strings.TrimRight(result.String(), "\n")
}

func writeNode(node *doc.Node, result *strings.Builder, depth int) {
	if node == nil {
		return
	}
	switch node.Kind {
	case doc.KindDocument:
		writeChildren(node, result, depth)
	case doc.KindParagraph:
		writeInlineChildren(node, result)
		result.WriteString("\n\n")
	case doc.KindHeading:
		result.WriteString(strings.Repeat("#", node.Level()) + " ")
		writeInlineChildren(node, result)
		result.WriteString("\n\n")
	case doc.KindBulletList, doc.KindOrderedList, doc.KindTaskList:
		writeListItems(node, result, depth)
		result.WriteString("\n")
	case doc.KindBlockquote:
		var inner strings.Builder
		writeChildren(node, &inner, 0)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			if line == "" {
				result.WriteString(">\n")
				continue
			}
			result.WriteString("> " + line + "\n")
		}
		result.WriteString("\n")
	case doc.KindCodeBlock:
		result.WriteString("```" + node.Language() + "\n")
		writeInlineChildren(node, result)
		result.WriteString("\n```\n\n")
	case doc.KindHorizontalRule:
		result.WriteString("---\n\n")
	case doc.KindImage:
		writeImage(node, result)
		result.WriteString("\n\n")
	case doc.KindText:
		result.WriteString(renderText(node))
	default:
		// Unknown kinds are skipped; their children still render.
		writeChildren(node, result, depth)
	}
}

// writeListItems renders the items of one list node, one line per item,
// without blank lines between them. Nested lists indent two spaces per level.
func writeListItems(list *doc.Node, result *strings.Builder, depth int) {
	for i, item := range list.Content {
		if item == nil {
			continue
		}
		result.WriteString(strings.Repeat("  ", depth))
		result.WriteString(itemPrefix(list.Kind, item, i))
		lineOpen := false
		for _, child := range item.Content {
			if child == nil {
				continue
			}
			if child.Kind.IsList() {
				if !lineOpen {
					result.WriteString("\n")
					lineOpen = true
				}
				writeListItems(child, result, depth+1)
				continue
			}
			writeInlineChildren(child, result)
			result.WriteString("\n")
			lineOpen = true
		}
		if !lineOpen {
			result.WriteString("\n")
		}
	}
}

func itemPrefix(flavor doc.NodeKind, item *doc.Node, index int) string {
	switch flavor {
	case doc.KindOrderedList:
		return fmt.Sprintf("%d. ", index+1)
	case doc.KindTaskList:
		if item.Checked() {
			return "- [x] "
		}
		return "- [ ] "
	default:
		return "- "
	}
}

func writeInlineChildren(node *doc.Node, result *strings.Builder) {
	for _, child := range node.Content {
		if child == nil {
			continue
		}
		switch child.Kind {
		case doc.KindText:
			result.WriteString(renderText(child))
		case doc.KindImage:
			writeImage(child, result)
		default:
			writeInlineChildren(child, result)
		}
	}
}

func writeImage(node *doc.Node, result *strings.Builder) {
	if title := node.Title(); title != "" {
		fmt.Fprintf(result, `![%s](%s "%s")`, node.Alt(), node.Src(), title)
		return
	}
	fmt.Fprintf(result, "![%s](%s)", node.Alt(), node.Src())
}

// renderText wraps the node's text in its mark delimiters, innermost mark
// applied first so the canonical order comes out outermost-first.
func renderText(node *doc.Node) string {
	text := node.Text
	if len(node.Marks) == 0 {
		return text
	}
	marks := make([]*doc.Mark, len(node.Marks))
	copy(marks, node.Marks)
	sort.SliceStable(marks, func(i, j int) bool {
		return markRank[marks[i].Kind] < markRank[marks[j].Kind]
	})
	for i := len(marks) - 1; i >= 0; i-- {
		switch m := marks[i]; m.Kind {
		case doc.MarkCode:
			text = "`" + text + "`"
		case doc.MarkLink:
			if title := m.Title(); title != "" {
				text = fmt.Sprintf(`[%s](%s "%s")`, text, m.Href(), title)
			} else {
				text = fmt.Sprintf("[%s](%s)", text, m.Href())
			}
		case doc.MarkStrikethrough:
			text = "~~" + text + "~~"
		case doc.MarkItalic:
			text = "_" + text + "_"
		case doc.MarkBold:
			text = "**" + text + "**"
		}
	}
	return text
}

func writeChildren(node *doc.Node, result *strings.Builder, depth int) {
	for _, child := range node.Content {
		writeNode(child, result, depth)
	}
}
