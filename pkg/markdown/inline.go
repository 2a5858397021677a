package markdown

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pressfolio/contentcore/pkg/doc"
	"github.com/pressfolio/contentcore/pkg/storageref"
)

// parseInline converts one block's raw text into a run of text and image
// nodes with accumulated mark sets. Unterminated delimiters degrade to
// literal characters; nothing here can fail.
func parseInline(s string) []*doc.Node {
	return appendInline(nil, s, nil)
}

func appendInline(nodes []*doc.Node, s string, marks []*doc.Mark) []*doc.Node {
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			nodes = append(nodes, doc.NewText(literal.String(), cloneMarks(marks)...))
			literal.Reset()
		}
	}

	i := 0
	for i < len(s) {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "**"):
			if end := strings.Index(rest[2:], "**"); end >= 0 {
				flush()
				nodes = appendInline(nodes, rest[2:2+end], withMark(marks, doc.NewMark(doc.MarkBold)))
				i += 4 + end
				continue
			}
			literal.WriteString("**")
			i += 2
		case strings.HasPrefix(rest, "__"):
			if end := strings.Index(rest[2:], "__"); end >= 0 {
				flush()
				nodes = appendInline(nodes, rest[2:2+end], withMark(marks, doc.NewMark(doc.MarkBold)))
				i += 4 + end
				continue
			}
			literal.WriteString("__")
			i += 2
		case strings.HasPrefix(rest, "~~"):
			if end := strings.Index(rest[2:], "~~"); end >= 0 {
				flush()
				nodes = appendInline(nodes, rest[2:2+end], withMark(marks, doc.NewMark(doc.MarkStrikethrough)))
				i += 4 + end
				continue
			}
			literal.WriteString("~~")
			i += 2
		case rest[0] == '`':
			// Code spans are atomic: nothing nests inside them.
			if end := strings.IndexByte(rest[1:], '`'); end >= 0 {
				flush()
				nodes = append(nodes, doc.NewText(rest[1:1+end], withMark(marks, doc.NewMark(doc.MarkCode))...))
				i += 2 + end
				continue
			}
			literal.WriteByte('`')
			i++
		case strings.HasPrefix(rest, "!["):
			if label, target, consumed, ok := splitLink(rest[1:]); ok {
				flush()
				dest, title := splitTarget(target)
				nodes = append(nodes, doc.NewImage(storageref.Canonical(dest), label, title))
				i += 1 + consumed
				continue
			}
			literal.WriteByte('!')
			i++
		case rest[0] == '[':
			if label, target, consumed, ok := splitLink(rest); ok {
				flush()
				dest, title := splitTarget(target)
				nodes = appendInline(nodes, label, withMark(marks, doc.NewLinkMark(storageref.Canonical(dest), title)))
				i += consumed
				continue
			}
			literal.WriteByte('[')
			i++
		case rest[0] == '*' || rest[0] == '_':
			c := rest[0]
			if end := strings.IndexByte(rest[1:], c); end >= 0 {
				flush()
				nodes = appendInline(nodes, rest[1:1+end], withMark(marks, doc.NewMark(doc.MarkItalic)))
				i += 2 + end
				continue
			}
			literal.WriteByte(c)
			i++
		default:
			literal.WriteByte(rest[0])
			i++
		}
	}
	flush()
	return nodes
}

// splitLink parses a [label](target) construct at the start of s. Labels do
// not nest; the first ] and the first ) after it close the construct.
func splitLink(s string) (label, target string, consumed int, ok bool) {
	if len(s) == 0 || s[0] != '[' {
		return "", "", 0, false
	}
	close1 := strings.IndexByte(s, ']')
	if close1 < 0 || close1+1 >= len(s) || s[close1+1] != '(' {
		return "", "", 0, false
	}
	close2 := strings.IndexByte(s[close1+2:], ')')
	if close2 < 0 {
		return "", "", 0, false
	}
	label = s[1:close1]
	target = s[close1+2 : close1+2+close2]
	return label, target, close1 + close2 + 3, true
}

// splitTarget separates `url "title"` into its two parts; the title is
// optional.
func splitTarget(target string) (dest, title string) {
	target = strings.TrimSpace(target)
	if idx := strings.Index(target, ` "`); idx >= 0 && strings.HasSuffix(target, `"`) {
		return strings.TrimSpace(target[:idx]), target[idx+2 : len(target)-1]
	}
	return target, ""
}

// withMark returns marks plus m, deduplicating by kind so that directly
// nested identical delimiters collapse to a single mark.
func withMark(marks []*doc.Mark, m *doc.Mark) []*doc.Mark {
	kinds := mapset.NewThreadUnsafeSet[doc.MarkKind]()
	out := make([]*doc.Mark, 0, len(marks)+1)
	for _, existing := range marks {
		kinds.Add(existing.Kind)
		out = append(out, existing)
	}
	if !kinds.Contains(m.Kind) {
		out = append(out, m)
	}
	return out
}

func cloneMarks(marks []*doc.Mark) []*doc.Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]*doc.Mark, len(marks))
	copy(out, marks)
	return out
}
