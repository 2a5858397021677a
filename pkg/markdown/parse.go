// Package markdown converts between markup-language text and the document
// tree. Parsing runs in two passes: a line-oriented block pass followed by an
// inline pass over each block's text. Both directions are total: malformed
// input degrades to literal text, never to an error.
package markdown

import (
	"regexp"
	"strings"

	"github.com/pressfolio/contentcore/pkg/doc"
)

var (
	headingPattern  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	taskItemPattern = regexp.MustCompile(`^(\s*)[-*]\s+\[(.)\]\s?(.*)$`)
	bulletPattern   = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	orderedPattern  = regexp.MustCompile(`^(\s*)\d+\.\s+(.*)$`)
	fencePattern    = regexp.MustCompile("^```([A-Za-z0-9_+-]*)\\s*$")
	rulePattern     = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
	quotePattern    = regexp.MustCompile(`^>\s?(.*)$`)
)

// Parse converts markup-language text into a document tree. It never fails:
// unrecognized syntax is kept as literal paragraph text, and empty input
// yields an empty document.
func Parse(text string) *doc.Node {
	p := &blockParser{}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		p.feed(line)
	}
	p.finish()
	return doc.NewDocument(p.blocks...)
}

type openList struct {
	node  *doc.Node
	depth int
}

type blockParser struct {
	blocks []*doc.Node

	para  []string
	quote []string
	lists []openList

	inFence   bool
	fenceLang string
	fenceBody []string
}

func (p *blockParser) feed(line string) {
	if p.inFence {
		if strings.TrimSpace(line) == "```" {
			p.closeFence()
		} else {
			p.fenceBody = append(p.fenceBody, line)
		}
		return
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		p.flushAll()
	case rulePattern.MatchString(trimmed):
		p.flushAll()
		p.blocks = append(p.blocks, &doc.Node{Kind: doc.KindHorizontalRule})
	case fencePattern.MatchString(trimmed):
		p.flushAll()
		p.inFence = true
		p.fenceLang = fencePattern.FindStringSubmatch(trimmed)[1]
	default:
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			p.flushAll()
			p.blocks = append(p.blocks, doc.NewHeading(len(m[1]), parseInline(m[2])...))
			return
		}
		if m := taskItemPattern.FindStringSubmatch(line); m != nil {
			checked := m[2] == "x" || m[2] == "X"
			item := doc.NewTaskItem(checked, doc.NewParagraph(parseInline(m[3])...))
			p.addListItem(doc.KindTaskList, len(m[1]), item)
			return
		}
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			item := doc.NewListItem(doc.NewParagraph(parseInline(m[2])...))
			p.addListItem(doc.KindBulletList, len(m[1]), item)
			return
		}
		if m := orderedPattern.FindStringSubmatch(line); m != nil {
			item := doc.NewListItem(doc.NewParagraph(parseInline(m[2])...))
			p.addListItem(doc.KindOrderedList, len(m[1]), item)
			return
		}
		if m := quotePattern.FindStringSubmatch(line); m != nil {
			p.flushPara()
			p.flushLists()
			p.quote = append(p.quote, m[1])
			return
		}
		p.flushQuote()
		p.flushLists()
		p.para = append(p.para, line)
	}
}

func (p *blockParser) finish() {
	if p.inFence {
		// Unterminated fence: close it at end of input.
		p.closeFence()
	}
	p.flushAll()
}

// addListItem attaches an item at the nesting depth implied by its leading
// indentation (two spaces per level). Adjacent items of the same flavor merge
// into one list node; a flavor change starts a new list at the same depth.
func (p *blockParser) addListItem(flavor doc.NodeKind, indent int, item *doc.Node) {
	p.flushPara()
	p.flushQuote()
	depth := indent / 2

	for len(p.lists) > 0 && p.lists[len(p.lists)-1].depth > depth {
		p.lists = p.lists[:len(p.lists)-1]
	}

	if len(p.lists) > 0 {
		top := p.lists[len(p.lists)-1]
		if top.depth == depth && top.node.Kind == flavor {
			top.node.Content = append(top.node.Content, item)
			return
		}
		if top.depth == depth {
			// Flavor change at the same depth ends the current list.
			p.lists = p.lists[:len(p.lists)-1]
		}
	}

	list := &doc.Node{Kind: flavor, Content: []*doc.Node{item}}
	if parent := p.parentItem(depth); parent != nil {
		parent.Content = append(parent.Content, list)
	} else {
		p.blocks = append(p.blocks, list)
	}
	p.lists = append(p.lists, openList{node: list, depth: depth})
}

// parentItem returns the item a nested list at the given depth belongs to,
// or nil when the list is top level.
func (p *blockParser) parentItem(depth int) *doc.Node {
	if depth == 0 || len(p.lists) == 0 {
		return nil
	}
	top := p.lists[len(p.lists)-1]
	if top.depth >= depth || len(top.node.Content) == 0 {
		return nil
	}
	return top.node.Content[len(top.node.Content)-1]
}

func (p *blockParser) flushAll() {
	p.flushPara()
	p.flushQuote()
	p.flushLists()
}

func (p *blockParser) flushPara() {
	if len(p.para) == 0 {
		return
	}
	joined := strings.Join(p.para, " ")
	p.para = nil
	p.blocks = append(p.blocks, doc.NewParagraph(parseInline(joined)...))
}

func (p *blockParser) flushQuote() {
	if len(p.quote) == 0 {
		return
	}
	parts := make([]string, 0, len(p.quote))
	for _, l := range p.quote {
		if strings.TrimSpace(l) != "" {
			parts = append(parts, l)
		}
	}
	p.quote = nil
	inner := doc.NewParagraph(parseInline(strings.Join(parts, " "))...)
	p.blocks = append(p.blocks, &doc.Node{Kind: doc.KindBlockquote, Content: []*doc.Node{inner}})
}

func (p *blockParser) flushLists() {
	p.lists = nil
}

func (p *blockParser) closeFence() {
	body := strings.Join(p.fenceBody, "\n")
	p.blocks = append(p.blocks, doc.NewCodeBlock(p.fenceLang, body))
	p.inFence = false
	p.fenceLang = ""
	p.fenceBody = nil
}
