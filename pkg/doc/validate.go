package doc

// IsWellFormed reports whether the tree rooted at n satisfies the structural
// invariants of the document model: a single non-nested document root, list
// containers holding only items of the matching flavor, marks only on text
// nodes, and text nodes as the only leaves carrying text. Traversal uses an
// explicit stack so adversarially deep trees cannot overflow the call stack.
func IsWellFormed(n *Node) bool {
	if n == nil || n.Kind != KindDocument {
		return false
	}

	type frame struct {
		node   *Node
		parent *Node
	}
	stack := make([]frame, 0, 64)
	for _, c := range n.Content {
		stack = append(stack, frame{c, n})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil || !validNode(f.node, f.parent) {
			return false
		}
		for _, c := range f.node.Content {
			stack = append(stack, frame{c, f.node})
		}
	}
	return true
}

func validNode(n, parent *Node) bool {
	switch n.Kind {
	case KindDocument:
		// The root is never nested.
		return false
	case KindText:
		return len(n.Content) == 0
	case KindListItem:
		return parent.Kind == KindBulletList || parent.Kind == KindOrderedList
	case KindTaskItem:
		return parent.Kind == KindTaskList
	case KindBulletList, KindOrderedList, KindTaskList:
		want := KindListItem
		if n.Kind == KindTaskList {
			want = KindTaskItem
		}
		for _, c := range n.Content {
			if c == nil || c.Kind != want {
				return false
			}
		}
	case KindHeading:
		if lvl := n.Level(); lvl < 1 || lvl > 6 {
			return false
		}
	case KindParagraph, KindBlockquote, KindCodeBlock, KindHorizontalRule, KindImage:
	default:
		return false
	}
	// Marks apply only to text nodes.
	return len(n.Marks) == 0
}
