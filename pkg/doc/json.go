package doc

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Editors emit a handful of historical spellings for the same kinds; JSON
// snapshots are normalized to the canonical names on the way in.
var nodeAliases = map[string]NodeKind{
	"doc":             KindDocument,
	"bullet_list":     KindBulletList,
	"ordered_list":    KindOrderedList,
	"task_list":       KindTaskList,
	"list_item":       KindListItem,
	"task_item":       KindTaskItem,
	"code_block":      KindCodeBlock,
	"horizontal_rule": KindHorizontalRule,
	"rule":            KindHorizontalRule,
}

var markAliases = map[string]MarkKind{
	"strong": MarkBold,
	"b":      MarkBold,
	"em":     MarkItalic,
	"i":      MarkItalic,
	"strike": MarkStrikethrough,
	"s":      MarkStrikethrough,
	"del":    MarkStrikethrough,
}

// ParseJSON decodes an editor structured-tree snapshot into a document tree.
// Alias kind names are normalized; a snapshot whose root is not a document is
// wrapped in one.
func ParseJSON(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "decode document snapshot")
	}
	normalizeKinds(&n)
	if n.Kind != KindDocument {
		return NewDocument(&n), nil
	}
	return &n, nil
}

// MarshalJSONSnapshot encodes a document tree in the editor snapshot shape.
func MarshalJSONSnapshot(n *Node) ([]byte, error) {
	if n == nil {
		return nil, errors.New("nil document root")
	}
	data, err := json.Marshal(n)
	if err != nil {
		return nil, errors.Wrap(err, "encode document snapshot")
	}
	return data, nil
}

func normalizeKinds(root *Node) {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if k, ok := nodeAliases[string(n.Kind)]; ok {
			n.Kind = k
		}
		for _, m := range n.Marks {
			if k, ok := markAliases[string(m.Kind)]; ok {
				m.Kind = k
			}
		}
		for _, c := range n.Content {
			if c != nil {
				stack = append(stack, c)
			}
		}
	}
}
