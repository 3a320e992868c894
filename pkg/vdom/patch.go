package vdom

import (
	"fmt"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchAddAttributes    PatchOp = 0x01 // Set or update attributes
	PatchRemoveAttributes PatchOp = 0x02 // Clear attributes
	PatchTruncateChildren PatchOp = 0x03 // Drop children past Keep
	PatchAppendChildren   PatchOp = 0x04 // Build and append children
	PatchReplace          PatchOp = 0x05 // Rebuild the whole subtree
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchAddAttributes:
		return "AddAttributes"
	case PatchRemoveAttributes:
		return "RemoveAttributes"
	case PatchTruncateChildren:
		return "TruncateChildren"
	case PatchAppendChildren:
		return "AppendChildren"
	case PatchReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// IsStructural reports whether the op changes the shape of the tree.
func (op PatchOp) IsStructural() bool {
	return op == PatchTruncateChildren || op == PatchAppendChildren || op == PatchReplace
}

// Patch is one edit against the tree the diff started from.
//
// Index names the target node in that old tree. Tag is the target's element
// tag so a toolkit can pick the mutation without inspecting the native
// widget; it is TagUnknown for Replace, whose target may be a text node.
type Patch struct {
	Op    PatchOp  // Operation type
	Tag   Tag      // Target element's tag
	Index int      // Target node index
	Attrs []Attr   // For AddAttributes/RemoveAttributes
	Nodes []*VNode // For AppendChildren
	Reuse []int    // For AppendChildren: old child position whose widget is re-attached, or -1
	Keep  int      // For TruncateChildren
	Node  *VNode   // For Replace
}

// AddAttributes creates an AddAttributes patch.
func AddAttributes(tag Tag, index int, attrs []Attr) Patch {
	return Patch{Op: PatchAddAttributes, Tag: tag, Index: index, Attrs: attrs}
}

// RemoveAttributes creates a RemoveAttributes patch.
func RemoveAttributes(tag Tag, index int, attrs []Attr) Patch {
	return Patch{Op: PatchRemoveAttributes, Tag: tag, Index: index, Attrs: attrs}
}

// AppendChildren creates an AppendChildren patch where every node is built fresh.
func AppendChildren(tag Tag, index int, nodes []*VNode) Patch {
	reuse := make([]int, len(nodes))
	for i := range reuse {
		reuse[i] = -1
	}
	return Patch{Op: PatchAppendChildren, Tag: tag, Index: index, Nodes: nodes, Reuse: reuse}
}

// TruncateChildren creates a TruncateChildren patch.
func TruncateChildren(tag Tag, index int, keep int) Patch {
	return Patch{Op: PatchTruncateChildren, Tag: tag, Index: index, Keep: keep}
}

// Replace creates a Replace patch.
func Replace(index int, node *VNode) Patch {
	return Patch{Op: PatchReplace, Index: index, Node: node}
}

// ReusedAt returns the old child position re-attached for Nodes[i], or -1.
func (p Patch) ReusedAt(i int) int {
	if i < 0 || i >= len(p.Reuse) {
		return -1
	}
	return p.Reuse[i]
}

// String renders a patch for logs and the CLI.
func (p Patch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(", p.Op)
	if p.Op != PatchReplace {
		fmt.Fprintf(&b, "%s, ", p.Tag)
	}
	fmt.Fprintf(&b, "%d", p.Index)
	switch p.Op {
	case PatchAddAttributes, PatchRemoveAttributes:
		b.WriteString(", [")
		for i, a := range p.Attrs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.Key.String())
			if p.Op == PatchAddAttributes {
				fmt.Fprintf(&b, "=%s", describeValue(a.Value))
			}
		}
		b.WriteString("]")
	case PatchTruncateChildren:
		fmt.Fprintf(&b, ", keep=%d", p.Keep)
	case PatchAppendChildren:
		b.WriteString(", [")
		for i, n := range p.Nodes {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Describe(n))
			if from := p.ReusedAt(i); from >= 0 {
				fmt.Fprintf(&b, " <- #%d", from)
			}
		}
		b.WriteString("]")
	case PatchReplace:
		fmt.Fprintf(&b, ", %s", Describe(p.Node))
	}
	b.WriteString(")")
	return b.String()
}

// Describe renders a node on one line: tag, attributes and child count.
func Describe(node *VNode) string {
	if node == nil {
		return "nil"
	}
	if node.Kind == KindText {
		return fmt.Sprintf("text(%q)", node.Text)
	}
	var b strings.Builder
	b.WriteString(node.Tag.String())
	attrs := EffectiveAttrs(node.Attrs)
	if len(attrs) > 0 {
		b.WriteString("[")
		for i, a := range attrs {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%s", a.Key, describeValue(a.Value))
		}
		b.WriteString("]")
	}
	if n := len(present(node.Children)); n > 0 {
		fmt.Fprintf(&b, "{%d}", n)
	}
	return b.String()
}

func describeValue(v any) string {
	switch val := v.(type) {
	case Callback:
		return "<callback>"
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(val))
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return ValueString(v)
	}
}
