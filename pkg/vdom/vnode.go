package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // Widget element with tag, attributes and children
	KindText                 // Plain text leaf
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is the virtual widget node.
//
// A VNode tree is treated as immutable once handed to Diff or to a toolkit:
// patches keep references to nodes of the new tree instead of copying them.
type VNode struct {
	Kind     VKind    // Node type
	Tag      Tag      // Widget kind, for KindElement
	Attrs    []Attr   // Ordered attributes; on duplicate keys the last one wins
	Children []*VNode // Child nodes
	Text     string   // For KindText
}

// IsElement reports whether the node is an element.
func (v *VNode) IsElement() bool {
	return v != nil && v.Kind == KindElement
}

// IsText reports whether the node is a text leaf.
func (v *VNode) IsText() bool {
	return v != nil && v.Kind == KindText
}

// Key returns the reconciliation key, or "" when the node has none.
func (v *VNode) Key() string {
	if v == nil || v.Kind != KindElement {
		return ""
	}
	a, ok := FindAttr(v.Attrs, AttrKeyKey)
	if !ok || a.Value == nil {
		return ""
	}
	return ValueString(a.Value)
}

// IsInteractive returns true if this node carries at least one callback.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for _, a := range v.Attrs {
		if a.IsCallback() {
			return true
		}
	}
	return false
}

// Compatible reports whether b can be patched in place of a: same kind and,
// for elements, same tag. Incompatible pairs are replaced wholesale.
func Compatible(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	return a.Kind != KindElement || a.Tag == b.Tag
}

// Attr represents a single attribute.
type Attr struct {
	Key   AttrKey
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == AttrKeyNone
}

// IsCallback reports whether the attribute value is an event callback.
func (a Attr) IsCallback() bool {
	_, ok := a.Value.(Callback)
	return ok
}
