package native

import "github.com/vango-dev/native/pkg/vdom"

// Widget is an opaque handle to a native widget. Toolkits hand out
// comparable values (usually pointers); the engine only compares and
// passes them back.
type Widget any

// Setter applies one attribute value to a widget. A nil value clears the
// attribute back to the widget's default.
type Setter func(w Widget, value any) error

// Toolkit is the contract a native widget library fulfils for the engine.
//
// Every virtual child maps to exactly one direct native child of its
// container. That child may be a pass-through wrapper (a scroll view, a
// frame) around the structural widget; wrappers report Structural false and
// take no index slot.
type Toolkit interface {
	// Build creates an element widget with its initial attributes.
	// Attributes arrive with duplicate keys already collapsed.
	Build(tag vdom.Tag, attrs []vdom.Attr) (Widget, error)

	// BuildText creates a text leaf widget.
	BuildText(text string) (Widget, error)

	// AddChild appends child to parent's children.
	AddChild(parent, child Widget) error

	// InsertChild inserts child at pos among parent's children.
	InsertChild(parent Widget, pos int, child Widget) error

	// RemoveChild detaches child from parent. The child stays usable and
	// may be attached again; see Releaser for widgets that never are.
	RemoveChild(parent, child Widget) error

	// Children returns a snapshot of w's direct children in order.
	Children(w Widget) []Widget

	// Parent returns w's parent, or nil when w is detached.
	Parent(w Widget) Widget

	// Structural reports whether w takes an index slot.
	Structural(w Widget) bool

	// Setter returns the mutation for a (tag, key) pair, or false when the
	// toolkit does not support that attribute on that tag.
	Setter(tag vdom.Tag, key vdom.AttrKey) (Setter, bool)

	// Show makes a newly attached widget visible.
	Show(w Widget)
}

// Releaser is implemented by toolkits whose widgets hold resources beyond
// their parent link. Release is called once for every widget the engine
// detaches and drops: truncated children that were not reused, subtrees
// swapped out by Replace, and roots removed by rebuild, remount or
// unmount. The widget is detached when Release runs and is never passed
// back to the toolkit afterwards.
type Releaser interface {
	Release(w Widget)
}

// release hands dropped widgets to the toolkit when it implements Releaser.
func release(tk Toolkit, widgets ...Widget) {
	r, ok := tk.(Releaser)
	if !ok {
		return
	}
	for _, w := range widgets {
		if w != nil {
			r.Release(w)
		}
	}
}
