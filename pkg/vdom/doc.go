// Package vdom provides the virtual widget tree and its diff engine.
//
// The virtual tree is an immutable description of the UI a view wants to
// show. A native toolkit keeps the real widgets; diffs between two virtual
// trees produce patches that the native package applies to those widgets.
//
// # Core Types
//
// VNode is either an element (a Tag, ordered Attrs and ordered Children) or
// a text leaf. Attr pairs an AttrKey with a literal value or a Callback.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Column(
//	    Row(Button(Label("Save"), OnClick(save)), Button(Label("Cancel"))),
//	    TextArea(Value(draft), Size(40, 10)),
//	)
//
// # Indexing
//
// Every node has an index given by a pre-order walk starting at 0. Patches
// address nodes by that index, and toolkits derive the same numbering over
// their widgets. See Count, Walk and Index.
//
// # Diffing
//
// Diff compares two trees and returns a slice of Patch operations in index
// order. Children with Key attributes are matched by key; the rest are
// matched by position.
package vdom
