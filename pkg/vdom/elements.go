package vdom

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string.
// Strings become text children.
func createElement(tag Tag, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    make([]Attr, 0, len(args)),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if !v.IsEmpty() {
				node.Attrs = append(node.Attrs, v)
			}

		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					node.Attrs = append(node.Attrs, a)
				}
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// Element creates an element with an explicit tag.
func Element(tag Tag, args ...any) *VNode { return createElement(tag, args) }

// Containers

// Column lays children out vertically.
func Column(args ...any) *VNode { return createElement(TagColumn, args) }

// Row lays children out horizontally.
func Row(args ...any) *VNode { return createElement(TagRow, args) }

// VPane is a vertically split, resizable pane.
func VPane(args ...any) *VNode { return createElement(TagVPane, args) }

// HPane is a horizontally split, resizable pane.
func HPane(args ...any) *VNode { return createElement(TagHPane, args) }

// Block is a titled frame around its children.
func Block(title string, args ...any) *VNode {
	return createElement(TagBlock, append([]any{Title(title)}, args...))
}

// Controls

// Button creates a push button.
func Button(args ...any) *VNode { return createElement(TagButton, args) }

// Paragraph creates a read-only multi-line text widget.
func Paragraph(args ...any) *VNode { return createElement(TagParagraph, args) }

// TextInput creates a single-line text input.
func TextInput(args ...any) *VNode { return createElement(TagTextInput, args) }

// TextArea creates an editable multi-line text widget.
func TextArea(args ...any) *VNode { return createElement(TagTextArea, args) }

// Checkbox creates a checkbox. Its Value is a bool.
func Checkbox(args ...any) *VNode { return createElement(TagCheckbox, args) }

// Radio creates a radio button. Its Value is a bool.
func Radio(args ...any) *VNode { return createElement(TagRadio, args) }

// Media

// Image creates an image widget from encoded bytes passed with Data.
func Image(args ...any) *VNode { return createElement(TagImage, args) }

// Svg creates a vector image widget from svg source passed with Data.
func Svg(args ...any) *VNode { return createElement(TagSvg, args) }
