// Package term is a native toolkit that draws the widget tree as lines of
// terminal text.
//
// Containers lay children out vertically (column, vpane) or side by side
// (row, hpane); blocks and text areas get a border. Images are decoded from
// their data bytes and shaded with glyphs, one cell per 10x20 pixels unless
// the node sets a size. Svg data is kept as UTF-8 source.
package term

import (
	"errors"
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/vdom"
)

var (
	// ErrUnsupportedTag is returned by Build for tags with no terminal widget.
	ErrUnsupportedTag = errors.New("term: unsupported tag")

	// ErrInvalidValue is returned when an attribute value has the wrong type.
	ErrInvalidValue = errors.New("term: invalid attribute value")

	// ErrNotChild is returned by RemoveChild for a node of another parent.
	ErrNotChild = errors.New("term: not a child")
)

// Node is a terminal widget.
type Node struct {
	tag    vdom.Tag
	isText bool
	screen bool
	shown  bool

	label    string
	value    string
	checked  bool
	title    string
	data     []byte
	img      image.Image
	width    float64
	height   float64
	disabled bool
	handlers map[vdom.EventType]vdom.Callback

	parent   *Node
	children []*Node
}

// Tag returns the node's tag; text leaves report TagUnknown.
func (n *Node) Tag() vdom.Tag { return n.tag }

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Dispatch delivers a user event to the attached handler.
func (n *Node) Dispatch(ev vdom.Event) bool {
	cb, ok := n.handlers[ev.Type]
	if !ok || n.disabled {
		return false
	}
	cb(ev)
	return true
}

type setterKey struct {
	tag vdom.Tag
	key vdom.AttrKey
}

// Toolkit implements native.Toolkit for the terminal.
type Toolkit struct {
	theme   Theme
	setters map[setterKey]native.Setter
}

var _ native.Toolkit = (*Toolkit)(nil)

// New creates a terminal toolkit drawing with theme.
func New(theme Theme) *Toolkit {
	tk := &Toolkit{theme: theme, setters: make(map[setterKey]native.Setter)}
	tk.registerSetters()
	return tk
}

// Theme returns the theme the toolkit draws with.
func (tk *Toolkit) Theme() Theme {
	return tk.theme
}

// NewScreen creates the host node trees are mounted under.
func (tk *Toolkit) NewScreen() *Node {
	return &Node{screen: true, shown: true}
}

func (tk *Toolkit) on(key vdom.AttrKey, set func(n *Node, value any) error, tags ...vdom.Tag) {
	for _, tag := range tags {
		tk.setters[setterKey{tag, key}] = func(w native.Widget, value any) error {
			return set(w.(*Node), value)
		}
	}
}

func (tk *Toolkit) registerSetters() {
	all := []vdom.Tag{
		vdom.TagColumn, vdom.TagRow, vdom.TagVPane, vdom.TagHPane, vdom.TagBlock,
		vdom.TagButton, vdom.TagParagraph, vdom.TagTextInput, vdom.TagTextArea,
		vdom.TagCheckbox, vdom.TagRadio, vdom.TagImage, vdom.TagSvg,
	}
	inputs := []vdom.Tag{vdom.TagTextInput, vdom.TagTextArea}
	toggles := []vdom.Tag{vdom.TagCheckbox, vdom.TagRadio}

	tk.on(vdom.AttrKeyWidth, func(n *Node, v any) error { return setFloat(&n.width, v) }, all...)
	tk.on(vdom.AttrKeyHeight, func(n *Node, v any) error { return setFloat(&n.height, v) }, all...)
	tk.on(vdom.AttrKeyTitle, func(n *Node, v any) error {
		n.title = vdom.ValueString(v)
		return nil
	}, vdom.TagBlock, vdom.TagVPane, vdom.TagHPane)
	tk.on(vdom.AttrKeyLabel, func(n *Node, v any) error {
		n.label = vdom.ValueString(v)
		return nil
	}, append(toggles, vdom.TagButton)...)
	tk.on(vdom.AttrKeyValue, func(n *Node, v any) error {
		n.value = vdom.ValueString(v)
		return nil
	}, append(inputs, vdom.TagParagraph)...)
	tk.on(vdom.AttrKeyValue, func(n *Node, v any) error { return setBool(&n.checked, v) }, toggles...)
	tk.on(vdom.AttrKeyDisabled, func(n *Node, v any) error { return setBool(&n.disabled, v) },
		append(append(inputs, toggles...), vdom.TagButton)...)
	tk.on(vdom.AttrKeyData, setImage, vdom.TagImage)
	tk.on(vdom.AttrKeyData, setSvg, vdom.TagSvg)

	tk.on(vdom.AttrKeyOnClick, handler(vdom.EventClick), vdom.TagButton)
	tk.on(vdom.AttrKeyOnInput, handler(vdom.EventInput), inputs...)
	tk.on(vdom.AttrKeyOnChange, handler(vdom.EventChange), append(inputs, toggles...)...)
}

func setFloat(dst *float64, v any) error {
	if v == nil {
		*dst = 0
		return nil
	}
	f, ok := vdom.ValueFloat(v)
	if !ok {
		return fmt.Errorf("%w: %v is not a number", ErrInvalidValue, v)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, v any) error {
	if v == nil {
		*dst = false
		return nil
	}
	b, ok := vdom.ValueBool(v)
	if !ok {
		return fmt.Errorf("%w: %v is not a bool", ErrInvalidValue, v)
	}
	*dst = b
	return nil
}

func setImage(n *Node, v any) error {
	if v == nil {
		n.data, n.img = nil, nil
		return nil
	}
	data, ok := vdom.ValueBytes(v)
	if !ok {
		return fmt.Errorf("%w: image data must be bytes", ErrInvalidValue)
	}
	img, err := decodeImage(data)
	if err != nil {
		return err
	}
	n.data, n.img = data, img
	return nil
}

func setSvg(n *Node, v any) error {
	if v == nil {
		n.data = nil
		return nil
	}
	data, ok := vdom.ValueBytes(v)
	if !ok || !utf8.Valid(data) {
		return fmt.Errorf("%w: svg data must be UTF-8 text", ErrInvalidValue)
	}
	n.data = data
	return nil
}

func handler(t vdom.EventType) func(n *Node, v any) error {
	return func(n *Node, v any) error {
		if v == nil {
			delete(n.handlers, t)
			return nil
		}
		cb, ok := v.(vdom.Callback)
		if !ok {
			return fmt.Errorf("%w: %s handler is %T", ErrInvalidValue, t, v)
		}
		if n.handlers == nil {
			n.handlers = make(map[vdom.EventType]vdom.Callback)
		}
		n.handlers[t] = cb
		return nil
	}
}

// Build creates the node for tag with its initial attributes.
func (tk *Toolkit) Build(tag vdom.Tag, attrs []vdom.Attr) (native.Widget, error) {
	if tag == vdom.TagUnknown || tag > vdom.TagSvg {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTag, tag)
	}
	n := &Node{tag: tag}
	for _, a := range attrs {
		set, ok := tk.setters[setterKey{tag, a.Key}]
		if !ok {
			continue
		}
		if err := set(n, a.Value); err != nil {
			return nil, fmt.Errorf("%s %s: %w", tag, a.Key, err)
		}
	}
	return n, nil
}

// BuildText creates a text leaf.
func (tk *Toolkit) BuildText(text string) (native.Widget, error) {
	return &Node{isText: true, value: text}, nil
}

// AddChild appends child to parent.
func (tk *Toolkit) AddChild(parent, child native.Widget) error {
	p, c := parent.(*Node), child.(*Node)
	p.children = append(p.children, c)
	c.parent = p
	return nil
}

// InsertChild inserts child at pos.
func (tk *Toolkit) InsertChild(parent native.Widget, pos int, child native.Widget) error {
	p, c := parent.(*Node), child.(*Node)
	if pos >= len(p.children) {
		p.children = append(p.children, c)
	} else {
		p.children = append(p.children[:pos+1], p.children[pos:]...)
		p.children[pos] = c
	}
	c.parent = p
	return nil
}

// RemoveChild detaches child from parent.
func (tk *Toolkit) RemoveChild(parent, child native.Widget) error {
	p, c := parent.(*Node), child.(*Node)
	for i, x := range p.children {
		if x == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			return nil
		}
	}
	return ErrNotChild
}

// Children returns a snapshot of w's children.
func (tk *Toolkit) Children(w native.Widget) []native.Widget {
	n := w.(*Node)
	out := make([]native.Widget, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Parent returns w's parent or nil.
func (tk *Toolkit) Parent(w native.Widget) native.Widget {
	if p := w.(*Node).parent; p != nil {
		return p
	}
	return nil
}

// Structural reports whether w takes an index slot. Only the screen does not.
func (tk *Toolkit) Structural(w native.Widget) bool {
	return !w.(*Node).screen
}

// Setter returns the mutation for (tag, key).
func (tk *Toolkit) Setter(tag vdom.Tag, key vdom.AttrKey) (native.Setter, bool) {
	set, ok := tk.setters[setterKey{tag, key}]
	return set, ok
}

// Show marks w and its descendants as drawn.
func (tk *Toolkit) Show(w native.Widget) {
	show(w.(*Node))
}

func show(n *Node) {
	n.shown = true
	for _, c := range n.children {
		show(c)
	}
}
