package retained

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vango-dev/native/pkg/native"
	"github.com/vango-dev/native/pkg/vdom"
)

var (
	// ErrUnsupportedTag is returned by Build for tags with no widget kind.
	ErrUnsupportedTag = errors.New("retained: unsupported tag")

	// ErrInvalidValue is returned when an attribute value has the wrong type.
	ErrInvalidValue = errors.New("retained: invalid attribute value")

	// ErrInvalidSvg is returned when svg data is not UTF-8 text.
	ErrInvalidSvg = errors.New("retained: svg data is not valid UTF-8")

	// ErrNotChild is returned by RemoveChild for a widget of another parent.
	ErrNotChild = errors.New("retained: not a child")
)

var kinds = map[vdom.Tag]WidgetKind{
	vdom.TagColumn:    KindVStack,
	vdom.TagRow:       KindHStack,
	vdom.TagVPane:     KindVPane,
	vdom.TagHPane:     KindHPane,
	vdom.TagBlock:     KindFrame,
	vdom.TagButton:    KindButton,
	vdom.TagParagraph: KindParagraph,
	vdom.TagTextInput: KindTextField,
	vdom.TagTextArea:  KindTextArea,
	vdom.TagCheckbox:  KindCheckbox,
	vdom.TagRadio:     KindRadio,
	vdom.TagImage:     KindImage,
	vdom.TagSvg:       KindSvg,
}

// scrolled lists the tags built inside a scroll view.
var scrolled = map[vdom.Tag]bool{
	vdom.TagParagraph: true,
	vdom.TagTextArea:  true,
}

type setterKey struct {
	tag vdom.Tag
	key vdom.AttrKey
}

// Toolkit implements native.Toolkit over retained Widgets.
type Toolkit struct {
	setters map[setterKey]native.Setter
}

var _ native.Toolkit = (*Toolkit)(nil)

// New creates a retained toolkit.
func New() *Toolkit {
	tk := &Toolkit{setters: make(map[setterKey]native.Setter)}
	tk.registerSetters()
	return tk
}

func (tk *Toolkit) on(key vdom.AttrKey, set native.Setter, tags ...vdom.Tag) {
	for _, tag := range tags {
		tk.setters[setterKey{tag, key}] = set
	}
}

func (tk *Toolkit) registerSetters() {
	containers := []vdom.Tag{vdom.TagColumn, vdom.TagRow, vdom.TagVPane, vdom.TagHPane, vdom.TagBlock}
	inputs := []vdom.Tag{vdom.TagTextInput, vdom.TagTextArea}
	toggles := []vdom.Tag{vdom.TagCheckbox, vdom.TagRadio}
	sized := []vdom.Tag{vdom.TagParagraph, vdom.TagTextInput, vdom.TagTextArea, vdom.TagImage, vdom.TagSvg}

	tk.on(vdom.AttrKeyTitle, setString((*Widget).SetTitle), containers...)
	tk.on(vdom.AttrKeyWidth, setFloat((*Widget).SetWidth), append(containers, sized...)...)
	tk.on(vdom.AttrKeyHeight, setFloat((*Widget).SetHeight), append(containers, sized...)...)

	tk.on(vdom.AttrKeyLabel, setString((*Widget).SetLabel), append(toggles, vdom.TagButton)...)
	tk.on(vdom.AttrKeyValue, setString((*Widget).SetText), append(inputs, vdom.TagParagraph)...)
	tk.on(vdom.AttrKeyValue, setBool((*Widget).SetChecked), toggles...)
	tk.on(vdom.AttrKeyDisabled, setBool((*Widget).SetDisabled), append(append(inputs, toggles...), vdom.TagButton)...)

	tk.on(vdom.AttrKeyData, setData, vdom.TagImage)
	tk.on(vdom.AttrKeyData, setSvg, vdom.TagSvg)

	tk.on(vdom.AttrKeyOnClick, setHandler(vdom.EventClick), vdom.TagButton)
	tk.on(vdom.AttrKeyOnInput, setHandler(vdom.EventInput), inputs...)
	tk.on(vdom.AttrKeyOnChange, setHandler(vdom.EventChange), append(inputs, toggles...)...)
}

func setString(fn func(*Widget, string) *Widget) native.Setter {
	return func(w native.Widget, value any) error {
		fn(w.(*Widget), vdom.ValueString(value))
		return nil
	}
}

func setFloat(fn func(*Widget, float64) *Widget) native.Setter {
	return func(w native.Widget, value any) error {
		if value == nil {
			fn(w.(*Widget), 0)
			return nil
		}
		f, ok := vdom.ValueFloat(value)
		if !ok {
			return fmt.Errorf("%w: %v is not a number", ErrInvalidValue, value)
		}
		fn(w.(*Widget), f)
		return nil
	}
}

func setBool(fn func(*Widget, bool) *Widget) native.Setter {
	return func(w native.Widget, value any) error {
		if value == nil {
			fn(w.(*Widget), false)
			return nil
		}
		b, ok := vdom.ValueBool(value)
		if !ok {
			return fmt.Errorf("%w: %v is not a bool", ErrInvalidValue, value)
		}
		fn(w.(*Widget), b)
		return nil
	}
}

func setData(w native.Widget, value any) error {
	if value == nil {
		w.(*Widget).SetData(nil)
		return nil
	}
	data, ok := vdom.ValueBytes(value)
	if !ok {
		return fmt.Errorf("%w: data must be bytes", ErrInvalidValue)
	}
	w.(*Widget).SetData(data)
	return nil
}

func setSvg(w native.Widget, value any) error {
	if data, ok := vdom.ValueBytes(value); ok && !utf8.Valid(data) {
		return ErrInvalidSvg
	}
	return setData(w, value)
}

func setHandler(t vdom.EventType) native.Setter {
	return func(w native.Widget, value any) error {
		if value == nil {
			w.(*Widget).SetHandler(t, nil)
			return nil
		}
		cb, ok := value.(vdom.Callback)
		if !ok {
			return fmt.Errorf("%w: %s handler is %T", ErrInvalidValue, t, value)
		}
		w.(*Widget).SetHandler(t, cb)
		return nil
	}
}

// Build creates the widget for tag. Paragraphs and text areas come back
// wrapped in a scroll view.
func (tk *Toolkit) Build(tag vdom.Tag, attrs []vdom.Attr) (native.Widget, error) {
	kind, ok := kinds[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTag, tag)
	}
	w := NewWidget(kind)
	for _, a := range attrs {
		set, ok := tk.setters[setterKey{tag, a.Key}]
		if !ok {
			continue
		}
		if err := set(w, a.Value); err != nil {
			return nil, fmt.Errorf("%s %s: %w", tag, a.Key, err)
		}
	}
	if !scrolled[tag] {
		return w, nil
	}
	scroll := NewWidget(KindScrollView)
	scroll.AddChild(w)
	return scroll, nil
}

// BuildText creates a text leaf.
func (tk *Toolkit) BuildText(text string) (native.Widget, error) {
	return NewWidget(KindText).SetText(text), nil
}

// AddChild appends child to parent.
func (tk *Toolkit) AddChild(parent, child native.Widget) error {
	parent.(*Widget).AddChild(child.(*Widget))
	return nil
}

// InsertChild inserts child at pos.
func (tk *Toolkit) InsertChild(parent native.Widget, pos int, child native.Widget) error {
	parent.(*Widget).InsertChild(pos, child.(*Widget))
	return nil
}

// RemoveChild detaches child from parent.
func (tk *Toolkit) RemoveChild(parent, child native.Widget) error {
	if !parent.(*Widget).RemoveChild(child.(*Widget)) {
		return ErrNotChild
	}
	return nil
}

// Children returns a snapshot of w's children.
func (tk *Toolkit) Children(w native.Widget) []native.Widget {
	children := w.(*Widget).Children()
	out := make([]native.Widget, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// Parent returns w's parent or nil.
func (tk *Toolkit) Parent(w native.Widget) native.Widget {
	if p := w.(*Widget).Parent(); p != nil {
		return p
	}
	return nil
}

// Structural reports whether w takes an index slot.
func (tk *Toolkit) Structural(w native.Widget) bool {
	return w.(*Widget).Kind().Structural()
}

// Setter returns the mutation for (tag, key).
func (tk *Toolkit) Setter(tag vdom.Tag, key vdom.AttrKey) (native.Setter, bool) {
	set, ok := tk.setters[setterKey{tag, key}]
	return set, ok
}

// Show marks w and its descendants visible.
func (tk *Toolkit) Show(w native.Widget) {
	show(w.(*Widget))
}

func show(w *Widget) {
	w.SetVisible(true)
	for _, c := range w.Children() {
		show(c)
	}
}
