package native

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/native/pkg/vdom"
)

var errBadData = errors.New("bad data")

type fakeWidget struct {
	id       int
	tag      vdom.Tag
	text     string
	isText   bool
	wrapper  bool
	shown    bool
	attrs    map[vdom.AttrKey]any
	parent   *fakeWidget
	children []*fakeWidget
}

// fakeToolkit is an in-memory toolkit. Tags in wrap are built inside a
// non-structural wrapper. Images whose data is "bad" fail to build.
type fakeToolkit struct {
	nextID    int
	wrap      map[vdom.Tag]bool
	noSetter  map[vdom.AttrKey]bool
	flatText  bool // text widgets report non-structural, breaking index agreement
	built     int
	setCalls  int
	failAdd   bool
	setterErr error
	released  []*fakeWidget
}

func newFakeToolkit() *fakeToolkit {
	return &fakeToolkit{wrap: map[vdom.Tag]bool{vdom.TagTextArea: true}}
}

func (tk *fakeToolkit) newWidget() *fakeWidget {
	tk.nextID++
	return &fakeWidget{id: tk.nextID, attrs: map[vdom.AttrKey]any{}}
}

func (tk *fakeToolkit) host() *fakeWidget {
	w := tk.newWidget()
	w.wrapper = true
	return w
}

func (tk *fakeToolkit) Build(tag vdom.Tag, attrs []vdom.Attr) (Widget, error) {
	if tag == vdom.TagImage {
		if data, ok := vdom.FindValue(attrs, vdom.AttrKeyData); ok && string(data.([]byte)) == "bad" {
			return nil, errBadData
		}
	}
	tk.built++
	w := tk.newWidget()
	w.tag = tag
	for _, a := range attrs {
		w.attrs[a.Key] = a.Value
	}
	if !tk.wrap[tag] {
		return w, nil
	}
	outer := tk.newWidget()
	outer.wrapper = true
	outer.children = []*fakeWidget{w}
	w.parent = outer
	return outer, nil
}

func (tk *fakeToolkit) BuildText(text string) (Widget, error) {
	tk.built++
	w := tk.newWidget()
	w.isText = true
	w.text = text
	return w, nil
}

func (tk *fakeToolkit) AddChild(parent, child Widget) error {
	if tk.failAdd {
		return errors.New("add refused")
	}
	p, c := parent.(*fakeWidget), child.(*fakeWidget)
	p.children = append(p.children, c)
	c.parent = p
	return nil
}

func (tk *fakeToolkit) InsertChild(parent Widget, pos int, child Widget) error {
	p, c := parent.(*fakeWidget), child.(*fakeWidget)
	if pos > len(p.children) {
		pos = len(p.children)
	}
	p.children = append(p.children, nil)
	copy(p.children[pos+1:], p.children[pos:])
	p.children[pos] = c
	c.parent = p
	return nil
}

func (tk *fakeToolkit) RemoveChild(parent, child Widget) error {
	p, c := parent.(*fakeWidget), child.(*fakeWidget)
	for i, x := range p.children {
		if x == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			return nil
		}
	}
	return fmt.Errorf("widget %d is not a child of %d", c.id, p.id)
}

func (tk *fakeToolkit) Children(w Widget) []Widget {
	fw := w.(*fakeWidget)
	out := make([]Widget, len(fw.children))
	for i, c := range fw.children {
		out[i] = c
	}
	return out
}

func (tk *fakeToolkit) Parent(w Widget) Widget {
	if p := w.(*fakeWidget).parent; p != nil {
		return p
	}
	return nil
}

func (tk *fakeToolkit) Structural(w Widget) bool {
	fw := w.(*fakeWidget)
	if tk.flatText && fw.isText {
		return false
	}
	return !fw.wrapper
}

func (tk *fakeToolkit) Setter(tag vdom.Tag, key vdom.AttrKey) (Setter, bool) {
	if tk.noSetter[key] {
		return nil, false
	}
	return func(w Widget, value any) error {
		tk.setCalls++
		if tk.setterErr != nil {
			return tk.setterErr
		}
		fw := w.(*fakeWidget)
		if value == nil {
			delete(fw.attrs, key)
			return nil
		}
		fw.attrs[key] = value
		return nil
	}, true
}

func (tk *fakeToolkit) Show(w Widget) {
	w.(*fakeWidget).shown = true
}

func (tk *fakeToolkit) Release(w Widget) {
	tk.released = append(tk.released, w.(*fakeWidget))
}

// dumpNative renders the structural widgets under host, one per line.
func dumpNative(host *fakeWidget) string {
	var b strings.Builder
	var visit func(w *fakeWidget, depth int)
	visit = func(w *fakeWidget, depth int) {
		if !w.wrapper {
			b.WriteString(strings.Repeat("  ", depth))
			if w.isText {
				fmt.Fprintf(&b, "text(%q)\n", w.text)
			} else {
				b.WriteString(w.tag.String())
				b.WriteString(dumpAttrs(w.attrs))
				b.WriteString("\n")
			}
			depth++
		}
		for _, c := range w.children {
			visit(c, depth)
		}
	}
	for _, c := range host.children {
		visit(c, 0)
	}
	return b.String()
}

// dumpVirtual renders a virtual tree in the same format as dumpNative.
func dumpVirtual(root *vdom.VNode) string {
	var b strings.Builder
	var visit func(n *vdom.VNode, depth int)
	visit = func(n *vdom.VNode, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		if n.IsText() {
			fmt.Fprintf(&b, "text(%q)\n", n.Text)
			return
		}
		attrs := map[vdom.AttrKey]any{}
		for _, a := range vdom.EffectiveAttrs(n.Attrs) {
			attrs[a.Key] = a.Value
		}
		b.WriteString(n.Tag.String())
		b.WriteString(dumpAttrs(attrs))
		b.WriteString("\n")
		for _, c := range n.Children {
			if c != nil {
				visit(c, depth+1)
			}
		}
	}
	if root != nil {
		visit(root, 0)
	}
	return b.String()
}

func dumpAttrs(attrs map[vdom.AttrKey]any) string {
	keys := make([]string, 0, len(attrs))
	for k, v := range attrs {
		if k == vdom.AttrKeyKey {
			continue
		}
		val := vdom.ValueString(v)
		if _, ok := v.(vdom.Callback); ok {
			val = "<cb>"
		}
		keys = append(keys, fmt.Sprintf("%s=%s", k, val))
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return "[" + strings.Join(keys, " ") + "]"
}
