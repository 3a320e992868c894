package retained

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/native/pkg/vdom"
)

// Describe renders the tree under w, one widget per line, indented by
// depth. Two trees with the same description are equivalent for every
// property the engine sets; widget IDs are left out.
func Describe(w *Widget) string {
	var b strings.Builder
	describe(&b, w, 0)
	return b.String()
}

func describe(b *strings.Builder, w *Widget, depth int) {
	w.mu.RLock()
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(w.kind))

	var props []string
	if w.label != "" {
		props = append(props, "label="+strconv.Quote(w.label))
	}
	if w.text != "" {
		props = append(props, "text="+strconv.Quote(w.text))
	}
	if w.checked {
		props = append(props, "checked")
	}
	if w.title != "" {
		props = append(props, "title="+strconv.Quote(w.title))
	}
	if len(w.data) > 0 {
		props = append(props, fmt.Sprintf("data=<%d bytes>", len(w.data)))
	}
	if w.width != 0 || w.height != 0 {
		props = append(props, fmt.Sprintf("size=%gx%g", w.width, w.height))
	}
	if w.disabled {
		props = append(props, "disabled")
	}
	if !w.visible {
		props = append(props, "hidden")
	}
	for _, t := range []vdom.EventType{vdom.EventClick, vdom.EventInput, vdom.EventChange} {
		if _, ok := w.handlers[t]; ok {
			props = append(props, "on"+t.String())
		}
	}
	children := w.children
	w.mu.RUnlock()

	if len(props) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(props, " "))
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, c := range children {
		describe(b, c, depth+1)
	}
}
