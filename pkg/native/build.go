package native

import (
	"fmt"

	"github.com/vango-dev/native/pkg/vdom"
)

// Built is a freshly constructed native subtree together with the number
// of index slots it occupies.
type Built struct {
	Widget Widget
	Count  int
}

// Build constructs the native subtree for node. The whole subtree fails if
// any widget in it fails to build. Nil children are skipped; they take no
// index slot.
func Build(tk Toolkit, node *vdom.VNode) (Built, error) {
	if node == nil {
		return Built{}, ErrNilTree
	}
	w, err := build(tk, node)
	if err != nil {
		return Built{}, err
	}
	return Built{Widget: w, Count: CountWidgets(tk, w)}, nil
}

func build(tk Toolkit, node *vdom.VNode) (Widget, error) {
	if node.IsText() {
		w, err := tk.BuildText(node.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: text: %w", ErrBuild, err)
		}
		return w, nil
	}

	w, err := tk.Build(node.Tag, vdom.EffectiveAttrs(node.Attrs))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBuild, node.Tag, err)
	}
	for i, child := range node.Children {
		if child == nil {
			continue
		}
		cw, err := build(tk, child)
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", node.Tag, i, err)
		}
		if err := tk.AddChild(w, cw); err != nil {
			return nil, fmt.Errorf("%w: %s child %d: %w", ErrBuild, node.Tag, i, err)
		}
	}
	return w, nil
}
