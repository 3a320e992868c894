package native

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/vango-dev/native/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result summarises one applied batch.
type Result struct {
	Applied  int // Patches applied before the batch ended
	Built    int // Children built fresh
	Reused   int // Detached children re-attached
	Skipped  int // Children whose build failed
	Replaced int // Subtrees replaced
	Released int // Detached widgets dropped for good
}

// Applicator applies diff patches to a native widget tree.
type Applicator struct {
	tk   Toolkit
	opts options
}

// NewApplicator creates an Applicator for the given toolkit.
func NewApplicator(tk Toolkit, opts ...Option) *Applicator {
	return &Applicator{tk: tk, opts: newOptions("native.apply", opts)}
}

// Apply applies patches, in order, to the native tree under host.
//
// Patch indices refer to the tree the patches were diffed from. All target
// widgets are resolved in one traversal before the first patch runs, so a
// structural edit early in the batch does not move later targets.
//
// A target that cannot be resolved aborts the batch with a *PatchError
// wrapping ErrIndexNotFound; patches applied before it stay applied.
//
// Widgets detached by the batch and not attached again are passed to the
// toolkit's Release when it implements Releaser, whether or not the batch
// completed.
func (a *Applicator) Apply(ctx context.Context, host Widget, patches []vdom.Patch) (Result, error) {
	if len(patches) == 0 {
		return Result{}, nil
	}

	_, span := a.opts.tracer.Start(ctx, "native.Apply",
		trace.WithAttributes(attribute.Int("vnative.patches", len(patches))),
	)
	defer span.End()

	start := time.Now()
	b := &batch{
		tk:     a.tk,
		host:   host,
		logger: a.opts.logger,
		m:      a.opts.metrics,
		parked: make(map[int]map[int]Widget),
	}
	err := b.run(patches)
	b.release()
	a.opts.metrics.observeBatch(time.Since(start), err)

	span.SetAttributes(
		attribute.Int("vnative.applied", b.res.Applied),
		attribute.Int("vnative.skipped", b.res.Skipped),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.opts.logger.Warn("patch batch aborted",
			"applied", b.res.Applied,
			"total", len(patches),
			"error", err,
		)
	}
	return b.res, err
}

type batch struct {
	tk      Toolkit
	host    Widget
	logger  *slog.Logger
	m       *Metrics
	handles map[int]Widget
	parked  map[int]map[int]Widget // target index -> old child position -> widget
	dropped []Widget
	res     Result
}

func (b *batch) run(patches []vdom.Patch) error {
	want := make([]int, 0, len(patches))
	for _, p := range patches {
		want = append(want, p.Index)
	}
	b.handles = IndexWidgets(b.tk, b.host, want)

	for _, p := range patches {
		w, ok := b.handles[p.Index]
		if !ok {
			return patchError(p, ErrIndexNotFound)
		}

		var err error
		switch p.Op {
		case vdom.PatchAddAttributes:
			b.setAttrs(w, p, false)
		case vdom.PatchRemoveAttributes:
			b.setAttrs(w, p, true)
		case vdom.PatchTruncateChildren:
			err = b.truncate(w, p)
		case vdom.PatchAppendChildren:
			err = b.append(w, p)
		case vdom.PatchReplace:
			err = b.replace(w, p)
		default:
			err = fmt.Errorf("unknown op %d", p.Op)
		}
		if err != nil {
			return patchError(p, err)
		}
		b.res.Applied++
		b.m.observePatch(p.Op)
	}
	return nil
}

// setAttrs runs the toolkit setter for each attribute. Unsupported pairs
// and setter failures leave the widget as it was.
func (b *batch) setAttrs(w Widget, p vdom.Patch, clear bool) {
	for _, a := range p.Attrs {
		set, ok := b.tk.Setter(p.Tag, a.Key)
		if !ok {
			b.logger.Debug("no setter", "tag", p.Tag, "key", a.Key, "index", p.Index)
			b.m.observeUnsupported(p.Tag, a.Key)
			continue
		}
		var value any
		if !clear {
			value = a.Value
		}
		if err := set(w, value); err != nil {
			b.logger.Warn("setter failed",
				"tag", p.Tag,
				"key", a.Key,
				"index", p.Index,
				"error", err,
			)
		}
	}
}

func (b *batch) truncate(w Widget, p vdom.Patch) error {
	children := b.tk.Children(w)
	if p.Keep >= len(children) {
		return nil
	}
	parked := b.parked[p.Index]
	if parked == nil {
		parked = make(map[int]Widget, len(children)-p.Keep)
		b.parked[p.Index] = parked
	}
	for i := len(children) - 1; i >= p.Keep; i-- {
		if err := b.tk.RemoveChild(w, children[i]); err != nil {
			return fmt.Errorf("remove child %d: %w", i, err)
		}
		parked[i] = children[i]
	}
	return nil
}

func (b *batch) append(w Widget, p vdom.Patch) error {
	parked := b.parked[p.Index]
	for i, node := range p.Nodes {
		var child Widget
		if from := p.ReusedAt(i); from >= 0 {
			if reused, ok := parked[from]; ok {
				delete(parked, from)
				child = reused
				b.res.Reused++
			} else {
				b.logger.Debug("reused child not parked, building", "index", p.Index, "position", from)
			}
		}

		if child == nil {
			built, err := Build(b.tk, node)
			if err != nil {
				b.logger.Warn("child build failed, skipping",
					"index", p.Index,
					"child", i,
					"node", vdom.Describe(node),
					"error", err,
				)
				b.res.Skipped++
				b.m.observeSkipped()
				continue
			}
			if want := vdom.Count(node); built.Count != want {
				return fmt.Errorf("%w: child %d built %d slots, want %d", ErrCountMismatch, i, built.Count, want)
			}
			child = built.Widget
			b.res.Built++
		}

		if err := b.tk.AddChild(w, child); err != nil {
			return fmt.Errorf("add child %d: %w", i, err)
		}
		b.tk.Show(child)
	}
	return nil
}

// replace swaps the subtree at the target for a freshly built one, in the
// same position under the same parent.
func (b *batch) replace(w Widget, p vdom.Patch) error {
	outer, parent := b.attachment(w)
	if parent == nil {
		return ErrDetached
	}

	built, err := Build(b.tk, p.Node)
	if err != nil {
		b.logger.Warn("replacement build failed, keeping old widget",
			"index", p.Index,
			"node", vdom.Describe(p.Node),
			"error", err,
		)
		b.res.Skipped++
		b.m.observeSkipped()
		return nil
	}
	if want := vdom.Count(p.Node); built.Count != want {
		return fmt.Errorf("%w: built %d slots, want %d", ErrCountMismatch, built.Count, want)
	}

	pos := position(b.tk.Children(parent), outer)
	if err := b.tk.RemoveChild(parent, outer); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	b.dropped = append(b.dropped, outer)
	if err := b.tk.InsertChild(parent, pos, built.Widget); err != nil {
		return fmt.Errorf("insert at %d: %w", pos, err)
	}
	b.tk.Show(built.Widget)
	b.handles[p.Index] = built.Widget
	b.res.Replaced++
	return nil
}

// release drops the replaced subtrees and every parked child that no append
// took back, in target then position order.
func (b *batch) release() {
	dropped := b.dropped
	for _, index := range slices.Sorted(maps.Keys(b.parked)) {
		parked := b.parked[index]
		for _, pos := range slices.Sorted(maps.Keys(parked)) {
			dropped = append(dropped, parked[pos])
		}
	}
	if len(dropped) == 0 {
		return
	}
	b.res.Released = len(dropped)
	b.logger.Debug("releasing detached widgets", "count", len(dropped))
	release(b.tk, dropped...)
}

// attachment climbs from w through pass-through wrappers and returns the
// outermost widget of w's slot together with the structural parent (or the
// host) holding it.
func (b *batch) attachment(w Widget) (outer, parent Widget) {
	outer = w
	for {
		parent = b.tk.Parent(outer)
		if parent == nil || parent == b.host || b.tk.Structural(parent) {
			return outer, parent
		}
		outer = parent
	}
}

func position(children []Widget, w Widget) int {
	for i, c := range children {
		if c == w {
			return i
		}
	}
	return len(children)
}
