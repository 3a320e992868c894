package native

import (
	"context"
	"fmt"

	"github.com/vango-dev/native/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Batch describes one reconciler update, for observers.
type Batch struct {
	Prev    *vdom.VNode  // Tree before the update
	Next    *vdom.VNode  // Tree after the update
	Patches []vdom.Patch // Patches diffed from Prev to Next
	Result  Result       // What the applicator did
	Rebuilt bool         // The native tree was rebuilt instead of patched
	Err     error        // Error returned by Update, if any
}

// Observer is called after every reconciler update, on the UI goroutine.
type Observer func(Batch)

// Reconciler keeps a native widget tree in sync with successive virtual
// trees. It is not safe for concurrent use: call it from the goroutine
// that owns the toolkit.
type Reconciler struct {
	tk      Toolkit
	opts    options
	apply   *Applicator
	host    Widget
	root    Widget
	current *vdom.VNode
	drifted bool
}

// NewReconciler creates a Reconciler for the given toolkit.
func NewReconciler(tk Toolkit, opts ...Option) *Reconciler {
	return &Reconciler{
		tk:    tk,
		opts:  newOptions("native.reconciler", opts),
		apply: NewApplicator(tk, opts...),
	}
}

// Mount builds the native tree for root and attaches it under host.
func (r *Reconciler) Mount(ctx context.Context, host Widget, root *vdom.VNode) error {
	if root == nil {
		return ErrNilTree
	}
	_, span := r.opts.tracer.Start(ctx, "native.Mount",
		trace.WithAttributes(attribute.Int("vnative.nodes", vdom.Count(root))),
	)
	defer span.End()

	if r.root != nil {
		if err := r.tk.RemoveChild(r.host, r.root); err != nil {
			return r.fail(span, fmt.Errorf("unmount previous tree: %w", err))
		}
		release(r.tk, r.root)
		r.root = nil
	}

	w, err := r.attach(host, root)
	if err != nil {
		return r.fail(span, err)
	}
	r.host = host
	r.root = w
	r.current = root
	r.drifted = false
	r.opts.logger.Debug("mounted", "nodes", vdom.Count(root))
	return nil
}

// Update diffs the current tree against next and patches the native tree.
//
// When the batch shows drift (ErrIndexNotFound, ErrCountMismatch) and
// rebuild-on-drift is enabled, the native tree is rebuilt from next instead.
// A batch that had to skip children, or that failed partway, leaves the
// native tree out of step with Tree(); the next Update rebuilds it under the
// same option.
func (r *Reconciler) Update(ctx context.Context, next *vdom.VNode) error {
	if r.root == nil {
		return ErrNotMounted
	}
	if next == nil {
		return ErrNilTree
	}
	ctx, span := r.opts.tracer.Start(ctx, "native.Update")
	defer span.End()

	prev := r.current
	if r.drifted && r.opts.rebuildOnDrift {
		err := r.rebuild(next, "skipped")
		r.notify(Batch{Prev: prev, Next: next, Rebuilt: true, Err: err})
		return r.fail(span, err)
	}

	_, diffSpan := r.opts.tracer.Start(ctx, "vdom.Diff")
	patches := vdom.Diff(prev, next)
	diffSpan.SetAttributes(attribute.Int("vnative.patches", len(patches)))
	diffSpan.End()

	slot := position(r.tk.Children(r.host), r.root)
	res, err := r.apply.Apply(ctx, r.host, patches)
	if res.Replaced > 0 {
		// A Replace at index 0 swaps the root widget itself.
		if children := r.tk.Children(r.host); slot < len(children) {
			r.root = children[slot]
		}
	}
	batch := Batch{Prev: prev, Next: next, Patches: patches, Result: res}
	if err != nil {
		// Patches before the failure stay applied, so prev no longer
		// describes the native tree.
		r.drifted = true
		if r.opts.rebuildOnDrift && IsDrift(err) {
			r.opts.logger.Warn("native tree drifted, rebuilding", "error", err)
			batch.Rebuilt = true
			err = r.rebuild(next, errorKind(err))
		}
		batch.Err = err
		r.notify(batch)
		return r.fail(span, err)
	}

	r.current = next
	if res.Skipped > 0 {
		r.drifted = true
	}
	r.notify(batch)
	return nil
}

// Unmount detaches the native tree from the host and releases it.
func (r *Reconciler) Unmount() error {
	if r.root == nil {
		return nil
	}
	if err := r.tk.RemoveChild(r.host, r.root); err != nil {
		return err
	}
	release(r.tk, r.root)
	r.root = nil
	r.current = nil
	return nil
}

// Tree returns the virtual tree the native tree currently mirrors.
func (r *Reconciler) Tree() *vdom.VNode {
	return r.current
}

// Root returns the root native widget, or nil before Mount.
func (r *Reconciler) Root() Widget {
	return r.root
}

// Host returns the host widget passed to Mount.
func (r *Reconciler) Host() Widget {
	return r.host
}

func (r *Reconciler) rebuild(next *vdom.VNode, reason string) error {
	if err := r.tk.RemoveChild(r.host, r.root); err != nil {
		return fmt.Errorf("rebuild: remove root: %w", err)
	}
	release(r.tk, r.root)
	r.root = nil
	w, err := r.attach(r.host, next)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	r.root = w
	r.current = next
	r.drifted = false
	r.opts.metrics.observeRebuild(reason)
	return nil
}

func (r *Reconciler) attach(host Widget, root *vdom.VNode) (Widget, error) {
	built, err := Build(r.tk, root)
	if err != nil {
		return nil, err
	}
	if want := vdom.Count(root); built.Count != want {
		return nil, fmt.Errorf("%w: built %d slots, want %d", ErrCountMismatch, built.Count, want)
	}
	if err := r.tk.AddChild(host, built.Widget); err != nil {
		return nil, err
	}
	r.tk.Show(built.Widget)
	return built.Widget, nil
}

func (r *Reconciler) notify(b Batch) {
	for _, fn := range r.opts.observers {
		fn(b)
	}
}

func (r *Reconciler) fail(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
