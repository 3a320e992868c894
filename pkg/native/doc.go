// Package native applies virtual tree patches to a live native widget tree.
//
// A Toolkit adapts one widget library. The engine never inspects widgets
// itself: it asks the toolkit for children, parents and whether a widget is
// structural, and it mutates widgets only through toolkit setters.
//
// # Index agreement
//
// Patches name their targets by pre-order index in the old virtual tree.
// IndexWidgets derives the same numbering over the native tree by counting
// structural widgets only, so pass-through wrappers such as scroll views do
// not shift indices. Build reports the slot count of every subtree it
// creates and the Applicator refuses subtrees whose count disagrees with the
// virtual one.
//
// # Update cycle
//
//	r := native.NewReconciler(tk, native.WithMetrics(m))
//	if err := r.Mount(ctx, window, view(state)); err != nil {
//	    return err
//	}
//	// on every state change
//	if err := r.Update(ctx, view(state)); err != nil {
//	    return err
//	}
//
// Reconciler and Applicator are synchronous and must be used from the
// goroutine that owns the toolkit.
package native
