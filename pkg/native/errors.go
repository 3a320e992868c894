package native

import (
	"errors"
	"fmt"

	"github.com/vango-dev/native/pkg/vdom"
)

// Sentinel errors for patch application and mounting.
var (
	// ErrIndexNotFound is returned when a patch names an index that no
	// structural widget in the native tree carries.
	ErrIndexNotFound = errors.New("native: index not found")

	// ErrCountMismatch is returned when a built subtree does not occupy the
	// same number of index slots as the virtual subtree it was built from.
	ErrCountMismatch = errors.New("native: built subtree count mismatch")

	// ErrBuild is returned when the toolkit fails to construct a widget.
	ErrBuild = errors.New("native: build failed")

	// ErrDetached is returned when a widget has no parent to be replaced in.
	ErrDetached = errors.New("native: widget is detached")

	// ErrNotMounted is returned by Update before Mount succeeded.
	ErrNotMounted = errors.New("native: not mounted")

	// ErrNilTree is returned when a nil virtual tree is mounted or rendered.
	ErrNilTree = errors.New("native: nil tree")
)

// PatchError wraps an error with the patch that caused it.
type PatchError struct {
	Index int          // Target index in the old tree
	Op    vdom.PatchOp // Operation that failed
	Err   error        // Underlying error
}

// Error returns the error message with patch context.
func (e *PatchError) Error() string {
	return fmt.Sprintf("native: %s at index %d: %v", e.Op, e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *PatchError) Unwrap() error {
	return e.Err
}

func patchError(p vdom.Patch, err error) *PatchError {
	return &PatchError{Index: p.Index, Op: p.Op, Err: err}
}

// IsDrift reports whether err means the native tree no longer mirrors the
// virtual tree it was diffed against.
func IsDrift(err error) bool {
	return errors.Is(err, ErrIndexNotFound) || errors.Is(err, ErrCountMismatch)
}

// errorKind returns a low-cardinality label for metrics.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrIndexNotFound):
		return "index_not_found"
	case errors.Is(err, ErrCountMismatch):
		return "count_mismatch"
	case errors.Is(err, ErrBuild):
		return "build"
	case errors.Is(err, ErrDetached):
		return "detached"
	default:
		return "toolkit"
	}
}
