// Package retained is an in-memory retained-mode widget toolkit.
//
// It keeps a tree of Widgets with the properties of the engine's widget
// set and no rendering of its own. Applications use it headless (tests,
// snapshots, the inspector) and toolkits with a real backend use it as the
// reference for how tags and attributes map onto widgets.
//
// Paragraphs and text areas are built inside a scroll view. Scroll views and
// windows are pass-through wrappers: they do not take an index slot.
package retained

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/native/pkg/vdom"
)

// WidgetID uniquely identifies a widget. IDs are never reused, so a widget
// that keeps its ID across an update was re-attached, not rebuilt.
type WidgetID uint64

var nextWidgetID atomic.Uint64

func newWidgetID() WidgetID {
	return WidgetID(nextWidgetID.Add(1))
}

// WidgetKind identifies the type of widget.
type WidgetKind string

const (
	KindWindow     WidgetKind = "window"
	KindVStack     WidgetKind = "vstack"
	KindHStack     WidgetKind = "hstack"
	KindVPane      WidgetKind = "vpane"
	KindHPane      WidgetKind = "hpane"
	KindFrame      WidgetKind = "frame"
	KindScrollView WidgetKind = "scroll_view"
	KindText       WidgetKind = "text"
	KindButton     WidgetKind = "button"
	KindParagraph  WidgetKind = "paragraph"
	KindTextField  WidgetKind = "text_field"
	KindTextArea   WidgetKind = "text_area"
	KindCheckbox   WidgetKind = "checkbox"
	KindRadio      WidgetKind = "radio"
	KindImage      WidgetKind = "image"
	KindSvg        WidgetKind = "svg"
)

// Structural reports whether widgets of this kind take an index slot.
func (k WidgetKind) Structural() bool {
	return k != KindWindow && k != KindScrollView
}

// Widget is a node of the retained tree.
// Widgets are safe for concurrent property reads.
type Widget struct {
	mu sync.RWMutex

	id       WidgetID
	kind     WidgetKind
	parent   *Widget
	children []*Widget

	label    string
	text     string // Text leaves, inputs, paragraphs
	checked  bool
	title    string
	data     []byte
	width    float64
	height   float64
	disabled bool
	visible  bool

	handlers map[vdom.EventType]vdom.Callback

	// Set by every mutation, cleared by ClearDirty
	dirty bool
}

// NewWidget creates a widget with default values.
// The widget is not attached to any tree until added as a child.
func NewWidget(kind WidgetKind) *Widget {
	return &Widget{
		id:   newWidgetID(),
		kind: kind,
	}
}

// NewWindow creates a top-level window to mount trees under.
func NewWindow(title string) *Widget {
	w := NewWidget(KindWindow)
	w.title = title
	w.visible = true
	return w
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID {
	return w.id
}

// Kind returns the widget type.
func (w *Widget) Kind() WidgetKind {
	return w.kind
}

// ============================================================================
// Tree Structure
// ============================================================================

// Parent returns the widget's parent, or nil if it is detached.
func (w *Widget) Parent() *Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent
}

// Children returns a copy of the widget's children slice.
func (w *Widget) Children() []*Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*Widget, len(w.children))
	copy(result, w.children)
	return result
}

// AddChild appends a child widget.
func (w *Widget) AddChild(child *Widget) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()

	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()

	w.children = append(w.children, child)
	w.dirty = true
	return w
}

// InsertChild inserts a child at the specified index.
func (w *Widget) InsertChild(index int, child *Widget) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()

	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()

	if index >= len(w.children) {
		w.children = append(w.children, child)
	} else {
		w.children = append(w.children[:index+1], w.children[index:]...)
		w.children[index] = child
	}
	w.dirty = true
	return w
}

// RemoveChild removes a child by reference.
func (w *Widget) RemoveChild(child *Widget) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, c := range w.children {
		if c == child {
			w.children = append(w.children[:i], w.children[i+1:]...)
			child.mu.Lock()
			child.parent = nil
			child.mu.Unlock()
			w.dirty = true
			return true
		}
	}
	return false
}

// ============================================================================
// Properties
// ============================================================================

func (w *Widget) update(fn func()) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
	w.dirty = true
	return w
}

// SetLabel sets the label of buttons, checkboxes and radios.
func (w *Widget) SetLabel(label string) *Widget {
	return w.update(func() { w.label = label })
}

// Label returns the label.
func (w *Widget) Label() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.label
}

// SetText sets the text content of text leaves, inputs and paragraphs.
func (w *Widget) SetText(text string) *Widget {
	return w.update(func() { w.text = text })
}

// Text returns the text content.
func (w *Widget) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

// SetChecked sets the state of checkboxes and radios.
func (w *Widget) SetChecked(checked bool) *Widget {
	return w.update(func() { w.checked = checked })
}

// Checked returns the check state.
func (w *Widget) Checked() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.checked
}

// SetTitle sets the title of frames and windows.
func (w *Widget) SetTitle(title string) *Widget {
	return w.update(func() { w.title = title })
}

// Title returns the title.
func (w *Widget) Title() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.title
}

// SetData sets the payload of images and svgs. The slice is kept, not copied.
func (w *Widget) SetData(data []byte) *Widget {
	return w.update(func() { w.data = data })
}

// Data returns the payload.
func (w *Widget) Data() []byte {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.data
}

// SetWidth sets the preferred width; 0 means natural width.
func (w *Widget) SetWidth(width float64) *Widget {
	return w.update(func() { w.width = width })
}

// SetHeight sets the preferred height; 0 means natural height.
func (w *Widget) SetHeight(height float64) *Widget {
	return w.update(func() { w.height = height })
}

// Size returns the preferred size.
func (w *Widget) Size() (width, height float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width, w.height
}

// SetDisabled sets whether the widget accepts input.
func (w *Widget) SetDisabled(disabled bool) *Widget {
	return w.update(func() { w.disabled = disabled })
}

// Disabled reports whether the widget ignores input.
func (w *Widget) Disabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.disabled
}

// SetVisible sets whether the widget is shown.
func (w *Widget) SetVisible(visible bool) *Widget {
	return w.update(func() { w.visible = visible })
}

// Visible reports whether the widget is shown.
func (w *Widget) Visible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// SetHandler attaches cb to events of type t. A nil cb detaches it.
func (w *Widget) SetHandler(t vdom.EventType, cb vdom.Callback) *Widget {
	return w.update(func() {
		if cb == nil {
			delete(w.handlers, t)
			return
		}
		if w.handlers == nil {
			w.handlers = make(map[vdom.EventType]vdom.Callback)
		}
		w.handlers[t] = cb
	})
}

// HasHandler reports whether a handler is attached for t.
func (w *Widget) HasHandler(t vdom.EventType) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.handlers[t]
	return ok
}

// Dispatch delivers a user event to the attached handler, the way a
// backend does when the user interacts with the widget. Disabled widgets
// drop events. It reports whether a handler ran.
func (w *Widget) Dispatch(ev vdom.Event) bool {
	w.mu.RLock()
	cb, ok := w.handlers[ev.Type]
	disabled := w.disabled
	w.mu.RUnlock()
	if !ok || disabled {
		return false
	}
	cb(ev)
	return true
}

// Dirty reports whether the widget changed since the last ClearDirty.
func (w *Widget) Dirty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty
}

// ClearDirty resets the dirty flag of w and its descendants.
func (w *Widget) ClearDirty() {
	w.mu.Lock()
	w.dirty = false
	children := w.children
	w.mu.Unlock()
	for _, c := range children {
		c.ClearDirty()
	}
}
