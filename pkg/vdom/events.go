package vdom

// EventType identifies what happened on a native widget.
type EventType uint8

const (
	EventClick EventType = iota + 1
	EventInput
	EventChange
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventClick:
		return "click"
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	default:
		return "unknown"
	}
}

// Event is the toolkit-neutral payload handed to callbacks. Toolkit bindings
// translate their native input events into it.
type Event struct {
	Type    EventType
	Value   string // Current text for input/change
	Checked bool   // Current state for checkbox/radio change
	X, Y    int    // Pointer position for clicks, when known
}

// Callback is an event handler attached to an element. The engine copies
// callbacks into built widgets and never invokes them itself.
type Callback func(Event)

// event creates a callback attribute for the given key.
func event(key AttrKey, handler func(Event)) Attr {
	if handler == nil {
		return Attr{}
	}
	return attr(key, Callback(handler))
}

// OnClick handles click events.
func OnClick(handler func(Event)) Attr { return event(AttrKeyOnClick, handler) }

// OnInput handles input events (fired on every edit).
func OnInput(handler func(Event)) Attr { return event(AttrKeyOnInput, handler) }

// OnChange handles change events (fired when a value is committed).
func OnChange(handler func(Event)) Attr { return event(AttrKeyOnChange, handler) }
