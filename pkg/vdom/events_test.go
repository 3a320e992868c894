package vdom

import "testing"

func TestEventHandlers(t *testing.T) {
	handler := func(Event) {}

	tests := []struct {
		name string
		attr Attr
		want AttrKey
	}{
		{"OnClick", OnClick(handler), AttrKeyOnClick},
		{"OnInput", OnInput(handler), AttrKeyOnInput},
		{"OnChange", OnChange(handler), AttrKeyOnChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.want {
				t.Errorf("Key = %v, want %v", tt.attr.Key, tt.want)
			}
			if !tt.attr.IsCallback() {
				t.Error("expected callback value")
			}
			if !tt.want.IsEvent() {
				t.Errorf("%v.IsEvent() = false", tt.want)
			}
		})
	}
}

func TestNilHandlerIsEmpty(t *testing.T) {
	if a := OnClick(nil); !a.IsEmpty() {
		t.Errorf("OnClick(nil) = %v, want empty attr", a)
	}
}

func TestCallbackReceivesEvent(t *testing.T) {
	var got Event
	node := TextInput(OnInput(func(e Event) { got = e }))

	cb, ok := FindCallback(node.Attrs, AttrKeyOnInput)
	if !ok {
		t.Fatal("oninput callback missing")
	}
	cb(Event{Type: EventInput, Value: "typed"})

	if got.Type != EventInput || got.Value != "typed" {
		t.Errorf("callback got %+v", got)
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventClick, "click"},
		{EventInput, "input"},
		{EventChange, "change"},
		{EventType(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
