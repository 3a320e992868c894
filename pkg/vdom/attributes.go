package vdom

// AttrKey identifies an attribute. The set is closed.
type AttrKey uint8

const (
	AttrKeyNone AttrKey = iota
	AttrKeyKey          // Reconciliation key, never patched
	AttrKeyLabel
	AttrKeyValue
	AttrKeyData // Opaque byte payload (image, svg)
	AttrKeyWidth
	AttrKeyHeight
	AttrKeyTitle
	AttrKeyDisabled
	AttrKeyOnClick
	AttrKeyOnInput
	AttrKeyOnChange
)

var attrKeyNames = [...]string{
	AttrKeyNone:     "",
	AttrKeyKey:      "key",
	AttrKeyLabel:    "label",
	AttrKeyValue:    "value",
	AttrKeyData:     "data",
	AttrKeyWidth:    "width",
	AttrKeyHeight:   "height",
	AttrKeyTitle:    "title",
	AttrKeyDisabled: "disabled",
	AttrKeyOnClick:  "onclick",
	AttrKeyOnInput:  "oninput",
	AttrKeyOnChange: "onchange",
}

// String returns the attribute name.
func (k AttrKey) String() string {
	if int(k) < len(attrKeyNames) {
		return attrKeyNames[k]
	}
	return "unknown"
}

// ParseAttrKey looks an attribute key up by name.
func ParseAttrKey(name string) (AttrKey, bool) {
	if name == "" {
		return AttrKeyNone, false
	}
	for i, n := range attrKeyNames {
		if n == name {
			return AttrKey(i), true
		}
	}
	return AttrKeyNone, false
}

// IsEvent returns true for callback keys.
func (k AttrKey) IsEvent() bool {
	return k == AttrKeyOnClick || k == AttrKeyOnInput || k == AttrKeyOnChange
}

// attr creates an Attr with the given key and value.
func attr(key AttrKey, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// Key sets the reconciliation key used for keyed child matching.
func Key(key string) Attr { return attr(AttrKeyKey, key) }

// Content attributes

// Label sets the visible label of buttons, checkboxes and radios.
func Label(label string) Attr { return attr(AttrKeyLabel, label) }

// Value sets the value of inputs. Checkboxes and radios take a bool.
func Value(value any) Attr { return attr(AttrKeyValue, value) }

// Checked is Value(bool) for checkboxes and radios.
func Checked(checked bool) Attr { return attr(AttrKeyValue, checked) }

// Data sets a binary payload, such as encoded image bytes or svg source.
// The payload is passed to the toolkit untouched.
func Data(data []byte) Attr { return attr(AttrKeyData, data) }

// Title sets the title of blocks and panes.
func Title(title string) Attr { return attr(AttrKeyTitle, title) }

// Disabled marks an input as not interactive.
func Disabled(disabled bool) Attr { return attr(AttrKeyDisabled, disabled) }

// Size attributes

// Width sets the preferred width in toolkit units.
func Width(width float64) Attr { return attr(AttrKeyWidth, width) }

// Height sets the preferred height in toolkit units.
func Height(height float64) Attr { return attr(AttrKeyHeight, height) }

// Size sets both width and height.
func Size(width, height float64) []Attr {
	return []Attr{Width(width), Height(height)}
}
