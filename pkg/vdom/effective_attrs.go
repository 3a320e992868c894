package vdom

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// FindAttr returns the effective attribute for key. When a node lists the
// same key more than once, the last occurrence wins.
func FindAttr(attrs []Attr, key AttrKey) (Attr, bool) {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i], true
		}
	}
	return Attr{}, false
}

// FindValue returns the effective literal value for key.
// Callbacks are not values and are reported as absent.
func FindValue(attrs []Attr, key AttrKey) (any, bool) {
	a, ok := FindAttr(attrs, key)
	if !ok || a.IsCallback() || a.Value == nil {
		return nil, false
	}
	return a.Value, true
}

// FindCallback returns the effective callback for key.
func FindCallback(attrs []Attr, key AttrKey) (Callback, bool) {
	a, ok := FindAttr(attrs, key)
	if !ok {
		return nil, false
	}
	cb, ok := a.Value.(Callback)
	return cb, ok && cb != nil
}

// EffectiveAttrs collapses duplicate keys. The result keeps the order in
// which keys first appear, each carrying its last value.
func EffectiveAttrs(attrs []Attr) []Attr {
	if len(attrs) < 2 {
		return attrs
	}
	pos := make(map[AttrKey]int, len(attrs))
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		if i, seen := pos[a.Key]; seen {
			out[i] = a
			continue
		}
		pos[a.Key] = len(out)
		out = append(out, a)
	}
	return out
}

// ValueString formats a literal value the way toolkits display it.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ValueFloat converts numeric values (and numeric strings) to float64.
func ValueFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}

// ValueBool converts bools (and "true"/"false" strings) to bool.
func ValueBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(val)
		return b, err == nil
	}
	return false, false
}

// ValueBytes returns byte payloads; strings are converted.
func ValueBytes(v any) ([]byte, bool) {
	switch val := v.(type) {
	case []byte:
		return val, true
	case string:
		return []byte(val), true
	}
	return nil, false
}

// valuesEqual compares two attribute values for equality.
// Callbacks compare equal to any other callback: only their presence is diffed.
func valuesEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv || (math.IsNaN(av) && math.IsNaN(bv))
		}
		return false
	case float32:
		if bv, ok := b.(float32); ok {
			return av == bv || (av != av && bv != bv)
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case []byte:
		if bv, ok := b.([]byte); ok {
			return bytes.Equal(av, bv)
		}
		return false
	case Callback:
		return isFunc(b)
	case nil:
		return b == nil
	}
	// Plain funcs are handlers too; like Callback only presence counts.
	if isFunc(a) || isFunc(b) {
		return isFunc(a) && isFunc(b)
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}

// isFunc reports whether v holds a non-nil function.
func isFunc(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}
