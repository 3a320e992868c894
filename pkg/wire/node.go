package wire

import (
	"fmt"

	"github.com/vango-dev/native/pkg/vdom"
)

// Value type markers.
const (
	valueNil      byte = 0x00
	valueString   byte = 0x01
	valueFloat    byte = 0x02
	valueBool     byte = 0x03
	valueBytes    byte = 0x04
	valueCallback byte = 0x05
	valueInt      byte = 0x06
)

const nullNode = 0xFF

// EncodeNode writes node and its subtree. A nil node is written as a null
// marker.
func EncodeNode(e *Encoder, node *vdom.VNode) {
	if node == nil {
		e.WriteByte(nullNode)
		return
	}
	e.WriteByte(byte(node.Kind))
	if node.Kind == vdom.KindText {
		e.WriteString(node.Text)
		return
	}
	e.WriteByte(byte(node.Tag))
	encodeAttrs(e, node.Attrs)
	n := 0
	for _, child := range node.Children {
		if child != nil {
			n++
		}
	}
	e.WriteUvarint(uint64(n))
	for _, child := range node.Children {
		if child != nil {
			EncodeNode(e, child)
		}
	}
}

func encodeAttrs(e *Encoder, attrs []vdom.Attr) {
	n := 0
	for _, a := range attrs {
		if !a.IsEmpty() {
			n++
		}
	}
	e.WriteUvarint(uint64(n))
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		e.WriteByte(byte(a.Key))
		encodeValue(e, a.Value)
	}
}

func encodeValue(e *Encoder, v any) {
	switch val := v.(type) {
	case nil:
		e.WriteByte(valueNil)
	case string:
		e.WriteByte(valueString)
		e.WriteString(val)
	case float64:
		e.WriteByte(valueFloat)
		e.WriteFloat64(val)
	case float32:
		e.WriteByte(valueFloat)
		e.WriteFloat64(float64(val))
	case bool:
		e.WriteByte(valueBool)
		e.WriteBool(val)
	case []byte:
		e.WriteByte(valueBytes)
		e.WriteLenBytes(val)
	case vdom.Callback:
		e.WriteByte(valueCallback)
	case int:
		e.WriteByte(valueInt)
		e.WriteSvarint(int64(val))
	case int64:
		e.WriteByte(valueInt)
		e.WriteSvarint(val)
	case int32:
		e.WriteByte(valueInt)
		e.WriteSvarint(int64(val))
	default:
		e.WriteByte(valueString)
		e.WriteString(vdom.ValueString(v))
	}
}

// DecodeNode reads a node written by EncodeNode.
func DecodeNode(d *Decoder, opts ...Option) (*vdom.VNode, error) {
	return newReader(opts).node(d, 0)
}

// CallbackFunc returns the callback to bind for an event attribute.
type CallbackFunc func(key vdom.AttrKey) vdom.Callback

// Option configures decoding.
type Option func(*reader)

// WithCallbacks binds decoded event attributes through fn. Without it every
// event attribute decodes to a callback that does nothing.
func WithCallbacks(fn CallbackFunc) Option {
	return func(r *reader) { r.callback = fn }
}

// WithMaxDepth lowers the node nesting limit. Values above MaxNodeDepth are
// capped.
func WithMaxDepth(depth int) Option {
	return func(r *reader) { r.maxDepth = min(depth, MaxNodeDepth) }
}

type reader struct {
	callback CallbackFunc
	maxDepth int
}

func newReader(opts []Option) *reader {
	r := &reader{
		callback: func(vdom.AttrKey) vdom.Callback { return func(vdom.Event) {} },
		maxDepth: MaxNodeDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *reader) node(d *Decoder, depth int) (*vdom.VNode, error) {
	if depth > r.maxDepth {
		return nil, ErrMaxDepthExceeded
	}
	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch vdom.VKind(kind) {
	case vdom.KindText:
		text, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return vdom.Text(text), nil
	case vdom.KindElement:
	default:
		if kind == nullNode {
			return nil, nil
		}
		return nil, fmt.Errorf("wire: unknown node kind 0x%02x", kind)
	}

	tagByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	tag := vdom.Tag(tagByte)
	if _, ok := vdom.ParseTag(tag.String()); !ok {
		return nil, fmt.Errorf("wire: unknown tag 0x%02x", tagByte)
	}
	node := vdom.Element(tag)
	if node.Attrs, err = r.attrs(d, true); err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if count > 0 && tag.IsVoid() {
		return nil, fmt.Errorf("wire: %s takes no children", tag)
	}
	for i := 0; i < count; i++ {
		child, err := r.node(d, depth+1)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, fmt.Errorf("wire: %s child %d is null", tag, i)
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// attrs reads an attribute list. Without values only the keys are present,
// as in RemoveAttributes.
func (r *reader) attrs(d *Decoder, values bool) ([]vdom.Attr, error) {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	attrs := make([]vdom.Attr, 0, count)
	for i := 0; i < count; i++ {
		b, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		key := vdom.AttrKey(b)
		if _, ok := vdom.ParseAttrKey(key.String()); !ok {
			return nil, fmt.Errorf("wire: unknown attribute 0x%02x", b)
		}
		a := vdom.Attr{Key: key}
		if values {
			if a.Value, err = r.value(d, key); err != nil {
				return nil, fmt.Errorf("wire: %s: %w", key, err)
			}
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func (r *reader) value(d *Decoder, key vdom.AttrKey) (any, error) {
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch t {
	case valueNil:
		return nil, nil
	case valueString:
		return d.ReadString()
	case valueFloat:
		return d.ReadFloat64()
	case valueBool:
		return d.ReadBool()
	case valueBytes:
		return d.ReadLenBytes()
	case valueCallback:
		return r.callback(key), nil
	case valueInt:
		v, err := d.ReadSvarint()
		return int(v), err
	default:
		return nil, fmt.Errorf("unknown value type 0x%02x", t)
	}
}
