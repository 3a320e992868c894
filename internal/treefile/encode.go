package treefile

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/native/pkg/vdom"
)

// Encode writes trees as YAML documents, one per tree. Callbacks become
// true; binary data is written as !!binary.
func Encode(trees ...*vdom.VNode) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, tree := range trees {
		if err := enc.Encode(toYAML(tree)); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func str(value string) *yaml.Node { return scalar("!!str", value) }

func toYAML(v *vdom.VNode) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	if v == nil {
		return m
	}
	if v.IsText() {
		m.Content = append(m.Content, str("text"), str(v.Text))
		return m
	}

	m.Content = append(m.Content, str("tag"), str(v.Tag.String()))
	if len(v.Attrs) > 0 {
		attrs := &yaml.Node{Kind: yaml.MappingNode}
		for _, a := range v.Attrs {
			if a.IsEmpty() {
				continue
			}
			attrs.Content = append(attrs.Content, str(a.Key.String()), attrValue(a))
		}
		m.Content = append(m.Content, str("attrs"), attrs)
	}
	children := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range v.Children {
		if c != nil {
			children.Content = append(children.Content, toYAML(c))
		}
	}
	if len(children.Content) > 0 {
		m.Content = append(m.Content, str("children"), children)
	}
	return m
}

func attrValue(a vdom.Attr) *yaml.Node {
	if a.IsCallback() {
		return scalar("!!bool", "true")
	}
	switch val := a.Value.(type) {
	case bool:
		return scalar("!!bool", strconv.FormatBool(val))
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return scalar("!!int", strconv.FormatFloat(val, 'f', -1, 64))
		}
		return scalar("!!float", strconv.FormatFloat(val, 'g', -1, 64))
	case []byte:
		if utf8.Valid(val) && !bytes.HasPrefix(val, []byte("@")) {
			return str(string(val))
		}
		return scalar("!!binary", base64.StdEncoding.EncodeToString(val))
	case nil:
		return scalar("!!null", "null")
	default:
		return str(vdom.ValueString(val))
	}
}
