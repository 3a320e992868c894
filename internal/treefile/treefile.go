// Package treefile reads and writes virtual trees as YAML fixtures.
//
// A node is a mapping with either a text key (a text leaf) or a tag key (an
// element) plus optional attrs and children:
//
//	tag: column
//	children:
//	  - tag: button
//	    attrs:
//	      key: save
//	      label: Save
//	      onclick: true
//	  - tag: image
//	    attrs:
//	      data: "@logo.png"
//	      width: 8
//	  - text: ready
//
// Attribute order is kept. A data value starting with @ names a file read
// relative to the fixture; !!binary values are base64; any other string is
// used as is. Callback attributes take true and are bound to the decoder's
// callback factory. A file may hold several documents, one tree each.
package treefile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/native/internal/errors"
	"github.com/vango-dev/native/pkg/vdom"
)

// CallbackFunc returns the handler attached for a callback attribute.
type CallbackFunc func(key vdom.AttrKey) vdom.Callback

type decoder struct {
	path     string
	dir      string
	callback CallbackFunc
}

// Option configures decoding.
type Option func(*decoder)

// WithCallbacks sets the factory for callback attributes. The default
// attaches a handler that does nothing.
func WithCallbacks(fn CallbackFunc) Option {
	return func(d *decoder) { d.callback = fn }
}

// WithBaseDir resolves @file data relative to dir.
func WithBaseDir(dir string) Option {
	return func(d *decoder) { d.dir = dir }
}

func newDecoder(path string, opts []Option) *decoder {
	d := &decoder{
		path:     path,
		dir:      filepath.Dir(path),
		callback: func(vdom.AttrKey) vdom.Callback { return func(vdom.Event) {} },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load reads the first tree in the file at path.
func Load(path string, opts ...Option) (*vdom.VNode, error) {
	trees, err := LoadAll(path, opts...)
	if err != nil {
		return nil, err
	}
	return trees[0], nil
}

// LoadAll reads every tree in the file at path.
func LoadAll(path string, opts ...Option) ([]*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("V061").WithDetail("Cannot read " + path).Wrap(err)
	}
	return newDecoder(path, opts).decodeAll(data)
}

// Decode parses the first tree in data. @file data resolves against the
// working directory unless WithBaseDir is given.
func Decode(data []byte, opts ...Option) (*vdom.VNode, error) {
	trees, err := DecodeAll(data, opts...)
	if err != nil {
		return nil, err
	}
	return trees[0], nil
}

// DecodeAll parses every tree in data.
func DecodeAll(data []byte, opts ...Option) ([]*vdom.VNode, error) {
	return newDecoder("", opts).decodeAll(data)
}

func (d *decoder) decodeAll(data []byte) ([]*vdom.VNode, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var trees []*vdom.VNode
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New("V001").Wrap(err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		node, err := d.node(doc.Content[0])
		if err != nil {
			return nil, err
		}
		trees = append(trees, node)
	}
	if len(trees) == 0 {
		return nil, errors.New("V001").WithDetail("The fixture holds no tree.")
	}
	return trees, nil
}

// fail builds a fixture error pointing at n.
func (d *decoder) fail(code string, n *yaml.Node, format string, args ...any) *errors.Error {
	e := errors.New(code).Wrap(fmt.Errorf(format, args...))
	if d.path != "" {
		e.WithLocation(d.path, n.Line, n.Column)
	} else {
		e.Location = &errors.Location{File: "<input>", Line: n.Line, Column: n.Column}
	}
	return e
}

func (d *decoder) node(n *yaml.Node) (*vdom.VNode, error) {
	if n.Kind == yaml.ScalarNode {
		return vdom.Text(n.Value), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.fail("V001", n, "a node must be a mapping or a string")
	}

	var (
		tagNode, textNode, attrsNode, childrenNode *yaml.Node
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "tag":
			tagNode = v
		case "text":
			textNode = v
		case "attrs":
			attrsNode = v
		case "children":
			childrenNode = v
		default:
			return nil, d.fail("V001", k, "unknown node field %q", k.Value)
		}
	}

	if textNode != nil {
		if tagNode != nil || attrsNode != nil || childrenNode != nil {
			return nil, d.fail("V001", textNode, "a text node takes no tag, attrs or children")
		}
		return vdom.Text(textNode.Value), nil
	}
	if tagNode == nil {
		return nil, d.fail("V001", n, "node has neither tag nor text")
	}

	tag, ok := vdom.ParseTag(tagNode.Value)
	if !ok {
		return nil, d.fail("V002", tagNode, "unknown tag %q", tagNode.Value).
			WithSuggestion("Use one of: " + tagNames())
	}
	node := vdom.Element(tag)

	if attrsNode != nil {
		if attrsNode.Kind != yaml.MappingNode {
			return nil, d.fail("V001", attrsNode, "attrs must be a mapping")
		}
		for i := 0; i+1 < len(attrsNode.Content); i += 2 {
			a, err := d.attr(attrsNode.Content[i], attrsNode.Content[i+1])
			if err != nil {
				return nil, err
			}
			if !a.IsEmpty() {
				node.Attrs = append(node.Attrs, a)
			}
		}
	}

	if childrenNode != nil {
		if childrenNode.Kind != yaml.SequenceNode {
			return nil, d.fail("V001", childrenNode, "children must be a sequence")
		}
		if tag.IsVoid() && len(childrenNode.Content) > 0 {
			return nil, d.fail("V001", childrenNode, "%s takes no children", tag)
		}
		for _, c := range childrenNode.Content {
			child, err := d.node(c)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func (d *decoder) attr(k, v *yaml.Node) (vdom.Attr, error) {
	key, ok := vdom.ParseAttrKey(k.Value)
	if !ok {
		return vdom.Attr{}, d.fail("V003", k, "unknown attribute %q", k.Value)
	}
	if v.Kind != yaml.ScalarNode {
		return vdom.Attr{}, d.fail("V004", v, "%s must be a scalar", key)
	}

	if key.IsEvent() {
		var on bool
		if err := v.Decode(&on); err != nil {
			return vdom.Attr{}, d.fail("V004", v, "%s takes true or false", key)
		}
		if !on {
			return vdom.Attr{}, nil
		}
		return vdom.Attr{Key: key, Value: d.callback(key)}, nil
	}

	switch key {
	case vdom.AttrKeyWidth, vdom.AttrKeyHeight:
		var f float64
		if err := v.Decode(&f); err != nil {
			return vdom.Attr{}, d.fail("V004", v, "%s must be a number", key)
		}
		return vdom.Attr{Key: key, Value: f}, nil
	case vdom.AttrKeyDisabled:
		var b bool
		if err := v.Decode(&b); err != nil {
			return vdom.Attr{}, d.fail("V004", v, "%s must be true or false", key)
		}
		return vdom.Disabled(b), nil
	case vdom.AttrKeyValue:
		if v.Tag == "!!bool" {
			var b bool
			if err := v.Decode(&b); err != nil {
				return vdom.Attr{}, d.fail("V004", v, "value: %v", err)
			}
			return vdom.Checked(b), nil
		}
		return vdom.Value(v.Value), nil
	case vdom.AttrKeyData:
		data, err := d.data(v)
		if err != nil {
			return vdom.Attr{}, d.fail("V004", v, "data: %v", err)
		}
		return vdom.Data(data), nil
	default:
		return vdom.Attr{Key: key, Value: v.Value}, nil
	}
}

func (d *decoder) data(v *yaml.Node) ([]byte, error) {
	if v.Tag == "!!binary" {
		return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(v.Value), ""))
	}
	if name, ok := strings.CutPrefix(v.Value, "@"); ok {
		if !filepath.IsAbs(name) {
			name = filepath.Join(d.dir, name)
		}
		return os.ReadFile(name)
	}
	return []byte(v.Value), nil
}

func tagNames() string {
	var names []string
	for tag := vdom.TagColumn; tag <= vdom.TagSvg; tag++ {
		names = append(names, tag.String())
	}
	return strings.Join(names, ", ")
}
