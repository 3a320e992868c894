package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to child nodes. Nil results are dropped.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Clone returns a deep copy of the tree. Attribute values are shared.
func Clone(node *VNode) *VNode {
	if node == nil {
		return nil
	}
	c := &VNode{
		Kind: node.Kind,
		Tag:  node.Tag,
		Text: node.Text,
	}
	if node.Attrs != nil {
		c.Attrs = append([]Attr(nil), node.Attrs...)
	}
	if node.Children != nil {
		c.Children = make([]*VNode, len(node.Children))
		for i, child := range node.Children {
			c.Children[i] = Clone(child)
		}
	}
	return c
}
