package vdom

// Node indices are assigned by a pre-order, depth-first walk: the root is 0
// and every node, element or text, takes the next value before its children
// are visited. The native side re-derives the same numbering over widgets,
// so the two trees agree on which node an index names.

// Count returns the number of index slots the subtree occupies.
func Count(node *VNode) int {
	if node == nil {
		return 0
	}
	n := 1
	for _, child := range node.Children {
		n += Count(child)
	}
	return n
}

// Walk visits every node in index order. Returning false from fn stops the
// descent into that node's children; the skipped nodes still consume their
// indices so later nodes keep their numbers.
func Walk(root *VNode, fn func(node *VNode, index int) bool) {
	walk(root, 0, fn)
}

func walk(node *VNode, index int, fn func(*VNode, int) bool) int {
	if node == nil {
		return index
	}
	next := index + 1
	if !fn(node, index) {
		return index + Count(node)
	}
	for _, child := range node.Children {
		next = walk(child, next, fn)
	}
	return next
}

// Index returns a table from index to node for the whole tree.
func Index(root *VNode) map[int]*VNode {
	table := make(map[int]*VNode)
	Walk(root, func(node *VNode, index int) bool {
		table[index] = node
		return true
	})
	return table
}

// NodeAt returns the node with the given index, or nil.
func NodeAt(root *VNode, index int) *VNode {
	return nodeAt(root, 0, index)
}

func nodeAt(node *VNode, at, index int) *VNode {
	if node == nil || index < at {
		return nil
	}
	if at == index {
		return node
	}
	next := at + 1
	for _, child := range node.Children {
		n := Count(child)
		if index < next+n {
			return nodeAt(child, next, index)
		}
		next += n
	}
	return nil
}

// childIndices returns the index of each non-nil child of a node that sits
// at index.
func childIndices(node *VNode, index int) []int {
	out := make([]int, 0, len(node.Children))
	next := index + 1
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		out = append(out, next)
		next += Count(child)
	}
	return out
}
