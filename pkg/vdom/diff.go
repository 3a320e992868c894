package vdom

// Diff compares two VNode trees and returns the patches needed to transform
// prev into next.
//
// Every patch addresses its target by the node's index in prev, which is
// also the index of the matching widget in a native tree built from prev.
// Patches come out in index order and must be applied in that order.
//
// A nil root on either side yields no patches: mounting and unmounting a
// whole tree is the caller's job, since there is no native node to address.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	if prev == nil || next == nil {
		return patches
	}
	diffNode(prev, next, 0, &patches)
	return patches
}

// diffNode compares a matched pair whose old node sits at index and returns
// the index that follows the old subtree.
func diffNode(prev, next *VNode, index int, patches *[]Patch) int {
	// Different kind or tag - replace, skipping the old descendants
	if !Compatible(prev, next) {
		*patches = append(*patches, Replace(index, next))
		return index + Count(prev)
	}

	if prev.Kind == KindText {
		if prev.Text != next.Text {
			*patches = append(*patches, Replace(index, next))
		}
		return index + 1
	}

	diffAttrs(prev, next, index, patches)
	return diffChildren(prev, next, index, patches)
}

// diffAttrs compares attributes by key. Keys are never patched, and
// callbacks only produce patches when they appear or disappear.
func diffAttrs(prev, next *VNode, index int, patches *[]Patch) {
	prevAttrs := EffectiveAttrs(prev.Attrs)
	nextAttrs := EffectiveAttrs(next.Attrs)

	var added []Attr
	for _, a := range nextAttrs {
		if a.Key == AttrKeyKey {
			continue
		}
		old, exists := FindAttr(prevAttrs, a.Key)
		if !exists || !valuesEqual(old.Value, a.Value) {
			added = append(added, a)
		}
	}

	var removed []Attr
	for _, a := range prevAttrs {
		if a.Key == AttrKeyKey {
			continue
		}
		if _, exists := FindAttr(nextAttrs, a.Key); !exists {
			removed = append(removed, Attr{Key: a.Key})
		}
	}

	if len(added) > 0 {
		*patches = append(*patches, AddAttributes(prev.Tag, index, added))
	}
	if len(removed) > 0 {
		*patches = append(*patches, RemoveAttributes(prev.Tag, index, removed))
	}
}

// diffChildren emits the structural patches for the children of prev and
// then recurses into every matched pair. It returns the index following
// prev's subtree. Nil children take no index and build no widget, so they
// are dropped before matching.
//
// Children paired with the old child at the same position form a stable
// prefix that stays in place. Everything after the prefix is truncated and
// re-appended in the new order; paired children in that tail carry their old
// position in Reuse so the applicator re-attaches the existing widget
// instead of building a new one.
func diffChildren(prev, next *VNode, index int, patches *[]Patch) int {
	prevChildren := present(prev.Children)
	nextChildren := present(next.Children)
	indices := childIndices(prev, index)
	end := index + Count(prev)

	pairs := matchChildren(prevChildren, nextChildren)

	keep := 0
	for keep < len(nextChildren) && keep < len(prevChildren) && pairs[keep] == keep {
		keep++
	}

	if keep < len(prevChildren) {
		*patches = append(*patches, TruncateChildren(prev.Tag, index, keep))
	}
	if keep < len(nextChildren) {
		p := AppendChildren(prev.Tag, index, nextChildren[keep:])
		copy(p.Reuse, pairs[keep:])
		*patches = append(*patches, p)
	}

	// Recurse in old order so nested patches stay in index order.
	byPrev := make([]int, len(prevChildren))
	for i := range byPrev {
		byPrev[i] = -1
	}
	for j, i := range pairs {
		if i >= 0 {
			byPrev[i] = j
		}
	}
	for i, j := range byPrev {
		if j >= 0 {
			diffNode(prevChildren[i], nextChildren[j], indices[i], patches)
		}
	}

	return end
}

// matchChildren pairs new children with old ones and returns, for each new
// child, the position of its old partner or -1.
//
// Children that carry a key on both sides pair by key regardless of
// position; for a key listed twice the first unmatched old child wins.
// Children without a key pair positionally among the remaining unkeyed
// children, in original order. A keyed child whose key is missing on the
// other side stays unmatched.
func matchChildren(prev, next []*VNode) []int {
	pairs := make([]int, len(next))
	for i := range pairs {
		pairs[i] = -1
	}
	if !hasKeys(prev) && !hasKeys(next) {
		for i := 0; i < len(next) && i < len(prev); i++ {
			pairs[i] = i
		}
		return pairs
	}

	used := make([]bool, len(prev))
	byKey := make(map[string][]int)
	for i, child := range prev {
		if key := child.Key(); key != "" {
			byKey[key] = append(byKey[key], i)
		}
	}
	for j, child := range next {
		key := child.Key()
		if key == "" {
			continue
		}
		if candidates := byKey[key]; len(candidates) > 0 {
			pairs[j] = candidates[0]
			used[candidates[0]] = true
			byKey[key] = candidates[1:]
		}
	}

	// Positional fallback for unkeyed children
	i := 0
	for j, child := range next {
		if pairs[j] >= 0 || child.Key() != "" {
			continue
		}
		for i < len(prev) && (used[i] || prev[i].Key() != "") {
			i++
		}
		if i == len(prev) {
			break
		}
		pairs[j] = i
		used[i] = true
		i++
	}
	return pairs
}

// hasKeys returns true if any child has a key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if child.Key() != "" {
			return true
		}
	}
	return false
}

// present returns children without nil entries, reusing the slice when
// there are none.
func present(children []*VNode) []*VNode {
	for i, child := range children {
		if child == nil {
			out := append([]*VNode(nil), children[:i]...)
			for _, c := range children[i+1:] {
				if c != nil {
					out = append(out, c)
				}
			}
			return out
		}
	}
	return children
}
