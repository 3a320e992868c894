package native

// IndexWidgets walks the native tree under host once and returns the
// widgets carrying the wanted indices. The host itself takes no slot: its
// first structural descendant is index 0.
//
// Only structural widgets advance the counter, so the numbering matches
// vdom.Index over the virtual tree the native tree was built from.
func IndexWidgets(tk Toolkit, host Widget, want []int) map[int]Widget {
	found := make(map[int]Widget, len(want))
	if len(want) == 0 {
		return found
	}
	need := make(map[int]struct{}, len(want))
	for _, i := range want {
		need[i] = struct{}{}
	}

	next := 0
	var visit func(w Widget) bool
	visit = func(w Widget) bool {
		if tk.Structural(w) {
			if _, ok := need[next]; ok {
				found[next] = w
				if len(found) == len(need) {
					return false
				}
			}
			next++
		}
		for _, child := range tk.Children(w) {
			if !visit(child) {
				return false
			}
		}
		return true
	}

	for _, child := range tk.Children(host) {
		if !visit(child) {
			break
		}
	}
	return found
}

// CountWidgets returns the number of structural widgets in the subtree
// rooted at w, w included.
func CountWidgets(tk Toolkit, w Widget) int {
	if w == nil {
		return 0
	}
	n := 0
	if tk.Structural(w) {
		n = 1
	}
	for _, child := range tk.Children(w) {
		n += CountWidgets(tk, child)
	}
	return n
}
