package avoid

// FindFocused returns the first view under root (root included) that reports
// itself as the first responder, searching depth-first in child order.
// Returns nil when nothing in the subtree holds focus.
//
// Child lists are copied onto the traversal stack before descending, so the
// host may mutate the tree while the search runs. A visited set keeps
// aliased or cyclic hierarchies from looping. Views that are no longer alive
// are skipped along with their subtrees.
func FindFocused(root View) View {
	if !alive(root) {
		return nil
	}

	sp := acquireViewStack()
	defer releaseViewStack(sp)

	visited := make(map[View]struct{})
	stack := append(*sp, root)

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]

		if _, seen := visited[v]; seen {
			continue
		}
		visited[v] = struct{}{}

		if !alive(v) {
			continue
		}
		if v.IsFirstResponder() {
			*sp = stack
			return v
		}

		// Push in reverse so the first child is visited first
		children := v.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if c := children[i]; c != nil {
				stack = append(stack, c)
			}
		}
	}

	*sp = stack
	return nil
}
