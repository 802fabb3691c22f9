package avoid

// FindScrollAncestor walks up from v's parent toward boundary (inclusive) and
// returns the first scroll-enabled ScrollContainer it meets. It returns nil
// when no scroll container sits between v and boundary, or when v is not a
// descendant of boundary.
//
// The walk is bounded by the height of boundary's subtree, measured once up
// front, so a malformed or cyclic parent chain cannot loop forever.
func FindScrollAncestor(v, boundary View) ScrollContainer {
	if !alive(v) || !alive(boundary) {
		return nil
	}

	maxDepth := subtreeHeight(boundary)

	var found ScrollContainer
	p := v.Parent()
	for depth := 0; p != nil && depth < maxDepth; depth++ {
		if found == nil {
			if sc, ok := p.(ScrollContainer); ok && sc.IsAlive() && sc.IsScrollEnabled() {
				found = sc
			}
		}
		if p == boundary {
			return found
		}
		p = p.Parent()
	}

	// Ran off the top (or hit the depth bound) without meeting boundary
	return nil
}

// subtreeHeight returns the number of levels in root's subtree, counting
// root itself. Cycles are cut by a visited set.
func subtreeHeight(root View) int {
	type entry struct {
		v     View
		depth int
	}

	visited := map[View]struct{}{root: {}}
	stack := []entry{{root, 1}}
	height := 0

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.depth > height {
			height = e.depth
		}
		for _, c := range e.v.Children() {
			if c == nil {
				continue
			}
			if _, seen := visited[c]; seen {
				continue
			}
			visited[c] = struct{}{}
			stack = append(stack, entry{c, e.depth + 1})
		}
	}
	return height
}
