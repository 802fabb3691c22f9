package avoid

import "math"

// maxConvertDepth caps parent walks during coordinate conversion.
const maxConvertDepth = 4096

// ConvertRect converts v's frame into root's coordinate space by summing
// frame origins up the parent chain and subtracting the content offset of
// every scroll container crossed. The second result is false when v is not
// attached under root.
func ConvertRect(v, root View) (Rect, bool) {
	if !alive(v) || !alive(root) {
		return Rect{}, false
	}

	r := v.Frame()
	if v == root {
		return Rect{Width: r.Width, Height: r.Height}, true
	}

	p := v.Parent()
	for depth := 0; p != nil && depth < maxConvertDepth; depth++ {
		if !p.IsAlive() {
			return Rect{}, false
		}
		if sc, ok := p.(ScrollContainer); ok {
			off := sc.ContentOffset()
			r.X -= off.X
			r.Y -= off.Y
		}
		if p == root {
			return r, true
		}
		f := p.Frame()
		r.X += f.X
		r.Y += f.Y
		p = p.Parent()
	}
	return Rect{}, false
}

// ComputeOffset returns how far the focused view's bottom edge extends below
// the top of a panel of height panelHeight anchored to the bottom of root.
// It returns (0, true) when there is no overlap.
//
// The second result is false when the transition should be aborted: a view
// is missing or dead, the focused frame is degenerate, the focused view or
// the container is not attached under root, or the panel height is not a
// finite non-negative number.
func ComputeOffset(panelHeight float64, focused View, container Container, root View) (float64, bool) {
	if math.IsNaN(panelHeight) || math.IsInf(panelHeight, 0) || panelHeight < 0 {
		return 0, false
	}
	if !alive(focused) || !alive(container) || !alive(root) {
		return 0, false
	}
	if focused.Frame().IsDegenerate() {
		return 0, false
	}

	rootFrame := root.Frame()
	if rootFrame.IsDegenerate() {
		return 0, false
	}

	if _, ok := ConvertRect(container, root); !ok {
		return 0, false
	}
	r, ok := ConvertRect(focused, root)
	if !ok {
		return 0, false
	}

	panelTop := rootFrame.Height - panelHeight
	overlap := r.Bottom() - panelTop
	if overlap <= 0 {
		return 0, true
	}
	return overlap, true
}
