package retained

import "github.com/agiangrant/softinput/avoid"

// Node adapts a Widget to the avoid view capabilities. Nodes are values:
// two Nodes for the same widget compare equal, so they can be created on
// demand wherever a view is needed.
//
// Every Node satisfies avoid.ScrollContainer, but only enabled scroll views
// report IsScrollEnabled.
type Node struct {
	w *Widget
}

var (
	_ avoid.ScrollContainer = Node{}
	_ avoid.Container       = Node{}
)

// NodeOf returns the view for w.
func NodeOf(w *Widget) Node {
	return Node{w: w}
}

// Widget returns the adapted widget.
func (n Node) Widget() *Widget {
	return n.w
}

// Parent implements avoid.View.
func (n Node) Parent() avoid.View {
	if n.w == nil {
		return nil
	}
	p := n.w.Parent()
	if p == nil {
		return nil
	}
	return Node{w: p}
}

// Children implements avoid.View.
func (n Node) Children() []avoid.View {
	if n.w == nil {
		return nil
	}
	children := n.w.Children()
	views := make([]avoid.View, len(children))
	for i, c := range children {
		views[i] = Node{w: c}
	}
	return views
}

// Frame implements avoid.View.
func (n Node) Frame() avoid.Rect {
	if n.w == nil {
		return avoid.Rect{}
	}
	x, y, width, height := n.w.Frame()
	return avoid.Rect{X: float64(x), Y: float64(y), Width: float64(width), Height: float64(height)}
}

// SetFrame implements avoid.Container.
func (n Node) SetFrame(r avoid.Rect) {
	if n.w == nil {
		return
	}
	n.w.SetFrame(float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height))
}

// IsFirstResponder implements avoid.View. Only text inputs take the soft
// keyboard, so focused buttons and containers are not first responders.
func (n Node) IsFirstResponder() bool {
	if n.w == nil {
		return false
	}
	return n.w.IsFocused() && n.w.Kind().IsTextInput()
}

// IsAlive implements avoid.View.
func (n Node) IsAlive() bool {
	return n.w != nil && !n.w.IsDestroyed()
}

// IsScrollEnabled implements avoid.ScrollContainer.
func (n Node) IsScrollEnabled() bool {
	return n.w != nil && n.w.IsScrollable()
}

// ContentSize implements avoid.ScrollContainer.
func (n Node) ContentSize() avoid.Size {
	if n.w == nil {
		return avoid.Size{}
	}
	w, h := n.w.ContentSize()
	return avoid.Size{Width: float64(w), Height: float64(h)}
}

// ContentOffset implements avoid.ScrollContainer.
func (n Node) ContentOffset() avoid.Point {
	if n.w == nil {
		return avoid.Point{}
	}
	x, y := n.w.ScrollPosition()
	return avoid.Point{X: float64(x), Y: float64(y)}
}

// SetContentOffset implements avoid.ScrollContainer.
func (n Node) SetContentOffset(p avoid.Point) {
	if n.w == nil {
		return
	}
	n.w.SetScroll(float32(p.X), float32(p.Y))
}

// ContentInset implements avoid.ScrollContainer.
func (n Node) ContentInset() avoid.Insets {
	if n.w == nil {
		return avoid.Insets{}
	}
	return toInsets(n.w.ContentInset())
}

// SetContentInset implements avoid.ScrollContainer.
func (n Node) SetContentInset(in avoid.Insets) {
	if n.w == nil {
		return
	}
	n.w.SetContentInset(fromInsets(in))
}

// ScrollIndicatorInsets implements avoid.ScrollContainer.
func (n Node) ScrollIndicatorInsets() avoid.Insets {
	if n.w == nil {
		return avoid.Insets{}
	}
	return toInsets(n.w.ScrollIndicatorInsets())
}

// SetScrollIndicatorInsets implements avoid.ScrollContainer.
func (n Node) SetScrollIndicatorInsets(in avoid.Insets) {
	if n.w == nil {
		return
	}
	n.w.SetScrollIndicatorInsets(fromInsets(in))
}

func toInsets(e EdgeInsets) avoid.Insets {
	return avoid.Insets{
		Top:    float64(e.Top),
		Left:   float64(e.Left),
		Bottom: float64(e.Bottom),
		Right:  float64(e.Right),
	}
}

func fromInsets(in avoid.Insets) EdgeInsets {
	return EdgeInsets{
		Top:    float32(in.Top),
		Right:  float32(in.Right),
		Bottom: float32(in.Bottom),
		Left:   float32(in.Left),
	}
}
