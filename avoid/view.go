// Package avoid keeps the focused text input visible while a soft input
// panel (on-screen keyboard) is on screen.
//
// The package works against an opaque view hierarchy described by the View,
// ScrollContainer and Container capabilities. It never owns the views it is
// handed: every reference is advisory and is re-checked with IsAlive before
// it is read or mutated.
//
// The moving parts, leaf first:
//   - FindFocused locates the first responder under a root view
//   - FindScrollAncestor locates the nearest scroll container above a view
//   - ComputeOffset measures how far the panel overlaps the focused view
//   - Controller runs the Idle/SlidingUp/Shown/SlidingDown state machine
//   - Bridge turns platform keyboard notifications into Show/Hide calls
package avoid

import "math"

// Point is a location in some view's coordinate space.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is an origin and size. Frames are expressed in the parent's
// coordinate space.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Bottom returns the Y coordinate of the rect's bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// IsDegenerate reports whether the rect has no usable area or carries
// non-finite values.
func (r Rect) IsDegenerate() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return r.Width <= 0 || r.Height <= 0
}

// Insets are edge insets, as used for scroll content and indicator insets.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// View is the read-only capability the locators and geometry resolver need
// from a host view. Implementations must be comparable: pointer types, or
// small value types wrapping one.
type View interface {
	// Parent returns the superview, or nil at the top of the hierarchy.
	Parent() View

	// Children returns the current subviews. Callers treat the result as a
	// snapshot and never mutate it.
	Children() []View

	// Frame returns the view's frame in its parent's coordinate space.
	Frame() Rect

	// IsFirstResponder reports whether the view currently holds input focus.
	IsFirstResponder() bool

	// IsAlive reports whether the host still owns the view. A view that has
	// been destroyed returns false and must not be mutated. A nil receiver
	// returns false.
	IsAlive() bool
}

// ScrollContainer is a view that scrolls its content and exposes adjustable
// insets.
type ScrollContainer interface {
	View

	IsScrollEnabled() bool
	ContentSize() Size
	ContentOffset() Point
	SetContentOffset(Point)
	ContentInset() Insets
	SetContentInset(Insets)
	ScrollIndicatorInsets() Insets
	SetScrollIndicatorInsets(Insets)
}

// Container is the bounding view the controller may move when no scroll
// container is available.
type Container interface {
	View

	// SetFrame replaces the container's frame.
	SetFrame(Rect)
}

// RootFunc returns the view to search for the focused element, typically the
// currently presented screen. It may return nil when nothing is presented.
type RootFunc func() View

// alive reports whether v can be used. Implementations are expected to
// return false from IsAlive on a nil receiver.
func alive(v View) bool {
	return v != nil && v.IsAlive()
}
