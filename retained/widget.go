// Package retained provides a retained-mode widget tree that hosts the
// keyboard avoidance controller.
//
// Widgets are thread-safe for concurrent property updates. Property changes
// are reported to the owning Tree as dirty flags so the loop knows when a
// redraw is needed. The Node adapter exposes a widget through the view
// capabilities the avoid package works against.
package retained

import (
	"sync"
	"sync/atomic"
)

// WidgetID uniquely identifies a widget in the tree.
// IDs are stable across updates and used for delta tracking.
type WidgetID uint64

var nextWidgetID atomic.Uint64

func newWidgetID() WidgetID {
	return WidgetID(nextWidgetID.Add(1))
}

// WidgetKind identifies the type of widget.
type WidgetKind string

const (
	KindContainer  WidgetKind = "container"
	KindVStack     WidgetKind = "vstack"
	KindScrollView WidgetKind = "scroll_view"
	KindText       WidgetKind = "text"
	KindButton     WidgetKind = "button"
	KindTextField  WidgetKind = "text_field"
	KindTextArea   WidgetKind = "text_area"
)

// IsTextInput reports whether widgets of this kind accept text input and
// bring up the soft keyboard when focused.
func (k WidgetKind) IsTextInput() bool {
	return k == KindTextField || k == KindTextArea
}

// EdgeInsets are per-edge distances, ordered like CSS (top, right, bottom, left).
type EdgeInsets struct {
	Top, Right, Bottom, Left float32
}

// Widget represents a UI element in the retained tree.
// Widgets are thread-safe for concurrent property updates.
type Widget struct {
	mu sync.RWMutex

	id       WidgetID
	kind     WidgetKind
	name     string
	parent   *Widget
	children []*Widget
	tree     *Tree

	// Frame in the parent's coordinate space
	x, y          float32
	width, height float32

	// Scroll state (ScrollView only)
	scrollEnabled   bool
	scrollX         float32
	scrollY         float32
	contentWidth    float32
	contentHeight   float32
	contentInset    EdgeInsets
	indicatorInsets EdgeInsets

	text      string
	visible   bool
	focused   bool
	destroyed bool

	onFocus []func(*Widget)
	onBlur  []func(*Widget)

	// Dirty tracking
	dirty     bool
	dirtyMask uint64
}

// Property change flags for dirty tracking
const (
	DirtyPosition uint64 = 1 << iota
	DirtySize
	DirtyVisible
	DirtyText
	DirtyScroll
	DirtyInsets
	DirtyChildren
	DirtyFocus
)

// NewWidget creates a widget with default values.
// The widget is not attached to any tree until added as a child.
func NewWidget(kind WidgetKind) *Widget {
	return &Widget{
		id:      newWidgetID(),
		kind:    kind,
		visible: true,
	}
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID {
	return w.id
}

// Kind returns the widget type.
func (w *Widget) Kind() WidgetKind {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.kind
}

// SetName sets a lookup name for the widget. Names need not be unique;
// Tree.FindByName returns the first match.
func (w *Widget) SetName(name string) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
	return w
}

// Name returns the widget's lookup name.
func (w *Widget) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// ============================================================================
// Tree Structure
// ============================================================================

// Parent returns the widget's parent, or nil if it's the root.
func (w *Widget) Parent() *Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent
}

// Children returns a copy of the widget's children slice.
func (w *Widget) Children() []*Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*Widget, len(w.children))
	copy(result, w.children)
	return result
}

// AddChild appends a child widget.
func (w *Widget) AddChild(child *Widget) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()

	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()
	child.setTree(w.tree)

	w.children = append(w.children, child)
	w.markDirty(DirtyChildren)
	return w
}

// InsertChild inserts a child at the specified index.
func (w *Widget) InsertChild(index int, child *Widget) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()

	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()
	child.setTree(w.tree)

	if index >= len(w.children) {
		w.children = append(w.children, child)
	} else {
		w.children = append(w.children[:index+1], w.children[index:]...)
		w.children[index] = child
	}
	w.markDirty(DirtyChildren)
	return w
}

// RemoveChild removes a child by reference.
func (w *Widget) RemoveChild(child *Widget) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, c := range w.children {
		if c == child {
			w.children = append(w.children[:i], w.children[i+1:]...)
			child.mu.Lock()
			child.parent = nil
			child.mu.Unlock()
			child.setTree(nil)
			w.markDirty(DirtyChildren)
			return true
		}
	}
	return false
}

// RemoveFromParent removes this widget from its parent.
func (w *Widget) RemoveFromParent() {
	w.mu.RLock()
	parent := w.parent
	w.mu.RUnlock()

	if parent != nil {
		parent.RemoveChild(w)
	}
}

// Destroy detaches the widget and marks it and its subtree as destroyed.
// Destroyed widgets report themselves dead to the avoidance controller and
// lose focus.
func (w *Widget) Destroy() {
	w.mu.RLock()
	tree := w.tree
	w.mu.RUnlock()

	if tree != nil {
		if f := tree.FocusedWidget(); f != nil && f.isWithin(w) {
			tree.Blur()
		}
	}

	w.RemoveFromParent()
	w.markDestroyed()
}

func (w *Widget) markDestroyed() {
	w.mu.Lock()
	w.destroyed = true
	children := make([]*Widget, len(w.children))
	copy(children, w.children)
	w.mu.Unlock()

	for _, c := range children {
		c.markDestroyed()
	}
}

// IsDestroyed reports whether Destroy has been called on the widget or an
// ancestor.
func (w *Widget) IsDestroyed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.destroyed
}

// isWithin reports whether w is ancestor or w itself.
func (w *Widget) isWithin(ancestor *Widget) bool {
	for p := w; p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// setTree attaches the widget and its subtree to tree.
func (w *Widget) setTree(tree *Tree) {
	w.mu.Lock()
	w.tree = tree
	children := make([]*Widget, len(w.children))
	copy(children, w.children)
	w.mu.Unlock()

	for _, c := range children {
		c.setTree(tree)
	}
}

// ============================================================================
// Property Setters (all thread-safe, trigger dirty tracking)
// ============================================================================

// markDirty must be called with w.mu held.
func (w *Widget) markDirty(flags uint64) {
	w.dirty = true
	w.dirtyMask |= flags

	// Dispatch update to tree if attached
	if w.tree != nil {
		w.tree.notifyUpdate(w, flags)
	}
}

// SetPosition sets x and y coordinates.
func (w *Widget) SetPosition(x, y float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.x != x || w.y != y {
		w.x, w.y = x, y
		w.markDirty(DirtyPosition)
	}
	return w
}

// SetSize sets width and height.
func (w *Widget) SetSize(width, height float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.width != width || w.height != height {
		w.width, w.height = width, height
		w.markDirty(DirtySize)
	}
	return w
}

// SetFrame sets position and size in one call.
func (w *Widget) SetFrame(x, y, width, height float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	var flags uint64
	if w.x != x || w.y != y {
		w.x, w.y = x, y
		flags |= DirtyPosition
	}
	if w.width != width || w.height != height {
		w.width, w.height = width, height
		flags |= DirtySize
	}
	if flags != 0 {
		w.markDirty(flags)
	}
	return w
}

// Frame returns the widget's frame in its parent's coordinate space.
func (w *Widget) Frame() (x, y, width, height float32) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.x, w.y, w.width, w.height
}

// Bounds returns the widget's frame as a Bounds value.
func (w *Widget) Bounds() Bounds {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Bounds{X: w.x, Y: w.y, Width: w.width, Height: w.height}
}

// SetVisible shows or hides the widget.
func (w *Widget) SetVisible(visible bool) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible != visible {
		w.visible = visible
		w.markDirty(DirtyVisible)
	}
	return w
}

// SetText sets the widget's text content.
func (w *Widget) SetText(text string) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.text != text {
		w.text = text
		w.markDirty(DirtyText)
	}
	return w
}

// Text returns the widget's text content.
func (w *Widget) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

// ============================================================================
// Scrolling
// ============================================================================

// SetScrollEnabled turns scrolling on or off for a ScrollView.
func (w *Widget) SetScrollEnabled(enabled bool) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scrollEnabled != enabled {
		w.scrollEnabled = enabled
		w.markDirty(DirtyScroll)
	}
	return w
}

// IsScrollable reports whether the widget is a scroll view with scrolling
// enabled.
func (w *Widget) IsScrollable() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.kind == KindScrollView && w.scrollEnabled
}

// SetScroll sets the scroll position.
func (w *Widget) SetScroll(x, y float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.scrollX != x || w.scrollY != y {
		w.scrollX, w.scrollY = x, y
		w.markDirty(DirtyScroll)
	}
	return w
}

// ScrollPosition returns the current scroll position.
func (w *Widget) ScrollPosition() (x, y float32) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.scrollX, w.scrollY
}

// SetContentSize sets the total content dimensions for scroll calculations.
func (w *Widget) SetContentSize(width, height float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.contentWidth != width || w.contentHeight != height {
		w.contentWidth, w.contentHeight = width, height
		w.markDirty(DirtyScroll)
	}
	return w
}

// ContentSize returns the total content dimensions.
func (w *Widget) ContentSize() (width, height float32) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.contentWidth, w.contentHeight
}

// SetContentInset sets the extra scrollable space around the content.
func (w *Widget) SetContentInset(in EdgeInsets) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.contentInset != in {
		w.contentInset = in
		w.markDirty(DirtyInsets)
	}
	return w
}

// ContentInset returns the content inset.
func (w *Widget) ContentInset() EdgeInsets {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.contentInset
}

// SetScrollIndicatorInsets sets the insets of the scroll indicators.
func (w *Widget) SetScrollIndicatorInsets(in EdgeInsets) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indicatorInsets != in {
		w.indicatorInsets = in
		w.markDirty(DirtyInsets)
	}
	return w
}

// ScrollIndicatorInsets returns the scroll indicator insets.
func (w *Widget) ScrollIndicatorInsets() EdgeInsets {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indicatorInsets
}

// ============================================================================
// Focus
// ============================================================================

// IsFocused returns true if this widget has keyboard focus.
func (w *Widget) IsFocused() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.focused
}

// Focus asks the owning tree to move focus to this widget.
// Does nothing when the widget is not attached to a tree.
func (w *Widget) Focus() {
	w.mu.RLock()
	tree := w.tree
	w.mu.RUnlock()
	if tree != nil {
		tree.Focus(w)
	}
}

// OnFocus registers a handler called when the widget gains focus.
func (w *Widget) OnFocus(fn func(*Widget)) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFocus = append(w.onFocus, fn)
	return w
}

// OnBlur registers a handler called when the widget loses focus.
func (w *Widget) OnBlur(fn func(*Widget)) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onBlur = append(w.onBlur, fn)
	return w
}

// setFocused sets the focus flag and runs the matching handlers.
func (w *Widget) setFocused(focused bool) {
	w.mu.Lock()
	changed := w.focused != focused
	w.focused = focused
	var handlers []func(*Widget)
	if changed {
		w.markDirty(DirtyFocus)
		if focused {
			handlers = append(handlers, w.onFocus...)
		} else {
			handlers = append(handlers, w.onBlur...)
		}
	}
	w.mu.Unlock()

	// Handlers run outside the lock so they may touch the widget
	for _, fn := range handlers {
		fn(w)
	}
}

// ============================================================================
// Dirty state
// ============================================================================

// IsDirty reports whether the widget changed since the last ClearDirty.
func (w *Widget) IsDirty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty
}

// DirtyMask returns the accumulated dirty flags.
func (w *Widget) DirtyMask() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirtyMask
}

// ClearDirty resets the widget's dirty state after a render.
func (w *Widget) ClearDirty() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = false
	w.dirtyMask = 0
}

// Bounds is a rectangle in some widget's coordinate space.
type Bounds struct {
	X, Y          float32
	Width, Height float32
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}
