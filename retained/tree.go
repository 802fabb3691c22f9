package retained

import (
	"sync"
	"sync/atomic"
)

// UpdateType identifies what kind of update occurred.
type UpdateType uint8

const (
	UpdateProperty UpdateType = iota // Widget property changed
	UpdateAdd                        // Widget added to tree
)

// Update represents a single widget state change.
// These are batched and collected by the loop each frame.
type Update struct {
	Type      UpdateType
	WidgetID  WidgetID
	DirtyMask uint64  // Which properties changed (for UpdateProperty)
	Widget    *Widget // Reference for full state access
}

// WidgetDelta is the merged set of changes to one widget within a frame.
type WidgetDelta struct {
	ID        WidgetID
	Widget    *Widget
	DirtyMask uint64
	IsNew     bool
}

// Tree manages the widget hierarchy, focus, and update collection.
type Tree struct {
	mu      sync.RWMutex
	root    *Widget
	focused *Widget

	// Widget registry for ID lookups
	widgets sync.Map // map[WidgetID]*Widget

	// Frame tracking
	frameNumber atomic.Uint64

	// Pending updates collector (for loop batching)
	pendingMu sync.Mutex
	pending   []Update

	// Dirty tracking - set immediately on any update, cleared on CollectUpdates
	hasDirty atomic.Bool

	closed atomic.Bool
}

// NewTree creates an empty widget tree.
func NewTree() *Tree {
	return &Tree{
		pending: make([]Update, 0, 64),
	}
}

// notifyUpdate is called by widgets when their state changes.
// Widgets call it with their own lock held, so it must not touch w.mu.
func (t *Tree) notifyUpdate(w *Widget, dirtyMask uint64) {
	if t.closed.Load() {
		return
	}

	// Mark dirty immediately for synchronous checking
	t.hasDirty.Store(true)

	t.pendingMu.Lock()
	t.pending = append(t.pending, Update{
		Type:      UpdateProperty,
		WidgetID:  w.id,
		DirtyMask: dirtyMask,
		Widget:    w,
	})
	t.pendingMu.Unlock()
}

// SetRoot sets the root widget of the tree and attaches its subtree.
func (t *Tree) SetRoot(w *Widget) {
	t.mu.Lock()
	old := t.root
	t.root = w
	t.mu.Unlock()

	if old != nil && old != w {
		old.setTree(nil)
	}
	if w == nil {
		return
	}
	w.setTree(t)
	t.register(w)
}

// Root returns the root widget.
func (t *Tree) Root() *Widget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// register recursively records a widget and its children for ID lookups.
func (t *Tree) register(w *Widget) {
	t.widgets.Store(w.id, w)

	if !t.closed.Load() {
		t.hasDirty.Store(true)
		t.pendingMu.Lock()
		t.pending = append(t.pending, Update{Type: UpdateAdd, WidgetID: w.id, Widget: w})
		t.pendingMu.Unlock()
	}

	for _, child := range w.Children() {
		t.register(child)
	}
}

// Widget returns a widget by ID. Widgets added after SetRoot are found by
// walking the tree.
func (t *Tree) Widget(id WidgetID) *Widget {
	if v, ok := t.widgets.Load(id); ok {
		return v.(*Widget)
	}
	found := t.Find(func(w *Widget) bool { return w.id == id })
	if found != nil {
		t.widgets.Store(id, found)
	}
	return found
}

// ============================================================================
// Focus
// ============================================================================

// Focus moves keyboard focus to w, blurring the previously focused widget.
// Destroyed widgets and widgets outside the tree cannot take focus.
func (t *Tree) Focus(w *Widget) {
	if w != nil {
		w.mu.RLock()
		ok := w.tree == t && !w.destroyed
		w.mu.RUnlock()
		if !ok {
			return
		}
	}
	t.setFocus(w)
}

// Blur removes focus from the currently focused widget.
func (t *Tree) Blur() {
	t.setFocus(nil)
}

// FocusedWidget returns the currently focused widget.
func (t *Tree) FocusedWidget() *Widget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.focused
}

func (t *Tree) setFocus(newFocus *Widget) {
	t.mu.Lock()
	oldFocus := t.focused
	if oldFocus == newFocus {
		t.mu.Unlock()
		return
	}
	t.focused = newFocus
	t.mu.Unlock()

	if oldFocus != nil {
		oldFocus.setFocused(false)
	}
	if newFocus != nil {
		newFocus.setFocused(true)
	}
}

// ============================================================================
// Update collection
// ============================================================================

// CollectUpdates drains all pending updates and returns them.
// This is called by the loop each frame.
func (t *Tree) CollectUpdates() []Update {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()

	// Clear the dirty flag since we're collecting all updates
	t.hasDirty.Store(false)

	if len(t.pending) == 0 {
		return nil
	}

	// Swap with empty slice
	updates := t.pending
	t.pending = make([]Update, 0, cap(updates))

	// Clear dirty state on collected widgets
	for _, u := range updates {
		if u.Widget != nil {
			u.Widget.ClearDirty()
		}
	}

	return updates
}

// HasPendingUpdates returns true if any widget has been modified since the
// last call to CollectUpdates. This is used to determine if a redraw is needed.
func (t *Tree) HasPendingUpdates() bool {
	return t.hasDirty.Load()
}

// DeduplicateUpdates merges multiple updates to the same widget.
func (t *Tree) DeduplicateUpdates(updates []Update) map[WidgetID]*WidgetDelta {
	deltas := make(map[WidgetID]*WidgetDelta)

	for _, u := range updates {
		switch u.Type {
		case UpdateProperty:
			if delta, ok := deltas[u.WidgetID]; ok {
				delta.DirtyMask |= u.DirtyMask
			} else {
				deltas[u.WidgetID] = &WidgetDelta{
					ID:        u.WidgetID,
					Widget:    u.Widget,
					DirtyMask: u.DirtyMask,
				}
			}

		case UpdateAdd:
			// New widget - mark everything dirty
			deltas[u.WidgetID] = &WidgetDelta{
				ID:        u.WidgetID,
				Widget:    u.Widget,
				DirtyMask: 0xFFFFFFFFFFFFFFFF,
				IsNew:     true,
			}
		}
	}

	return deltas
}

// FrameNumber returns the current frame count.
func (t *Tree) FrameNumber() uint64 {
	return t.frameNumber.Load()
}

// IncrementFrame advances the frame counter.
func (t *Tree) IncrementFrame() uint64 {
	return t.frameNumber.Add(1)
}

// Close stops update collection.
func (t *Tree) Close() {
	if t.closed.Swap(true) {
		return
	}
	t.pendingMu.Lock()
	t.pending = nil
	t.pendingMu.Unlock()
}

// ============================================================================
// Traversal
// ============================================================================

// Walk traverses the tree depth-first, calling fn for each widget.
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(w *Widget) bool) {
	t.mu.RLock()
	root := t.root
	t.mu.RUnlock()

	if root != nil {
		walkWidget(root, fn)
	}
}

func walkWidget(w *Widget, fn func(w *Widget) bool) bool {
	if !fn(w) {
		return false
	}
	for _, child := range w.Children() {
		if !walkWidget(child, fn) {
			return false
		}
	}
	return true
}

// Find searches for a widget matching the predicate.
func (t *Tree) Find(pred func(w *Widget) bool) *Widget {
	var found *Widget
	t.Walk(func(w *Widget) bool {
		if pred(w) {
			found = w
			return false // Stop walking
		}
		return true
	})
	return found
}

// FindByName finds the first widget with the given name.
func (t *Tree) FindByName(name string) *Widget {
	if name == "" {
		return nil
	}
	return t.Find(func(w *Widget) bool {
		return w.Name() == name
	})
}
