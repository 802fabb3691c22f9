package ffi

import (
	"runtime"
	"sync"
)

// ============================================================================
// Keyboard Notification Center
// ============================================================================

// NotificationCenter fans engine keyboard events out to subscribers.
// Subscribers are called synchronously on the goroutine that posts, which for
// the loop is the UI goroutine.
type NotificationCenter struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func(Event)
	order  []uint64
}

// NewNotificationCenter creates an empty notification center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{
		subs: make(map[uint64]func(Event)),
	}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once. Subscribing to a nil
// center is a no-op.
func (c *NotificationCenter) Subscribe(fn func(Event)) (unsubscribe func()) {
	if c == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs[id] = fn
	c.order = append(c.order, id)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			for i, o := range c.order {
				if o == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Post delivers ev to every subscriber in subscription order. Subscribers
// added or removed during delivery take effect on the next Post.
func (c *NotificationCenter) Post(ev Event) {
	if c == nil {
		return
	}
	c.mu.RLock()
	fns := make([]func(Event), 0, len(c.order))
	for _, id := range c.order {
		fns = append(fns, c.subs[id])
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of live subscriptions.
func (c *NotificationCenter) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

var defaultCenter = NewNotificationCenter()

// KeyboardNotificationsSupported reports whether the platform delivers soft
// keyboard frame events.
func KeyboardNotificationsSupported() bool {
	return runtime.GOOS == "ios" || runtime.GOOS == "android"
}

// KeyboardNotifications returns the process-wide keyboard notification
// center, or nil on platforms without a soft keyboard.
func KeyboardNotifications() *NotificationCenter {
	if !KeyboardNotificationsSupported() {
		return nil
	}
	return defaultCenter
}
