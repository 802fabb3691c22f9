// Package ffi models the events the native engine delivers to Go and the
// process-wide keyboard notification center built on top of them.
package ffi

import "time"

// ============================================================================
// Event Types and Constants
// ============================================================================

// EventType represents the type of event from the engine
type EventType uint8

const (
	EventReady                EventType = 0
	EventRedrawRequested      EventType = 1
	EventResized              EventType = 2
	EventCloseRequested       EventType = 3
	EventSuspended            EventType = 11
	EventResumed              EventType = 12
	EventKeyboardFrameChanged EventType = 13
)

func (t EventType) String() string {
	switch t {
	case EventReady:
		return "ready"
	case EventRedrawRequested:
		return "redraw_requested"
	case EventResized:
		return "resized"
	case EventCloseRequested:
		return "close_requested"
	case EventSuspended:
		return "suspended"
	case EventResumed:
		return "resumed"
	case EventKeyboardFrameChanged:
		return "keyboard_frame_changed"
	default:
		return "unknown"
	}
}

// ============================================================================
// Event Type
// ============================================================================

// Event represents an event from the engine
type Event struct {
	Type        EventType
	Data1       float64
	Data2       float64
	ScaleFactor float64
}

// KeyboardFrameChanged builds the event the engine sends when the soft
// keyboard's frame changes. A zero height means the keyboard is hiding.
func KeyboardFrameChanged(height float64, duration time.Duration) Event {
	return Event{
		Type:  EventKeyboardFrameChanged,
		Data1: height,
		Data2: duration.Seconds(),
	}
}

// Width returns the width for Resized events
func (e Event) Width() float64 {
	return e.Data1
}

// Height returns the height for Resized events
func (e Event) Height() float64 {
	return e.Data2
}

// KeyboardHeight returns the keyboard height in logical points for
// KeyboardFrameChanged events (0 when hidden)
func (e Event) KeyboardHeight() float64 {
	if e.Type != EventKeyboardFrameChanged {
		return 0
	}
	return e.Data1
}

// KeyboardAnimationDuration returns the system's keyboard animation duration
// for KeyboardFrameChanged events
func (e Event) KeyboardAnimationDuration() time.Duration {
	if e.Type != EventKeyboardFrameChanged {
		return 0
	}
	return time.Duration(e.Data2 * float64(time.Second))
}
