package avoid

import "github.com/google/uuid"

// Session is the saved state of one show/hide cycle.
type Session struct {
	// ID correlates log lines for the cycle.
	ID uuid.UUID

	// OriginY is the container's vertical origin before any shift.
	// Valid only when HasOriginY is true.
	OriginY    float64
	HasOriginY bool

	// Focused is the view that was focused when the panel showed. The host
	// owns it; check IsAlive before use.
	Focused View

	// BottomOffset is the applied shift: panel overlap plus extra offset.
	BottomOffset float64

	// UsedScroll is true when the shift went into a scroll container's
	// insets rather than the container origin.
	UsedScroll bool

	SavedContentInset   Insets
	SavedIndicatorInset Insets
}

func newSession() *Session {
	return &Session{ID: uuid.New()}
}

// captureOrigin records y as the origin unless one is already set.
func (s *Session) captureOrigin(y float64) {
	if s.HasOriginY {
		return
	}
	s.OriginY = y
	s.HasOriginY = true
}
