package avoid

import (
	"log/slog"
	"math"
	"sync/atomic"
)

// State is the controller's position in the show/hide cycle.
type State uint8

const (
	StateIdle State = iota
	StateSlidingUp
	StateShown
	StateSlidingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSlidingUp:
		return "sliding_up"
	case StateShown:
		return "shown"
	case StateSlidingDown:
		return "sliding_down"
	default:
		return "unknown"
	}
}

// SoftInputEvent is delivered to OnSoftInputShown and OnSoftInputHidden
// handlers. Hide events always carry a zero height.
type SoftInputEvent struct {
	SoftInputHeight float64 `json:"softInputHeight"`
}

// Config configures a Controller. Zero timings fall back to
// DefaultShowTiming and DefaultHideTiming.
type Config struct {
	ExtraOffset float64
	Show        Timing
	Hide        Timing
	Logger      *slog.Logger
}

// Controller moves a container (or the scroll container holding the focused
// view) out of the way of the soft input panel.
//
// Show and Hide must be called from the UI goroutine, as must the animator's
// callbacks. Only SetExtraOffset may be called from other goroutines.
type Controller struct {
	container Container
	root      RootFunc
	animator  Animator
	log       *slog.Logger
	show      Timing
	hide      Timing

	extraOffset atomic.Uint64 // math.Float64bits

	state      State
	generation uint64 // bumped on every state change
	session    *Session

	onShown      []func(SoftInputEvent)
	onHidden     []func(SoftInputEvent)
	onTransition []func(from, to State)

	bridge *Bridge
}

// NewController creates a controller for container. root returns the view
// searched for the focused element; nil means the topmost ancestor of
// container. A nil animator applies changes immediately.
func NewController(container Container, root RootFunc, animator Animator, cfg Config) *Controller {
	if animator == nil {
		animator = ImmediateAnimator{}
	}
	if cfg.Show == (Timing{}) {
		cfg.Show = DefaultShowTiming
	}
	if cfg.Hide == (Timing{}) {
		cfg.Hide = DefaultHideTiming
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Controller{
		container: container,
		root:      root,
		animator:  animator,
		log:       logger.With("component", "avoid"),
		show:      cfg.Show,
		hide:      cfg.Hide,
	}
	if c.root == nil {
		c.root = func() View { return RootOf(container) }
	}
	c.SetExtraOffset(cfg.ExtraOffset)
	return c
}

// RootOf returns the topmost ancestor of v, or v itself when it has no
// parent. Returns nil for a nil or dead view.
func RootOf(v View) View {
	if !alive(v) {
		return nil
	}
	for depth := 0; depth < maxConvertDepth; depth++ {
		p := v.Parent()
		if p == nil {
			break
		}
		v = p
	}
	return v
}

// ============================================================================
// Accessors
// ============================================================================

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Session returns a copy of the active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// ExtraOffset returns the offset added on top of every computed shift.
func (c *Controller) ExtraOffset() float64 {
	return math.Float64frombits(c.extraOffset.Load())
}

// SetExtraOffset changes the extra offset. It applies from the next accepted
// show; a shift already on screen is left alone. Safe for concurrent use.
func (c *Controller) SetExtraOffset(v float64) {
	c.extraOffset.Store(math.Float64bits(v))
}

// OnSoftInputShown registers a handler called for every show signal,
// including ones the state machine ignores.
func (c *Controller) OnSoftInputShown(fn func(SoftInputEvent)) {
	c.onShown = append(c.onShown, fn)
}

// OnSoftInputHidden registers a handler called for every hide signal.
func (c *Controller) OnSoftInputHidden(fn func(SoftInputEvent)) {
	c.onHidden = append(c.onHidden, fn)
}

// OnTransition registers a handler called after every state change.
func (c *Controller) OnTransition(fn func(from, to State)) {
	c.onTransition = append(c.onTransition, fn)
}

// ============================================================================
// Transitions
// ============================================================================

// Show handles a "panel will show" signal with the panel's final height.
func (c *Controller) Show(height float64) {
	for _, fn := range c.onShown {
		fn(SoftInputEvent{SoftInputHeight: height})
	}

	if c.state != StateIdle {
		c.log.Debug("show ignored", "state", c.state, "height", height)
		return
	}

	if c.session == nil {
		c.session = newSession()
	}
	s := c.session
	c.setState(StateSlidingUp)
	if alive(c.container) {
		s.captureOrigin(c.container.Frame().Y)
	}

	root := c.root()
	if !alive(root) {
		c.abortShow("no root view")
		return
	}
	focused := FindFocused(root)
	if focused == nil {
		c.abortShow("no focused view")
		return
	}
	offset, ok := ComputeOffset(height, focused, c.container, root)
	if !ok {
		c.abortShow("degenerate geometry")
		return
	}

	s.Focused = focused
	s.BottomOffset = offset + c.ExtraOffset()
	gen := c.generation

	c.log.Debug("sliding up",
		"session", s.ID,
		"height", height,
		"overlap", offset,
		"offset", s.BottomOffset,
	)

	done := c.completion(gen, StateSlidingUp, StateShown, nil)

	if sc := FindScrollAncestor(focused, c.container); sc != nil {
		s.UsedScroll = true
		s.SavedContentInset = sc.ContentInset()
		s.SavedIndicatorInset = sc.ScrollIndicatorInsets()

		content := s.SavedContentInset
		content.Bottom = s.BottomOffset
		indicator := s.SavedIndicatorInset
		indicator.Bottom = s.BottomOffset
		c.animateInsets(sc, content, indicator, c.show, done)
		return
	}

	c.animateOriginY(s.OriginY-s.BottomOffset, c.show, done)
}

// Hide handles a "panel will hide" signal.
func (c *Controller) Hide() {
	for _, fn := range c.onHidden {
		fn(SoftInputEvent{SoftInputHeight: 0})
	}

	if c.state != StateShown && c.state != StateSlidingUp {
		c.log.Debug("hide ignored", "state", c.state)
		return
	}

	c.setState(StateSlidingDown)
	s := c.session
	if s == nil || !alive(s.Focused) {
		c.log.Debug("focused view gone, nothing to restore")
		c.session = nil
		c.setState(StateIdle)
		return
	}

	gen := c.generation
	done := c.completion(gen, StateSlidingDown, StateIdle, func() {
		c.session = nil
	})

	c.log.Debug("sliding down", "session", s.ID, "offset", s.BottomOffset)

	// The scroll container is looked up again from the focused view; a
	// hierarchy that changed since show is not reconciled.
	if sc := FindScrollAncestor(s.Focused, c.container); sc != nil {
		c.animateInsets(sc, s.SavedContentInset, s.SavedIndicatorInset, c.hide, done)
		return
	}
	if !s.HasOriginY {
		c.session = nil
		c.setState(StateIdle)
		return
	}
	c.animateOriginY(s.OriginY, c.hide, done)
}

func (c *Controller) abortShow(reason string) {
	c.log.Debug("show aborted", "reason", reason)
	c.session = nil
	c.setState(StateIdle)
}

func (c *Controller) setState(to State) {
	from := c.state
	c.state = to
	c.generation++
	for _, fn := range c.onTransition {
		fn(from, to)
	}
}

// completion returns an animation completion that moves from -> to, but only
// if the machine is still in the transition that scheduled it.
func (c *Controller) completion(gen uint64, from, to State, finish func()) func(bool) {
	return func(finished bool) {
		if c.state != from || c.generation != gen {
			c.log.Debug("stale completion", "want", from, "state", c.state, "finished", finished)
			return
		}
		if finish != nil {
			finish()
		}
		c.setState(to)
	}
}

func (c *Controller) animateInsets(sc ScrollContainer, content, indicator Insets, t Timing, done func(bool)) {
	fromContent := sc.ContentInset()
	fromIndicator := sc.ScrollIndicatorInsets()

	c.animator.Run(Animation{
		Target:                sc,
		Property:              PropertyContentInset,
		Timing:                t,
		BeginFromCurrentState: true,
		Begin: func() {
			if !sc.IsAlive() {
				return
			}
			fromContent = sc.ContentInset()
			fromIndicator = sc.ScrollIndicatorInsets()
		},
		Step: func(p float64) {
			if !sc.IsAlive() {
				return
			}
			sc.SetContentInset(lerpInsets(fromContent, content, p))
			sc.SetScrollIndicatorInsets(lerpInsets(fromIndicator, indicator, p))
		},
		Completion: done,
	})
}

func (c *Controller) animateOriginY(toY float64, t Timing, done func(bool)) {
	cont := c.container
	var fromY float64
	if alive(cont) {
		fromY = cont.Frame().Y
	}

	c.animator.Run(Animation{
		Target:                cont,
		Property:              PropertyFrameOrigin,
		Timing:                t,
		BeginFromCurrentState: true,
		Begin: func() {
			if alive(cont) {
				fromY = cont.Frame().Y
			}
		},
		Step: func(p float64) {
			if !alive(cont) {
				return
			}
			f := cont.Frame()
			f.Y = lerp(fromY, toY, p)
			cont.SetFrame(f)
		},
		Completion: done,
	})
}

// ============================================================================
// Notification source
// ============================================================================

// Listen subscribes the controller to src through a Bridge. A previous
// subscription is released first. A nil src leaves the controller
// unsubscribed.
func (c *Controller) Listen(src Source) {
	if c.bridge != nil {
		c.bridge.Close()
	}
	c.bridge = NewBridge(src, c, c.log)
}

// Close releases the notification subscription, if any.
func (c *Controller) Close() {
	if c.bridge != nil {
		c.bridge.Close()
		c.bridge = nil
	}
}
