package avoid

import "time"

// Property names the view property an animation drives. Animators use the
// (Target, Property) pair to decide which in-flight animation a new one
// supersedes.
type Property uint8

const (
	PropertyContentInset Property = iota + 1
	PropertyFrameOrigin
)

func (p Property) String() string {
	switch p {
	case PropertyContentInset:
		return "content_inset"
	case PropertyFrameOrigin:
		return "frame_origin"
	default:
		return "unknown"
	}
}

// Timing is an animation's duration and leading delay.
type Timing struct {
	Duration time.Duration
	Delay    time.Duration
}

// Default timings for the panel transitions.
var (
	DefaultShowTiming = Timing{Duration: 660 * time.Millisecond, Delay: 300 * time.Millisecond}
	DefaultHideTiming = Timing{Duration: 220 * time.Millisecond}
)

// Animation is a request to drive one property of one view over time.
type Animation struct {
	Target   View
	Property Property
	Timing   Timing

	// BeginFromCurrentState starts from the currently rendered value instead
	// of the value captured when the animation was scheduled, and replaces
	// any in-flight animation on the same target and property.
	BeginFromCurrentState bool

	// Begin is called once when the delay has elapsed, before the first Step.
	Begin func()

	// Step receives eased progress in [0, 1]. The final call is always
	// exactly 1.
	Step func(progress float64)

	// Completion is called once. finished is false when the animation was
	// superseded before reaching the end.
	Completion func(finished bool)
}

// Animator runs animations. Run must return immediately; Begin, Step and
// Completion are invoked later on the UI goroutine.
type Animator interface {
	Run(Animation)
}

// ImmediateAnimator applies every animation synchronously inside Run. Useful
// for headless hosts and hosts that disable motion.
type ImmediateAnimator struct{}

// Run implements Animator.
func (ImmediateAnimator) Run(a Animation) {
	if a.Begin != nil {
		a.Begin()
	}
	if a.Step != nil {
		a.Step(1)
	}
	if a.Completion != nil {
		a.Completion(true)
	}
}

// lerp interpolates between a and b, returning b exactly at t >= 1 so the
// final frame lands on the target bit for bit.
func lerp(a, b, t float64) float64 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

func lerpInsets(a, b Insets, t float64) Insets {
	return Insets{
		Top:    lerp(a.Top, b.Top, t),
		Left:   lerp(a.Left, b.Left, t),
		Bottom: lerp(a.Bottom, b.Bottom, t),
		Right:  lerp(a.Right, b.Right, t),
	}
}
