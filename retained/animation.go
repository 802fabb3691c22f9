package retained

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agiangrant/softinput/avoid"
)

// AnimationID uniquely identifies an animation.
type AnimationID uint64

var nextAnimationID atomic.Uint64

func newAnimationID() AnimationID {
	return AnimationID(nextAnimationID.Add(1))
}

// EasingFunc defines how animation progress maps to value progress.
// Input t is 0-1 (time progress), output is 0-1 (value progress).
type EasingFunc func(t float64) float64

// Common easing functions
var (
	// EaseLinear - constant speed
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	// EaseInQuad - accelerate from zero
	EaseInQuad EasingFunc = func(t float64) float64 { return t * t }

	// EaseOutQuad - decelerate to zero
	EaseOutQuad EasingFunc = func(t float64) float64 { return t * (2 - t) }

	// EaseInOutQuad - accelerate then decelerate
	EaseInOutQuad EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	// EaseOutCubic - smooth deceleration
	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}

	// EaseInOutCubic - smooth acceleration and deceleration
	EaseInOutCubic EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return (t-1)*(2*t-2)*(2*t-2) + 1
	}

	// EaseOutBack - slight overshoot then settle
	EaseOutBack EasingFunc = func(t float64) float64 {
		c1 := 1.70158
		c3 := c1 + 1
		return 1 + c3*(t-1)*(t-1)*(t-1) + c1*(t-1)*(t-1)
	}

	// EaseKeyboard approximates the critically damped curve mobile
	// platforms use for the on-screen keyboard.
	EaseKeyboard EasingFunc = func(t float64) float64 {
		return 1 - math.Pow(1-t, 4)
	}
)

// EasingByName returns the easing function for a given name.
// Returns nil if the name is unknown.
func EasingByName(name string) EasingFunc {
	switch name {
	case "linear":
		return EaseLinear
	case "ease-in":
		return EaseInQuad
	case "ease-out":
		return EaseOutQuad
	case "ease", "ease-in-out":
		return EaseInOutQuad
	case "cubic":
		return EaseInOutCubic
	case "ease-out-cubic":
		return EaseOutCubic
	case "back":
		return EaseOutBack
	case "keyboard":
		return EaseKeyboard
	default:
		return nil
	}
}

// animationKey identifies the property an animation drives. A new keyed
// animation replaces any in-flight animation with the same key.
type animationKey struct {
	target   any
	property string
}

// Animation represents an active animation on a widget.
type Animation struct {
	id         AnimationID
	key        *animationKey
	startTime  time.Time
	delay      time.Duration
	duration   time.Duration
	begun      bool
	begin      func()                 // Called once when the delay has elapsed
	update     func(progress float64) // Called each frame with eased progress 0-1
	onComplete func(finished bool)    // Called once; finished is false when superseded
	easing     EasingFunc
	cancelled  atomic.Bool
	completed  atomic.Bool
}

// ID returns the animation's unique identifier.
func (a *Animation) ID() AnimationID {
	return a.id
}

// Cancel stops the animation. Its completion is reported as unfinished on
// the next tick.
func (a *Animation) Cancel() {
	a.cancelled.Store(true)
}

// IsCancelled returns whether the animation was cancelled.
func (a *Animation) IsCancelled() bool {
	return a.cancelled.Load()
}

// complete runs the completion callback at most once.
func (a *Animation) complete(finished bool) {
	if !a.completed.CompareAndSwap(false, true) {
		return
	}
	if a.onComplete != nil {
		a.onComplete(finished)
	}
}

// AnimationRegistry manages active animations and determines when the loop
// needs to run at full frame rate.
//
// It implements avoid.Animator, so the avoidance controller's inset and
// origin animations run on the same clock as every other widget animation.
type AnimationRegistry struct {
	mu         sync.RWMutex
	animations map[AnimationID]*Animation
	now        func() time.Time
	easing     EasingFunc

	// Callback when animation state changes (for loop to know when to switch modes)
	onActiveChange func(hasActive bool)
}

// NewAnimationRegistry creates a new animation registry using the wall
// clock and EaseInOutQuad.
func NewAnimationRegistry() *AnimationRegistry {
	return &AnimationRegistry{
		animations: make(map[AnimationID]*Animation),
		now:        time.Now,
		easing:     EaseInOutQuad,
	}
}

// SetClock replaces the registry's time source. Start times of new
// animations are read from it.
func (r *AnimationRegistry) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// SetEasing sets the easing used by Run.
func (r *AnimationRegistry) SetEasing(fn EasingFunc) {
	if fn == nil {
		fn = EaseInOutQuad
	}
	r.mu.Lock()
	r.easing = fn
	r.mu.Unlock()
}

// OnActiveChange sets the callback for when animations become active/inactive.
func (r *AnimationRegistry) OnActiveChange(fn func(hasActive bool)) {
	r.mu.Lock()
	r.onActiveChange = fn
	r.mu.Unlock()
}

// Add registers a new animation. A keyed animation supersedes the in-flight
// animation with the same key, whose completion runs with finished=false
// before Add returns.
func (r *AnimationRegistry) Add(anim *Animation) {
	r.mu.Lock()
	wasEmpty := len(r.animations) == 0

	var superseded []*Animation
	if anim.key != nil {
		for id, other := range r.animations {
			if other.key != nil && *other.key == *anim.key {
				other.cancelled.Store(true)
				delete(r.animations, id)
				superseded = append(superseded, other)
			}
		}
	}
	r.animations[anim.id] = anim
	callback := r.onActiveChange
	r.mu.Unlock()

	for _, other := range superseded {
		other.complete(false)
	}

	// Notify if we went from no animations to having animations
	if wasEmpty && callback != nil {
		callback(true)
	}
}

// Remove unregisters an animation without running its completion.
func (r *AnimationRegistry) Remove(id AnimationID) {
	r.mu.Lock()
	_, existed := r.animations[id]
	delete(r.animations, id)
	isEmpty := len(r.animations) == 0
	callback := r.onActiveChange
	r.mu.Unlock()

	// Notify if we went from having animations to none
	if existed && isEmpty && callback != nil {
		callback(false)
	}
}

// HasActive returns true if there are any running animations.
func (r *AnimationRegistry) HasActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.animations) > 0
}

// Count returns the number of active animations.
func (r *AnimationRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.animations)
}

// frameWork is one animation's share of a tick, applied outside the lock.
type frameWork struct {
	anim     *Animation
	begin    bool
	progress float64
	step     bool
	done     bool
	finished bool
}

// Tick updates all animations and removes completed ones.
// Called once per frame by the loop. Returns true if any animations are still active.
//
// Animations are advanced in the order they were added. Callbacks run
// outside the registry lock, so they may add or cancel animations.
func (r *AnimationRegistry) Tick(now time.Time) bool {
	r.mu.Lock()

	ids := make([]AnimationID, 0, len(r.animations))
	for id := range r.animations {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	work := make([]frameWork, 0, len(ids))
	for _, id := range ids {
		anim := r.animations[id]

		if anim.cancelled.Load() {
			delete(r.animations, id)
			work = append(work, frameWork{anim: anim, done: true})
			continue
		}

		elapsed := now.Sub(anim.startTime) - anim.delay
		if elapsed < 0 {
			continue
		}

		w := frameWork{anim: anim, step: true}
		if !anim.begun {
			anim.begun = true
			w.begin = true
		}

		if elapsed >= anim.duration {
			// Final update lands exactly on the target
			w.progress = 1
			w.done = true
			w.finished = true
			delete(r.animations, id)
		} else {
			t := float64(elapsed) / float64(anim.duration)
			w.progress = anim.easing(t)
		}
		work = append(work, w)
	}

	hasActive := len(r.animations) > 0
	callback := r.onActiveChange
	r.mu.Unlock()

	removed := false
	for _, w := range work {
		if w.begin && w.anim.begin != nil && !w.anim.cancelled.Load() {
			w.anim.begin()
		}
		// A callback earlier in this tick may have superseded the animation
		if w.step && w.anim.update != nil && !w.anim.cancelled.Load() {
			w.anim.update(w.progress)
		}
		if w.done {
			removed = true
			w.anim.complete(w.finished)
		}
	}

	// Callbacks may have scheduled new work
	if removed {
		hasActive = r.HasActive()
		if !hasActive && callback != nil {
			callback(false)
		}
	}

	return hasActive
}

// Run implements avoid.Animator. The animation starts after its delay on
// the registry clock and uses the registry easing.
func (r *AnimationRegistry) Run(a avoid.Animation) {
	r.mu.RLock()
	start := r.now()
	easing := r.easing
	r.mu.RUnlock()

	anim := &Animation{
		id:         newAnimationID(),
		startTime:  start,
		delay:      a.Timing.Delay,
		duration:   a.Timing.Duration,
		easing:     easing,
		begin:      a.Begin,
		update:     a.Step,
		onComplete: a.Completion,
	}
	if a.BeginFromCurrentState && a.Target != nil {
		anim.key = &animationKey{target: a.Target, property: a.Property.String()}
	}
	r.Add(anim)
}

// ============================================================================
// Animation Builder API
// ============================================================================

// AnimationBuilder provides a fluent API for creating animations.
type AnimationBuilder struct {
	widget     *Widget
	registry   *AnimationRegistry
	duration   time.Duration
	delay      time.Duration
	easing     EasingFunc
	onComplete func(finished bool)
}

// Animate starts building an animation for this widget.
func (w *Widget) Animate(registry *AnimationRegistry) *AnimationBuilder {
	return &AnimationBuilder{
		widget:   w,
		registry: registry,
		duration: 300 * time.Millisecond, // Default duration
		easing:   EaseOutCubic,           // Default easing (smooth UI feel)
	}
}

// Duration sets how long the animation runs.
func (b *AnimationBuilder) Duration(d time.Duration) *AnimationBuilder {
	b.duration = d
	return b
}

// Delay postpones the start of the animation.
func (b *AnimationBuilder) Delay(d time.Duration) *AnimationBuilder {
	b.delay = d
	return b
}

// Easing sets the easing function.
func (b *AnimationBuilder) Easing(fn EasingFunc) *AnimationBuilder {
	b.easing = fn
	return b
}

// OnComplete sets a callback for when the animation finishes or is
// superseded.
func (b *AnimationBuilder) OnComplete(fn func(finished bool)) *AnimationBuilder {
	b.onComplete = fn
	return b
}

func (b *AnimationBuilder) start(property string, update func(progress float64)) *Animation {
	anim := &Animation{
		id:         newAnimationID(),
		key:        &animationKey{target: b.widget, property: property},
		startTime:  b.registry.clock(),
		delay:      b.delay,
		duration:   b.duration,
		easing:     b.easing,
		update:     update,
		onComplete: b.onComplete,
	}
	b.registry.Add(anim)
	return anim
}

// Position animates x and y from current to target.
func (b *AnimationBuilder) Position(toX, toY float32) *Animation {
	b.widget.mu.RLock()
	fromX, fromY := b.widget.x, b.widget.y
	b.widget.mu.RUnlock()

	return b.start("position", func(progress float64) {
		b.widget.SetPosition(lerp(fromX, toX, progress), lerp(fromY, toY, progress))
	})
}

// ScrollToY animates the scroll position of a scroll view to targetY.
func (b *AnimationBuilder) ScrollToY(targetY float32) *Animation {
	b.widget.mu.RLock()
	fromX, fromY := b.widget.scrollX, b.widget.scrollY
	b.widget.mu.RUnlock()

	return b.start("scroll", func(progress float64) {
		b.widget.SetScroll(fromX, lerp(fromY, targetY, progress))
	})
}

func (r *AnimationRegistry) clock() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.now()
}

// lerp interpolates between two float32 values and returns b exactly at
// the end of the animation.
func lerp(a, b float32, t float64) float32 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*float32(t)
}
