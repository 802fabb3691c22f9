package retained

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agiangrant/softinput"
	"github.com/agiangrant/softinput/avoid"
	"github.com/agiangrant/softinput/internal/ffi"
)

// LoopConfig configures the host loop.
type LoopConfig struct {
	// TargetFPS is the desired frames per second for Run (default: 60).
	TargetFPS int

	// Avoid configures the keyboard avoidance controller. Its logger
	// defaults to Logger.
	Avoid avoid.Config

	// Easing shapes the controller's animations (default: EaseInOutQuad).
	Easing EasingFunc

	// ScrollFocused scrolls the focused input into view once the panel has
	// settled, when the controller adjusted a scroll container.
	ScrollFocused bool

	// Notifications carries keyboard frame events. Defaults to the
	// process-wide center on mobile platforms and a private center elsewhere.
	Notifications *ffi.NotificationCenter

	// Clock is the loop's time source (default: time.Now).
	Clock func() time.Time

	Logger *slog.Logger
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TargetFPS: 60,
		Easing:    EaseInOutQuad,
	}
}

// FrameInfo provides context for each loop iteration.
type FrameInfo struct {
	Number    uint64
	DeltaTime float64 // Seconds since last frame
	Time      float64 // Seconds since the first frame
	Deltas    map[WidgetID]*WidgetDelta
}

// Loop owns a widget tree and drives keyboard avoidance for it. Engine
// events enter through HandleEvent; animations advance through Tick. Both
// must be called from the same goroutine.
type Loop struct {
	tree       *Tree
	container  *Widget
	config     LoopConfig
	animations *AnimationRegistry
	controller *avoid.Controller
	center     *ffi.NotificationCenter
	log        *slog.Logger
	now        func() time.Time

	// Timing
	targetFrameTime time.Duration
	startTime       time.Time
	lastFrameTime   time.Time

	// State
	running atomic.Bool
	paused  atomic.Bool

	windowWidth, windowHeight float32
	keyboardHeight            float32 // Height of on-screen keyboard in points (0 when hidden)

	// Event handlers
	onFrame func(FrameInfo)
	onEvent func(ffi.Event) bool // Return true to consume event

	// Stats
	frameCount atomic.Uint64

	watchMu sync.Mutex
	watcher *softinput.Watcher
}

// NewLoop creates a loop for the tree rooted at root. container is the view
// the controller moves when no scroll container holds the focused input;
// nil means root.
func NewLoop(root, container *Widget, config LoopConfig) *Loop {
	if config.TargetFPS < 1 {
		config.TargetFPS = 60
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Avoid.Logger == nil {
		config.Avoid.Logger = config.Logger
	}
	if container == nil {
		container = root
	}

	center := config.Notifications
	if center == nil {
		center = ffi.KeyboardNotifications()
	}
	if center == nil {
		center = ffi.NewNotificationCenter()
	}

	tree := NewTree()
	tree.SetRoot(root)

	animations := NewAnimationRegistry()
	animations.SetClock(config.Clock)
	animations.SetEasing(config.Easing)

	l := &Loop{
		tree:            tree,
		container:       container,
		config:          config,
		animations:      animations,
		center:          center,
		log:             config.Logger.With("component", "loop"),
		now:             config.Clock,
		targetFrameTime: time.Second / time.Duration(config.TargetFPS),
	}

	l.controller = avoid.NewController(NodeOf(container), l.rootView, animations, config.Avoid)
	l.controller.OnTransition(l.onTransition)
	l.controller.Listen(center)

	return l
}

func (l *Loop) rootView() avoid.View {
	root := l.tree.Root()
	if root == nil {
		return nil
	}
	return NodeOf(root)
}

// Tree returns the widget tree.
func (l *Loop) Tree() *Tree {
	return l.tree
}

// Animations returns the animation registry for this loop.
func (l *Loop) Animations() *AnimationRegistry {
	return l.animations
}

// Controller returns the keyboard avoidance controller.
func (l *Loop) Controller() *avoid.Controller {
	return l.controller
}

// Notifications returns the center keyboard events are posted to.
func (l *Loop) Notifications() *ffi.NotificationCenter {
	return l.center
}

// WindowSize returns the last reported window size.
func (l *Loop) WindowSize() (width, height float32) {
	return l.windowWidth, l.windowHeight
}

// KeyboardHeight returns the last reported keyboard height.
func (l *Loop) KeyboardHeight() float32 {
	return l.keyboardHeight
}

// OnFrame registers a callback invoked after every tick.
func (l *Loop) OnFrame(fn func(FrameInfo)) {
	l.onFrame = fn
}

// OnEvent registers a callback that sees every event first.
// Returning true consumes the event.
func (l *Loop) OnEvent(fn func(ffi.Event) bool) {
	l.onEvent = fn
}

// HandleEvent processes one engine event and reports whether a redraw is
// needed.
func (l *Loop) HandleEvent(event ffi.Event) bool {
	// Let user handle event first (they can consume it)
	if l.onEvent != nil && l.onEvent(event) {
		return l.tree.HasPendingUpdates()
	}

	switch event.Type {
	case ffi.EventReady, ffi.EventResized:
		l.windowWidth, l.windowHeight = float32(event.Width()), float32(event.Height())
		if root := l.tree.Root(); root != nil {
			x, y, _, _ := root.Frame()
			root.SetFrame(x, y, l.windowWidth, l.windowHeight)
		}
		return true

	case ffi.EventSuspended:
		l.Pause()
		return false

	case ffi.EventResumed:
		l.Resume()
		return true

	case ffi.EventKeyboardFrameChanged:
		l.keyboardHeight = float32(event.KeyboardHeight())
		l.log.Debug("keyboard frame changed",
			"height", event.KeyboardHeight(),
			"duration", event.KeyboardAnimationDuration())
		// The controller hears about it through the center
		l.center.Post(event)
		return l.tree.HasPendingUpdates() || l.animations.HasActive()
	}

	return false
}

// onTransition follows the controller and scrolls the focused input into
// view when a scroll-container show settles.
func (l *Loop) onTransition(from, to avoid.State) {
	l.log.Debug("avoidance transition", "from", from, "to", to)
	if to != avoid.StateShown || !l.config.ScrollFocused {
		return
	}
	session, ok := l.controller.Session()
	if !ok || !session.UsedScroll {
		return
	}
	l.scrollToKeepFocusedInputVisible()
}

// scrollToKeepFocusedInputVisible scrolls the nearest scrollable parent to
// ensure the focused text input is visible above the keyboard.
func (l *Loop) scrollToKeepFocusedInputVisible() {
	focused := l.tree.FocusedWidget()
	if focused == nil || !focused.Kind().IsTextInput() {
		return
	}

	scrollParent := findScrollableParent(focused)
	if scrollParent == nil {
		return
	}

	root := l.tree.Root()
	obscured := ObscuredHeight(scrollParent, root, l.keyboardHeight)

	ScrollToWidgetWithKeyboard(scrollParent, focused, l.animations, DefaultScrollToConfig(), obscured)
}

// findScrollableParent walks up the widget tree to find the nearest scrollable container.
func findScrollableParent(w *Widget) *Widget {
	for parent := w.Parent(); parent != nil; parent = parent.Parent() {
		if parent.IsScrollable() && !parent.IsDestroyed() {
			return parent
		}
	}
	return nil
}

// Tick advances animations to now and collects widget updates. Returns true
// while another frame is needed.
func (l *Loop) Tick(now time.Time) bool {
	if l.paused.Load() {
		return l.animations.HasActive()
	}

	if l.startTime.IsZero() {
		l.startTime = now
		l.lastFrameTime = now
	}
	deltaTime := now.Sub(l.lastFrameTime).Seconds()
	totalTime := now.Sub(l.startTime).Seconds()
	l.lastFrameTime = now

	// Tick all animations - this updates widget properties
	hasActiveAnimations := l.animations.Tick(now)

	frameNum := l.tree.IncrementFrame()
	l.frameCount.Add(1)

	deltas := l.tree.DeduplicateUpdates(l.tree.CollectUpdates())

	if l.onFrame != nil {
		l.onFrame(FrameInfo{
			Number:    frameNum,
			DeltaTime: deltaTime,
			Time:      totalTime,
			Deltas:    deltas,
		})
	}

	return hasActiveAnimations
}

// Run ticks the loop at TargetFPS until ctx is cancelled. Events must be
// delivered from the same goroutine, typically through OnFrame, so Run is
// meant for headless hosts.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("loop already running")
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.targetFrameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(l.now())
		}
	}
}

// Pause pauses the loop. Animations keep their start times and jump ahead
// on resume.
func (l *Loop) Pause() {
	l.paused.Store(true)
}

// Resume resumes a paused loop.
func (l *Loop) Resume() {
	l.paused.Store(false)
}

// IsPaused returns whether the loop is paused.
func (l *Loop) IsPaused() bool {
	return l.paused.Load()
}

// IsRunning returns whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		FrameCount:      l.frameCount.Load(),
		TargetFPS:       l.config.TargetFPS,
		ActiveAnimation: l.animations.Count(),
		State:           l.controller.State(),
	}
}

// LoopStats contains loop metrics.
type LoopStats struct {
	FrameCount      uint64
	TargetFPS       int
	ActiveAnimation int
	State           avoid.State
}

// WatchConfig reloads the configuration file at path when it changes and
// applies the new extra offset to the controller. Only the extra offset is
// live; timings and easing apply to new loops. A previous watch is stopped.
func (l *Loop) WatchConfig(path string) error {
	w, err := softinput.NewWatcher(path, l.log)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	w.OnChange(func(cfg softinput.Config) {
		l.controller.SetExtraOffset(cfg.ExtraOffset)
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	l.controller.SetExtraOffset(w.Config().ExtraOffset)

	l.watchMu.Lock()
	old := l.watcher
	l.watcher = w
	l.watchMu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Close releases the notification subscription, the config watcher and
// the tree.
func (l *Loop) Close() error {
	l.controller.Close()

	l.watchMu.Lock()
	w := l.watcher
	l.watcher = nil
	l.watchMu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}
	l.tree.Close()
	return err
}
