package retained

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/softinput/avoid"
	"github.com/agiangrant/softinput/internal/ffi"
)

const keyboardAnim = 250 * time.Millisecond

type frameHost struct {
	clock     *manualClock
	loop      *Loop
	root      *Widget
	container *Widget
	field     *Widget
}

// newFrameHost builds a 400x800 screen whose container sits at y=100 and
// holds a field whose bottom edge is 250pt below the top of a 300pt panel.
func newFrameHost(t *testing.T, cfg LoopConfig) *frameHost {
	t.Helper()
	h := &frameHost{clock: newManualClock()}
	h.field = TextField("Email").WithName("email").WithFrame(0, 610, 200, 40)
	h.container = VStack(h.field).WithFrame(0, 100, 400, 700)
	h.root = Container(h.container).WithFrame(0, 0, 400, 800)

	cfg.Clock = h.clock.Now
	if cfg.Notifications == nil {
		cfg.Notifications = ffi.NewNotificationCenter()
	}
	h.loop = NewLoop(h.root, h.container, cfg)
	t.Cleanup(func() { h.loop.Close() })
	return h
}

func (h *frameHost) containerY() float32 {
	_, y, _, _ := h.container.Frame()
	return y
}

func (h *frameHost) settle() {
	for i := 0; i < 100 && h.loop.Tick(h.clock.Advance(16*time.Millisecond)); i++ {
	}
}

func TestLoopFrameScenario(t *testing.T) {
	h := newFrameHost(t, LoopConfig{Avoid: avoid.Config{ExtraOffset: 10}})
	ctrl := h.loop.Controller()

	var shown []avoid.SoftInputEvent
	ctrl.OnSoftInputShown(func(e avoid.SoftInputEvent) { shown = append(shown, e) })

	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	assert.Equal(t, avoid.StateSlidingUp, ctrl.State())
	assert.Equal(t, []avoid.SoftInputEvent{{SoftInputHeight: 300}}, shown)

	// Inside the 300ms show delay nothing moves
	h.loop.Tick(h.clock.Advance(200 * time.Millisecond))
	assert.Equal(t, float32(100), h.containerY())

	h.loop.Tick(h.clock.Advance(400 * time.Millisecond))
	mid := h.containerY()
	assert.Less(t, mid, float32(100))
	assert.Greater(t, mid, float32(-160))

	h.settle()
	assert.Equal(t, avoid.StateShown, ctrl.State())
	assert.Equal(t, float32(-160), h.containerY())

	session, ok := ctrl.Session()
	require.True(t, ok)
	assert.Equal(t, 100.0, session.OriginY)
	assert.Equal(t, 260.0, session.BottomOffset)
	assert.False(t, session.UsedScroll)

	h.loop.HandleEvent(ffi.KeyboardFrameChanged(0, keyboardAnim))
	assert.Equal(t, avoid.StateSlidingDown, ctrl.State())
	h.settle()

	assert.Equal(t, avoid.StateIdle, ctrl.State())
	assert.Equal(t, float32(100), h.containerY())
	_, ok = ctrl.Session()
	assert.False(t, ok)
}

func TestLoopHideDuringShowDelay(t *testing.T) {
	h := newFrameHost(t, LoopConfig{})
	ctrl := h.loop.Controller()

	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	h.loop.Tick(h.clock.Advance(100 * time.Millisecond))
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(0, keyboardAnim))

	assert.Equal(t, avoid.StateSlidingDown, ctrl.State())
	assert.Equal(t, 1, h.loop.Animations().Count(), "hide supersedes the pending show")

	h.settle()
	assert.Equal(t, avoid.StateIdle, ctrl.State())
	assert.Equal(t, float32(100), h.containerY())
}

func TestLoopShowWithoutFocusAborts(t *testing.T) {
	h := newFrameHost(t, LoopConfig{})
	ctrl := h.loop.Controller()

	// A focused button is not a first responder
	button := Button("Go")
	h.container.AddChild(button)
	button.Focus()

	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	assert.Equal(t, avoid.StateIdle, ctrl.State())
	assert.False(t, h.loop.Animations().HasActive())

	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	assert.Equal(t, avoid.StateSlidingUp, ctrl.State())
}

func TestLoopFocusedFieldDestroyedWhileShown(t *testing.T) {
	h := newFrameHost(t, LoopConfig{})
	ctrl := h.loop.Controller()

	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	h.settle()
	require.Equal(t, avoid.StateShown, ctrl.State())
	shifted := h.containerY()

	h.field.Destroy()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(0, keyboardAnim))

	assert.Equal(t, avoid.StateIdle, ctrl.State())
	assert.False(t, h.loop.Animations().HasActive())
	assert.Equal(t, shifted, h.containerY(), "nothing is restored without a live focused view")
}

type scrollHost struct {
	*frameHost
	scroll *Widget
}

func newScrollHost(t *testing.T, cfg LoopConfig) *scrollHost {
	t.Helper()
	h := &scrollHost{frameHost: &frameHost{clock: newManualClock()}}
	h.field = TextField("Notes").WithFrame(0, 610, 200, 40)
	h.scroll = ScrollView(h.field).
		WithFrame(0, 100, 400, 700).
		WithScroll(400, 1400).
		WithContentInset(EdgeInsets{Top: 4, Bottom: 20})
	h.container = VStack(h.scroll).WithFrame(0, 0, 400, 800)
	h.root = Container(h.container).WithFrame(0, 0, 400, 800)

	cfg.Clock = h.clock.Now
	cfg.Notifications = ffi.NewNotificationCenter()
	h.loop = NewLoop(h.root, h.container, cfg)
	t.Cleanup(func() { h.loop.Close() })
	return h
}

func TestLoopScrollScenario(t *testing.T) {
	h := newScrollHost(t, LoopConfig{Avoid: avoid.Config{ExtraOffset: 10}})
	ctrl := h.loop.Controller()

	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	h.settle()

	require.Equal(t, avoid.StateShown, ctrl.State())
	assert.Equal(t, EdgeInsets{Top: 4, Bottom: 260}, h.scroll.ContentInset())
	assert.Equal(t, EdgeInsets{Bottom: 260}, h.scroll.ScrollIndicatorInsets())
	assert.Equal(t, float32(0), h.containerY(), "container does not move when a scroll view absorbs the shift")
	_, scrollY := h.scroll.ScrollPosition()
	assert.Zero(t, scrollY, "scrolling the field into view is opt-in")

	h.loop.HandleEvent(ffi.KeyboardFrameChanged(0, keyboardAnim))
	h.settle()

	assert.Equal(t, avoid.StateIdle, ctrl.State())
	assert.Equal(t, EdgeInsets{Top: 4, Bottom: 20}, h.scroll.ContentInset())
	assert.Equal(t, EdgeInsets{}, h.scroll.ScrollIndicatorInsets())
}

func TestLoopScrollFocusedIntoView(t *testing.T) {
	h := newScrollHost(t, LoopConfig{Avoid: avoid.Config{ExtraOffset: 10}, ScrollFocused: true})

	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	h.settle()

	// 300pt of the scroll view are covered, leaving 400pt visible; the
	// field's bottom (650) plus 20pt padding must fit.
	_, scrollY := h.scroll.ScrollPosition()
	assert.Equal(t, float32(270), scrollY)
}

func TestLoopHandlesLifecycleEvents(t *testing.T) {
	h := newFrameHost(t, LoopConfig{})

	assert.True(t, h.loop.HandleEvent(ffi.Event{Type: ffi.EventResized, Data1: 390, Data2: 844}))
	w, ht := h.loop.WindowSize()
	assert.Equal(t, float32(390), w)
	assert.Equal(t, float32(844), ht)
	_, _, rw, rh := h.root.Frame()
	assert.Equal(t, float32(390), rw)
	assert.Equal(t, float32(844), rh)

	h.loop.HandleEvent(ffi.Event{Type: ffi.EventSuspended})
	assert.True(t, h.loop.IsPaused())
	h.loop.HandleEvent(ffi.Event{Type: ffi.EventResumed})
	assert.False(t, h.loop.IsPaused())

	h.loop.OnEvent(func(e ffi.Event) bool { return e.Type == ffi.EventKeyboardFrameChanged })
	h.field.Focus()
	h.loop.HandleEvent(ffi.KeyboardFrameChanged(300, keyboardAnim))
	assert.Equal(t, avoid.StateIdle, h.loop.Controller().State(), "consumed events never reach the controller")
}

func TestLoopOnFrameReportsDeltas(t *testing.T) {
	h := newFrameHost(t, LoopConfig{})

	var frames []FrameInfo
	h.loop.OnFrame(func(f FrameInfo) { frames = append(frames, f) })

	h.loop.Tick(h.clock.Advance(16 * time.Millisecond))
	h.field.SetText("hello")
	h.loop.Tick(h.clock.Advance(16 * time.Millisecond))

	require.Len(t, frames, 2)
	assert.Equal(t, uint64(2), frames[1].Number)
	assert.InDelta(t, 0.016, frames[1].DeltaTime, 1e-9)
	require.Contains(t, frames[1].Deltas, h.field.ID())
	assert.NotZero(t, frames[1].Deltas[h.field.ID()].DirtyMask&DirtyText)
	assert.Equal(t, uint64(2), h.loop.Stats().FrameCount)
}

func TestLoopWatchConfigUpdatesExtraOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softinput.toml")
	require.NoError(t, os.WriteFile(path, []byte("extra_offset = 5.0\n"), 0644))

	h := newFrameHost(t, LoopConfig{})
	require.NoError(t, h.loop.WatchConfig(path))
	assert.Equal(t, 5.0, h.loop.Controller().ExtraOffset())

	require.NoError(t, os.WriteFile(path, []byte("extra_offset = 24.0\n"), 0644))
	assert.Eventually(t, func() bool {
		return h.loop.Controller().ExtraOffset() == 24
	}, 3*time.Second, 20*time.Millisecond)
}
