package avoid

import (
	"log/slog"
	"sync"

	"github.com/agiangrant/softinput/internal/ffi"
)

// Source delivers raw engine events. *ffi.NotificationCenter implements it.
type Source interface {
	Subscribe(func(ffi.Event)) (unsubscribe func())
}

// Sink receives normalized panel signals. *Controller implements it.
type Sink interface {
	Show(height float64)
	Hide()
}

// Bridge subscribes to a Source for its lifetime and turns keyboard frame
// events into Show and Hide calls on a Sink.
type Bridge struct {
	sink        Sink
	log         *slog.Logger
	unsubscribe func()
	closeOnce   sync.Once
}

// NewBridge subscribes to src. With a nil src (headless targets, platforms
// without a soft keyboard) the bridge never forwards anything.
func NewBridge(src Source, sink Sink, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Bridge{sink: sink, log: logger}
	if src == nil || sink == nil {
		b.unsubscribe = func() {}
		return b
	}
	b.unsubscribe = src.Subscribe(b.handle)
	return b
}

func (b *Bridge) handle(ev ffi.Event) {
	if ev.Type != ffi.EventKeyboardFrameChanged {
		return
	}
	height := ev.KeyboardHeight()
	if height > 0 {
		b.log.Debug("panel will show", "height", height)
		b.sink.Show(height)
		return
	}
	b.log.Debug("panel will hide")
	b.sink.Hide()
}

// Close releases the subscription. Safe to call more than once.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		b.unsubscribe()
	})
}
