package retained

import (
	"time"

	"github.com/agiangrant/softinput/avoid"
)

// ============================================================================
// Scroll Animation Utilities
// ============================================================================

// ScrollToConfig configures a scroll animation.
type ScrollToConfig struct {
	Duration   time.Duration       // Animation duration (default: 250ms)
	Easing     EasingFunc          // Easing function (default: EaseOutCubic)
	Padding    float32             // Padding from edges when scrolling to widget (default: 20)
	OnComplete func(finished bool) // Called when animation completes or is superseded
}

// DefaultScrollToConfig returns sensible defaults for scroll animations.
func DefaultScrollToConfig() ScrollToConfig {
	return ScrollToConfig{
		Duration: 250 * time.Millisecond,
		Easing:   EaseOutCubic,
		Padding:  20,
	}
}

func (cfg *ScrollToConfig) applyDefaults() {
	def := DefaultScrollToConfig()
	if cfg.Duration == 0 {
		cfg.Duration = def.Duration
	}
	if cfg.Easing == nil {
		cfg.Easing = def.Easing
	}
	if cfg.Padding == 0 {
		cfg.Padding = def.Padding
	}
}

// ScrollToWidget animates scrolling to make a target widget visible within
// this scroll container. Returns nil if the widget is not a descendant or
// no scrolling is needed.
func ScrollToWidget(scrollContainer *Widget, target *Widget, registry *AnimationRegistry, cfg ScrollToConfig) *Animation {
	return ScrollToWidgetWithKeyboard(scrollContainer, target, registry, cfg, 0)
}

// ScrollToWidgetWithKeyboard is like ScrollToWidget but treats the bottom
// obscured pixels of the scroll container as hidden. Use this after the
// keyboard has come up and the container's bottom inset has grown.
func ScrollToWidgetWithKeyboard(scrollContainer *Widget, target *Widget, registry *AnimationRegistry, cfg ScrollToConfig, obscured float32) *Animation {
	if scrollContainer == nil || target == nil || registry == nil {
		return nil
	}
	cfg.applyDefaults()

	targetScrollY, needsScroll := calculateScrollToWidget(scrollContainer, target, cfg.Padding, obscured)
	if !needsScroll {
		return nil
	}

	builder := scrollContainer.Animate(registry).
		Duration(cfg.Duration).
		Easing(cfg.Easing)

	if cfg.OnComplete != nil {
		builder = builder.OnComplete(cfg.OnComplete)
	}

	return builder.ScrollToY(targetScrollY)
}

// ObscuredHeight returns how many points at the bottom of w are covered by
// a panel of panelHeight rising from the bottom of root. Returns 0 when w is
// not under root.
func ObscuredHeight(w, root *Widget, panelHeight float32) float32 {
	r, ok := avoid.ConvertRect(NodeOf(w), NodeOf(root))
	if !ok {
		return 0
	}
	_, _, _, rootHeight := root.Frame()
	covered := float32(r.Bottom()) - (rootHeight - panelHeight)
	if covered < 0 {
		return 0
	}
	if covered > float32(r.Height) {
		return float32(r.Height)
	}
	return covered
}

// contentY returns target's Y in scrollContainer's content coordinates.
func contentY(scrollContainer, target *Widget) (float32, bool) {
	var y float32
	for w := target; w != nil; w = w.Parent() {
		if w == scrollContainer {
			return y, true
		}
		_, wy, _, _ := w.Frame()
		if w != target {
			// Nested scroll views shift their content
			_, sy := w.ScrollPosition()
			y -= sy
		}
		y += wy
	}
	return 0, false
}

// calculateScrollToWidget calculates the scroll position needed to make a widget visible.
// Returns the target scrollY and whether scrolling is needed.
func calculateScrollToWidget(scrollContainer *Widget, target *Widget, padding float32, obscured float32) (float32, bool) {
	widgetContentY, ok := contentY(scrollContainer, target)
	if !ok || target == scrollContainer {
		return 0, false
	}
	_, _, _, targetHeight := target.Frame()
	_, _, _, containerHeight := scrollContainer.Frame()
	widgetContentBottom := widgetContentY + targetHeight

	// Get current scroll position
	scrollContainer.mu.RLock()
	currentScrollY := scrollContainer.scrollY
	contentHeight := scrollContainer.contentHeight
	inset := scrollContainer.contentInset
	scrollContainer.mu.RUnlock()

	// Calculate visible height (accounting for keyboard)
	visibleHeight := containerHeight - obscured
	if visibleHeight < 0 {
		visibleHeight = 0
	}

	// Visible content area
	visibleContentTop := currentScrollY + padding
	visibleContentBottom := currentScrollY + visibleHeight - padding

	// Check if widget is already fully visible
	if widgetContentY >= visibleContentTop && widgetContentBottom <= visibleContentBottom {
		return currentScrollY, false
	}

	var targetScrollY float32
	if widgetContentBottom > visibleContentBottom {
		// Widget bottom is below visible area - scroll to bring it up
		targetScrollY = widgetContentBottom - visibleHeight + padding

		// Don't scroll so much that widget top goes above visible area
		maxScrollY := widgetContentY - padding
		if targetScrollY > maxScrollY {
			targetScrollY = maxScrollY
		}
	} else {
		// Widget top is above visible area - scroll to bring it down
		targetScrollY = widgetContentY - padding
	}

	// Clamp to the scrollable range, which the bottom inset extends
	maxScroll := contentHeight + inset.Bottom - containerHeight
	if targetScrollY > maxScroll {
		targetScrollY = maxScroll
	}
	if targetScrollY < 0 {
		targetScrollY = 0
	}

	if targetScrollY == currentScrollY {
		return currentScrollY, false
	}
	return targetScrollY, true
}
