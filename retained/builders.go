package retained

// Builder helpers for common widget patterns.
// These provide a fluent API for constructing UI trees.

// Container creates a generic container widget.
func Container(children ...*Widget) *Widget {
	w := NewWidget(KindContainer)
	for _, child := range children {
		w.AddChild(child)
	}
	return w
}

// VStack creates a vertical stack container.
// Children are laid out top-to-bottom by the caller.
func VStack(children ...*Widget) *Widget {
	w := NewWidget(KindVStack)
	for _, child := range children {
		w.AddChild(child)
	}
	return w
}

// ScrollView creates a scrollable container.
func ScrollView(children ...*Widget) *Widget {
	w := NewWidget(KindScrollView)
	w.scrollEnabled = true
	for _, child := range children {
		w.AddChild(child)
	}
	return w
}

// Text creates a text label widget.
func Text(text string) *Widget {
	w := NewWidget(KindText)
	w.text = text
	return w
}

// Button creates a button widget.
func Button(text string) *Widget {
	w := NewWidget(KindButton)
	w.text = text
	return w
}

// TextField creates a single-line text input widget.
func TextField(placeholder string) *Widget {
	w := NewWidget(KindTextField)
	w.text = placeholder
	return w
}

// TextArea creates a multi-line text input widget.
func TextArea(placeholder string) *Widget {
	w := NewWidget(KindTextArea)
	w.text = placeholder
	return w
}

// ============================================================================
// Fluent modifiers
// ============================================================================

// With applies a function to the widget for inline configuration.
func (w *Widget) With(fn func(*Widget)) *Widget {
	fn(w)
	return w
}

// WithChildren adds children to the widget.
func (w *Widget) WithChildren(children ...*Widget) *Widget {
	for _, child := range children {
		w.AddChild(child)
	}
	return w
}

// WithName sets the widget's lookup name.
func (w *Widget) WithName(name string) *Widget {
	return w.SetName(name)
}

// WithFrame sets position and size.
func (w *Widget) WithFrame(x, y, width, height float32) *Widget {
	return w.SetFrame(x, y, width, height)
}

// WithScroll sets the scrollable content size and enables scrolling.
func (w *Widget) WithScroll(contentWidth, contentHeight float32) *Widget {
	w.SetContentSize(contentWidth, contentHeight)
	return w.SetScrollEnabled(true)
}

// WithContentInset sets the scroll content inset.
func (w *Widget) WithContentInset(in EdgeInsets) *Widget {
	return w.SetContentInset(in)
}
