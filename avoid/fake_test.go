package avoid

// fakeView is a minimal in-memory host view.
type fakeView struct {
	name     string
	parent   *fakeView
	children []*fakeView
	frame    Rect
	focused  bool
	dead     bool

	scrollable    bool
	contentOffset Point
	contentInset  Insets
	indicator     Insets

	setFrameCalls int
	setInsetCalls int
}

func newView(name string, frame Rect, children ...*fakeView) *fakeView {
	v := &fakeView{name: name, frame: frame}
	for _, c := range children {
		v.add(c)
	}
	return v
}

func newScroll(name string, frame Rect, children ...*fakeView) *fakeView {
	v := newView(name, frame, children...)
	v.scrollable = true
	return v
}

func (v *fakeView) add(c *fakeView) *fakeView {
	c.parent = v
	v.children = append(v.children, c)
	return v
}

func (v *fakeView) Parent() View {
	if v.parent == nil {
		return nil
	}
	if v.parent.scrollable {
		return (*fakeScroll)(v.parent)
	}
	return v.parent
}

func (v *fakeView) Children() []View {
	out := make([]View, 0, len(v.children))
	for _, c := range v.children {
		out = append(out, c.asView())
	}
	return out
}

func (v *fakeView) asView() View {
	if v.scrollable {
		return (*fakeScroll)(v)
	}
	return v
}

func (v *fakeView) Frame() Rect            { return v.frame }
func (v *fakeView) IsFirstResponder() bool { return v.focused }
func (v *fakeView) IsAlive() bool          { return v != nil && !v.dead }

func (v *fakeView) SetFrame(r Rect) {
	v.setFrameCalls++
	v.frame = r
}

// fakeScroll exposes the scroll capability of a fakeView.
type fakeScroll fakeView

func (s *fakeScroll) v() *fakeView { return (*fakeView)(s) }

func (s *fakeScroll) Parent() View            { return s.v().Parent() }
func (s *fakeScroll) Children() []View        { return s.v().Children() }
func (s *fakeScroll) Frame() Rect             { return s.v().Frame() }
func (s *fakeScroll) IsFirstResponder() bool  { return s.v().IsFirstResponder() }
func (s *fakeScroll) IsAlive() bool           { return s != nil && !s.dead }
func (s *fakeScroll) IsScrollEnabled() bool   { return true }
func (s *fakeScroll) ContentSize() Size       { return Size{s.frame.Width, s.frame.Height * 2} }
func (s *fakeScroll) ContentOffset() Point    { return s.contentOffset }
func (s *fakeScroll) SetContentOffset(p Point) { s.contentOffset = p }
func (s *fakeScroll) ContentInset() Insets    { return s.contentInset }
func (s *fakeScroll) ScrollIndicatorInsets() Insets {
	return s.indicator
}

func (s *fakeScroll) SetContentInset(in Insets) {
	s.setInsetCalls++
	s.contentInset = in
}

func (s *fakeScroll) SetScrollIndicatorInsets(in Insets) {
	s.indicator = in
}

// manualAnimator queues animations until the test finishes them.
type manualAnimator struct {
	runs []*Animation
}

func (m *manualAnimator) Run(a Animation) {
	m.runs = append(m.runs, &a)
}

// finish plays the oldest pending animation to the end.
func (m *manualAnimator) finish() {
	if len(m.runs) == 0 {
		return
	}
	a := m.runs[0]
	m.runs = m.runs[1:]
	if a.Begin != nil {
		a.Begin()
	}
	if a.Step != nil {
		a.Step(0.5)
		a.Step(1)
	}
	if a.Completion != nil {
		a.Completion(true)
	}
}

// supersede drops the oldest pending animation without running it, the way
// a newer animation on the same property replaces it.
func (m *manualAnimator) supersede() {
	if len(m.runs) == 0 {
		return
	}
	a := m.runs[0]
	m.runs = m.runs[1:]
	if a.Completion != nil {
		a.Completion(false)
	}
}

func (m *manualAnimator) pending() int {
	return len(m.runs)
}
