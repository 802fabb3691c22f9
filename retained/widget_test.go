package retained

import "testing"

func TestWidgetCreation(t *testing.T) {
	tests := []struct {
		name      string
		widget    *Widget
		wantKind  WidgetKind
		wantInput bool
	}{
		{"Container", Container(), KindContainer, false},
		{"VStack", VStack(), KindVStack, false},
		{"ScrollView", ScrollView(), KindScrollView, false},
		{"Text", Text("Hello"), KindText, false},
		{"Button", Button("Click"), KindButton, false},
		{"TextField", TextField("Email"), KindTextField, true},
		{"TextArea", TextArea("Notes"), KindTextArea, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.widget.Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
			if got := tt.widget.Kind().IsTextInput(); got != tt.wantInput {
				t.Errorf("IsTextInput() = %v, want %v", got, tt.wantInput)
			}
		})
	}
}

func TestWidgetIDsAreUnique(t *testing.T) {
	seen := make(map[WidgetID]bool)
	for i := 0; i < 100; i++ {
		id := NewWidget(KindContainer).ID()
		if seen[id] {
			t.Fatalf("duplicate widget ID %d", id)
		}
		seen[id] = true
	}
}

func TestWidgetChildren(t *testing.T) {
	a, b := Text("a"), Text("b")
	parent := VStack(a, b)

	if n := len(parent.Children()); n != 2 {
		t.Fatalf("expected 2 children, got %d", n)
	}
	if a.Parent() != parent {
		t.Error("child parent not set")
	}

	c := Text("c")
	parent.InsertChild(0, c)
	if parent.Children()[0] != c {
		t.Error("InsertChild(0) did not insert at the front")
	}

	b.RemoveFromParent()
	if b.Parent() != nil {
		t.Error("removed child still has a parent")
	}
	if n := len(parent.Children()); n != 2 {
		t.Errorf("expected 2 children after removal, got %d", n)
	}
	if parent.RemoveChild(b) {
		t.Error("RemoveChild of a non-child reported success")
	}
}

func TestWidgetScrollState(t *testing.T) {
	sv := ScrollView()
	if !sv.IsScrollable() {
		t.Fatal("ScrollView should be scrollable")
	}
	sv.SetScrollEnabled(false)
	if sv.IsScrollable() {
		t.Error("disabled ScrollView reported scrollable")
	}
	if Container().WithScroll(100, 1000).IsScrollable() {
		t.Error("only scroll views scroll")
	}

	sv.SetScroll(0, 42)
	if _, y := sv.ScrollPosition(); y != 42 {
		t.Errorf("scrollY = %v, want 42", y)
	}

	in := EdgeInsets{Top: 1, Bottom: 2}
	sv.SetContentInset(in)
	sv.SetScrollIndicatorInsets(in)
	if sv.ContentInset() != in || sv.ScrollIndicatorInsets() != in {
		t.Error("insets not stored")
	}
}

func TestWidgetDirtyTracking(t *testing.T) {
	field := TextField("Name")
	root := Container(field)
	tree := NewTree()
	tree.SetRoot(root)
	tree.CollectUpdates()

	if tree.HasPendingUpdates() {
		t.Fatal("expected clean tree after collect")
	}

	field.SetFrame(0, 10, 100, 40)
	if !tree.HasPendingUpdates() {
		t.Fatal("expected pending updates after SetFrame")
	}
	if mask := field.DirtyMask(); mask&(DirtyPosition|DirtySize) != DirtyPosition|DirtySize {
		t.Errorf("dirty mask = %b, want position and size", mask)
	}

	// Setting the same frame again is not a change
	tree.CollectUpdates()
	field.SetFrame(0, 10, 100, 40)
	if tree.HasPendingUpdates() {
		t.Error("unchanged frame marked the tree dirty")
	}

	field.SetContentInset(EdgeInsets{Bottom: 5})
	deltas := tree.DeduplicateUpdates(tree.CollectUpdates())
	if d := deltas[field.ID()]; d == nil || d.DirtyMask&DirtyInsets == 0 {
		t.Error("expected an inset delta for the field")
	}
	if field.IsDirty() {
		t.Error("collect should clear widget dirty state")
	}
}

func TestWidgetFocus(t *testing.T) {
	first, second := TextField("first"), TextField("second")
	root := Container(first, second)
	tree := NewTree()
	tree.SetRoot(root)

	var events []string
	first.OnFocus(func(*Widget) { events = append(events, "focus first") })
	first.OnBlur(func(*Widget) { events = append(events, "blur first") })
	second.OnFocus(func(*Widget) { events = append(events, "focus second") })

	first.Focus()
	second.Focus()

	want := []string{"focus first", "blur first", "focus second"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
	if tree.FocusedWidget() != second || first.IsFocused() || !second.IsFocused() {
		t.Error("focus did not move to second field")
	}

	// Detached widgets cannot take focus
	stray := TextField("stray")
	tree.Focus(stray)
	if tree.FocusedWidget() != second {
		t.Error("detached widget took focus")
	}
}

func TestWidgetDestroy(t *testing.T) {
	field := TextField("Name")
	form := VStack(field)
	root := Container(form)
	tree := NewTree()
	tree.SetRoot(root)
	field.Focus()

	form.Destroy()

	if !form.IsDestroyed() || !field.IsDestroyed() {
		t.Error("destroy should mark the whole subtree")
	}
	if form.Parent() != nil || len(root.Children()) != 0 {
		t.Error("destroyed widget still attached")
	}
	if tree.FocusedWidget() != nil || field.IsFocused() {
		t.Error("destroying the focused subtree should blur it")
	}

	tree.Focus(field)
	if tree.FocusedWidget() != nil {
		t.Error("destroyed widget took focus")
	}
}

func TestTreeFindByName(t *testing.T) {
	field := TextField("Email").WithName("email")
	root := Container(VStack(Text("Title").WithName("title"), field))
	tree := NewTree()
	tree.SetRoot(root)

	if got := tree.FindByName("email"); got != field {
		t.Errorf("FindByName(email) = %v, want field", got)
	}
	if got := tree.FindByName("missing"); got != nil {
		t.Errorf("FindByName(missing) = %v, want nil", got)
	}
	if got := tree.Widget(field.ID()); got != field {
		t.Error("Widget(id) lookup failed")
	}

	late := Text("late")
	root.AddChild(late)
	if got := tree.Widget(late.ID()); got != late {
		t.Error("widgets added after SetRoot should be found")
	}
}

func TestWidgetBounds(t *testing.T) {
	w := TextField("Email").WithFrame(10, 20, 100, 40)
	b := w.Bounds()

	tests := []struct {
		x, y float32
		want bool
	}{
		{10, 20, true},
		{109, 59, true},
		{110, 30, false}, // right edge is exclusive
		{50, 60, false},
		{9, 30, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
