package avoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFocused(t *testing.T) {
	a := newView("a", Rect{Width: 10, Height: 10})
	b := newView("b", Rect{Width: 10, Height: 10})
	c := newView("c", Rect{Width: 10, Height: 10})
	root := newView("root", Rect{Width: 100, Height: 100},
		newView("left", Rect{}, a, b),
		newView("right", Rect{}, c),
	)

	tests := []struct {
		name    string
		focused []*fakeView
		want    *fakeView
	}{
		{"none", nil, nil},
		{"single", []*fakeView{c}, c},
		{"first in depth-first order wins", []*fakeView{b, c}, b},
		{"root itself", []*fakeView{root}, root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range []*fakeView{root, a, b, c} {
				v.focused = false
			}
			for _, v := range tt.focused {
				v.focused = true
			}

			got := FindFocused(root)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}

func TestFindFocusedSkipsDeadSubtrees(t *testing.T) {
	field := newView("field", Rect{Width: 10, Height: 10})
	field.focused = true
	branch := newView("branch", Rect{}, field)
	root := newView("root", Rect{Width: 100, Height: 100}, branch)

	branch.dead = true
	assert.Nil(t, FindFocused(root))

	branch.dead = false
	assert.Same(t, field, FindFocused(root))
}

func TestFindFocusedTerminatesOnCycle(t *testing.T) {
	root := newView("root", Rect{Width: 100, Height: 100})
	child := newView("child", Rect{})
	root.add(child)
	// Alias the root under its own child
	child.children = append(child.children, root)

	assert.Nil(t, FindFocused(root))
}

func TestFindFocusedNilRoot(t *testing.T) {
	assert.Nil(t, FindFocused(nil))

	var dead *fakeView
	assert.Nil(t, FindFocused(dead))
}

func TestFindScrollAncestor(t *testing.T) {
	field := newView("field", Rect{Width: 10, Height: 10})
	inner := newView("inner", Rect{}, field)
	scroll := newScroll("scroll", Rect{Width: 100, Height: 100}, inner)
	container := newView("container", Rect{Width: 100, Height: 100}, scroll)
	root := newView("root", Rect{Width: 100, Height: 100}, container)

	t.Run("finds nearest scroll ancestor", func(t *testing.T) {
		got := FindScrollAncestor(field, container)
		require.NotNil(t, got)
		assert.Same(t, (*fakeScroll)(scroll), got)
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		got := FindScrollAncestor(field, scroll.asView())
		require.NotNil(t, got)
		assert.Same(t, (*fakeScroll)(scroll), got)
	})

	t.Run("stops at boundary below the scroll container", func(t *testing.T) {
		assert.Nil(t, FindScrollAncestor(field, inner))
	})

	t.Run("not a descendant", func(t *testing.T) {
		stray := newView("stray", Rect{Width: 10, Height: 10})
		other := newView("other", Rect{}, stray)
		_ = other
		assert.Nil(t, FindScrollAncestor(stray, container))
	})

	t.Run("no scroll container", func(t *testing.T) {
		f := newView("f", Rect{Width: 10, Height: 10})
		box := newView("box", Rect{Width: 100, Height: 100}, f)
		assert.Nil(t, FindScrollAncestor(f, box))
	})

	t.Run("dead scroll container is skipped", func(t *testing.T) {
		scroll.dead = true
		defer func() { scroll.dead = false }()
		assert.Nil(t, FindScrollAncestor(field, root))
	})
}

func TestFindScrollAncestorTerminatesOnParentCycle(t *testing.T) {
	a := newView("a", Rect{})
	b := newView("b", Rect{})
	field := newView("field", Rect{Width: 10, Height: 10})
	boundary := newView("boundary", Rect{}, newView("x", Rect{}))

	// field -> a -> b -> a -> ... never reaching boundary
	field.parent = a
	a.parent = b
	b.parent = a

	assert.Nil(t, FindScrollAncestor(field, boundary))
}
