package retained

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateScrollToWidget(t *testing.T) {
	tests := []struct {
		name     string
		fieldY   float32
		scrollY  float32
		obscured float32
		want     float32
		wantOK   bool
	}{
		{"already visible", 100, 0, 0, 0, false},
		{"below the fold", 700, 0, 0, 260, true},
		{"hidden by keyboard", 610, 0, 300, 470, true},
		{"above the viewport", 50, 400, 0, 30, true},
		{"clamped to content", 1350, 0, 0, 700, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := TextField("f").WithFrame(0, tt.fieldY, 200, 40)
			scroll := ScrollView(field).WithFrame(0, 0, 400, 500).WithScroll(400, 1200)
			scroll.SetScroll(0, tt.scrollY)

			got, ok := calculateScrollToWidget(scroll, field, 20, tt.obscured)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCalculateScrollToWidgetNotDescendant(t *testing.T) {
	scroll := ScrollView().WithFrame(0, 0, 400, 500)
	_, ok := calculateScrollToWidget(scroll, TextField("stray"), 20, 0)
	assert.False(t, ok)
	_, ok = calculateScrollToWidget(scroll, scroll, 20, 0)
	assert.False(t, ok)
}

func TestContentYCrossesNestedScrollViews(t *testing.T) {
	field := TextField("f").WithFrame(0, 30, 100, 20)
	inner := ScrollView(field).WithFrame(0, 200, 400, 100)
	inner.SetScroll(0, 10)
	outer := ScrollView(VStack(inner).WithFrame(0, 50, 400, 600))

	y, ok := contentY(outer, field)
	require.True(t, ok)
	assert.Equal(t, float32(30-10+200+50), y)
}

func TestObscuredHeight(t *testing.T) {
	scroll := ScrollView().WithFrame(0, 100, 400, 700)
	root := Container(scroll).WithFrame(0, 0, 400, 800)

	assert.Equal(t, float32(300), ObscuredHeight(scroll, root, 300))
	assert.Equal(t, float32(0), ObscuredHeight(scroll, root, 0))
	assert.Equal(t, float32(700), ObscuredHeight(scroll, root, 900), "capped at the view height")
	assert.Equal(t, float32(0), ObscuredHeight(ScrollView(), root, 300), "not under root")
}

func TestScrollToWidgetAnimates(t *testing.T) {
	clock := newManualClock()
	r := newTestRegistry(clock)

	field := TextField("f").WithFrame(0, 700, 200, 40)
	scroll := ScrollView(field).WithFrame(0, 0, 400, 500).WithScroll(400, 1200)

	var finished []bool
	cfg := DefaultScrollToConfig()
	cfg.OnComplete = func(ok bool) { finished = append(finished, ok) }

	anim := ScrollToWidget(scroll, field, r, cfg)
	require.NotNil(t, anim)

	r.Tick(clock.Advance(time.Second))
	_, y := scroll.ScrollPosition()
	assert.Equal(t, float32(260), y)
	assert.Equal(t, []bool{true}, finished)

	assert.Nil(t, ScrollToWidget(scroll, field, r, cfg), "already in view")
	assert.Nil(t, ScrollToWidget(nil, field, r, cfg))
}
