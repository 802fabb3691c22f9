package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/softinput"
	"github.com/agiangrant/softinput/avoid"
	"github.com/agiangrant/softinput/retained"
)

var (
	ErrNoWidgets         = errors.New("scenario declares no widgets")
	ErrMultipleRoots     = errors.New("scenario declares more than one root widget")
	ErrNoContainer       = errors.New("container widget not found")
	ErrUnknownParent     = errors.New("unknown parent widget")
	ErrUnknownWidget     = errors.New("unknown widget")
	ErrDuplicateName     = errors.New("duplicate widget name")
	ErrUnknownKind       = errors.New("unknown widget kind")
	ErrUnknownEvent      = errors.New("unknown event type")
	ErrUnknownState      = errors.New("unknown controller state")
	ErrUnknownEasing     = errors.New("unknown easing")
	ErrBadGeometry       = errors.New("bad geometry")
	ErrExpectationFailed = errors.New("expectation failed")
)

// Scenario is a widget tree plus a timed script of host events, loaded from
// a TOML file.
type Scenario struct {
	Name      string           `toml:"name"`
	Container string           `toml:"container"` // widget the controller moves; defaults to the root
	TailMS    int64            `toml:"tail_ms"`   // simulated time after the last event
	Config    softinput.Config `toml:"config"`
	Widgets   []WidgetSpec     `toml:"widget"`
	Events    []EventSpec      `toml:"event"`
	Expect    []Expectation    `toml:"expect"`
}

// WidgetSpec declares one widget. Widgets are attached to their parent in
// declaration order; the one widget without a parent is the root.
type WidgetSpec struct {
	Name   string    `toml:"name"`
	Kind   string    `toml:"kind"`
	Parent string    `toml:"parent"`
	Text   string    `toml:"text"`
	Frame  []float32 `toml:"frame"`   // x, y, width, height
	Scroll []float32 `toml:"content"` // content width, height (scroll views)
	Inset  []float32 `toml:"inset"`   // top, right, bottom, left

	ScrollEnabled *bool `toml:"scroll_enabled"`
}

// EventSpec is one scripted host event.
//
//	keyboard      height, duration_ms
//	focus         target
//	blur
//	destroy       target
//	resize        width, height
//	extra_offset  value
type EventSpec struct {
	AtMS       int64   `toml:"at_ms"`
	Type       string  `toml:"type"`
	Target     string  `toml:"target"`
	Height     float64 `toml:"height"`
	Width      float64 `toml:"width"`
	DurationMS int64   `toml:"duration_ms"`
	Value      float64 `toml:"value"`
}

// Expectation is checked on the first frame at or after AtMS. Unset fields
// are not checked. Y, InsetBottom and ScrollY apply to Widget.
type Expectation struct {
	AtMS        int64    `toml:"at_ms"`
	State       string   `toml:"state"`
	Widget      string   `toml:"widget"`
	Y           *float32 `toml:"y"`
	InsetBottom *float32 `toml:"inset_bottom"`
	ScrollY     *float32 `toml:"scroll_y"`
}

const defaultTailMS = 1500

var widgetKinds = map[string]func(WidgetSpec) *retained.Widget{
	"container":   func(WidgetSpec) *retained.Widget { return retained.Container() },
	"vstack":      func(WidgetSpec) *retained.Widget { return retained.VStack() },
	"scroll_view": func(WidgetSpec) *retained.Widget { return retained.ScrollView() },
	"text":        func(s WidgetSpec) *retained.Widget { return retained.Text(s.Text) },
	"button":      func(s WidgetSpec) *retained.Widget { return retained.Button(s.Text) },
	"text_field":  func(s WidgetSpec) *retained.Widget { return retained.TextField(s.Text) },
	"text_area":   func(s WidgetSpec) *retained.Widget { return retained.TextArea(s.Text) },
}

var eventTypes = map[string]bool{
	"keyboard":     true,
	"focus":        true,
	"blur":         true,
	"destroy":      true,
	"resize":       true,
	"extra_offset": true,
}

// LoadScenario reads and validates a scenario file. Keys missing from the
// [config] table keep their defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario TOML.
func ParseScenario(data []byte) (*Scenario, error) {
	sc := &Scenario{Config: softinput.DefaultConfig()}
	if err := toml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks names, references and geometry without building anything.
func (sc *Scenario) Validate() error {
	if err := sc.Config.Validate(); err != nil {
		return err
	}
	if retained.EasingByName(sc.Config.Easing) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownEasing, sc.Config.Easing)
	}
	if len(sc.Widgets) == 0 {
		return ErrNoWidgets
	}

	names := make(map[string]bool, len(sc.Widgets))
	roots := 0
	for i, w := range sc.Widgets {
		if w.Name == "" {
			return fmt.Errorf("widget %d: %w: name is required", i, ErrUnknownWidget)
		}
		if names[w.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, w.Name)
		}
		names[w.Name] = true
		if _, ok := widgetKinds[w.Kind]; !ok {
			return fmt.Errorf("widget %q: %w: %q", w.Name, ErrUnknownKind, w.Kind)
		}
		if w.Parent == "" {
			roots++
		}
		if err := checkLen(w.Name, "frame", w.Frame, 4); err != nil {
			return err
		}
		if err := checkLen(w.Name, "content", w.Scroll, 2); err != nil {
			return err
		}
		if err := checkLen(w.Name, "inset", w.Inset, 4); err != nil {
			return err
		}
	}
	if roots > 1 {
		return ErrMultipleRoots
	}
	for _, w := range sc.Widgets {
		if w.Parent != "" && !names[w.Parent] {
			return fmt.Errorf("widget %q: %w: %q", w.Name, ErrUnknownParent, w.Parent)
		}
	}
	if sc.Container != "" && !names[sc.Container] {
		return fmt.Errorf("%w: %q", ErrNoContainer, sc.Container)
	}

	for _, e := range sc.Events {
		if !eventTypes[e.Type] {
			return fmt.Errorf("event at %dms: %w: %q", e.AtMS, ErrUnknownEvent, e.Type)
		}
		if (e.Type == "focus" || e.Type == "destroy") && !names[e.Target] {
			return fmt.Errorf("event at %dms: %w: %q", e.AtMS, ErrUnknownWidget, e.Target)
		}
		if e.AtMS < 0 || e.Height < 0 || e.Width < 0 || e.DurationMS < 0 {
			return fmt.Errorf("event at %dms: %w: negative value", e.AtMS, ErrBadGeometry)
		}
	}

	for _, x := range sc.Expect {
		if x.State != "" {
			if _, err := parseState(x.State); err != nil {
				return err
			}
		}
		if x.Widget != "" && !names[x.Widget] {
			return fmt.Errorf("expectation at %dms: %w: %q", x.AtMS, ErrUnknownWidget, x.Widget)
		}
		if x.Widget == "" && (x.Y != nil || x.InsetBottom != nil || x.ScrollY != nil) {
			return fmt.Errorf("expectation at %dms: %w: widget is required", x.AtMS, ErrUnknownWidget)
		}
	}
	return nil
}

func checkLen(name, field string, v []float32, n int) error {
	if v != nil && len(v) != n {
		return fmt.Errorf("widget %q: %w: %s needs %d values, got %d", name, ErrBadGeometry, field, n, len(v))
	}
	return nil
}

// Built is the widget tree a scenario describes.
type Built struct {
	Root      *retained.Widget
	Container *retained.Widget
	ByName    map[string]*retained.Widget
}

// Build creates the widget tree. The scenario must have been validated.
func (sc *Scenario) Build() (*Built, error) {
	b := &Built{ByName: make(map[string]*retained.Widget, len(sc.Widgets))}

	for _, spec := range sc.Widgets {
		newWidget, ok := widgetKinds[spec.Kind]
		if !ok {
			return nil, fmt.Errorf("widget %q: %w: %q", spec.Name, ErrUnknownKind, spec.Kind)
		}
		w := newWidget(spec).WithName(spec.Name)
		if len(spec.Frame) == 4 {
			w.SetFrame(spec.Frame[0], spec.Frame[1], spec.Frame[2], spec.Frame[3])
		}
		if len(spec.Scroll) == 2 {
			w.WithScroll(spec.Scroll[0], spec.Scroll[1])
		}
		if len(spec.Inset) == 4 {
			w.SetContentInset(retained.EdgeInsets{
				Top: spec.Inset[0], Right: spec.Inset[1], Bottom: spec.Inset[2], Left: spec.Inset[3],
			})
		}
		if spec.ScrollEnabled != nil {
			w.SetScrollEnabled(*spec.ScrollEnabled)
		}
		b.ByName[spec.Name] = w
		if spec.Parent == "" {
			if b.Root != nil {
				return nil, ErrMultipleRoots
			}
			b.Root = w
		}
	}
	if b.Root == nil {
		return nil, ErrNoWidgets
	}

	for _, spec := range sc.Widgets {
		if spec.Parent == "" {
			continue
		}
		parent, ok := b.ByName[spec.Parent]
		if !ok {
			return nil, fmt.Errorf("widget %q: %w: %q", spec.Name, ErrUnknownParent, spec.Parent)
		}
		parent.AddChild(b.ByName[spec.Name])
	}

	b.Container = b.Root
	if sc.Container != "" {
		c, ok := b.ByName[sc.Container]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoContainer, sc.Container)
		}
		b.Container = c
	}
	return b, nil
}

// sortedEvents returns the script ordered by time; events at the same time
// keep their file order.
func (sc *Scenario) sortedEvents() []EventSpec {
	events := append([]EventSpec(nil), sc.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].AtMS < events[j].AtMS })
	return events
}

func (sc *Scenario) sortedExpectations() []Expectation {
	expect := append([]Expectation(nil), sc.Expect...)
	sort.SliceStable(expect, func(i, j int) bool { return expect[i].AtMS < expect[j].AtMS })
	return expect
}

// endMS is the time after which the simulation stops once animations settle.
func (sc *Scenario) endMS() int64 {
	var last int64
	for _, e := range sc.Events {
		last = max(last, e.AtMS)
	}
	for _, x := range sc.Expect {
		last = max(last, x.AtMS)
	}
	tail := sc.TailMS
	if tail <= 0 {
		tail = defaultTailMS
	}
	return last + tail
}

func parseState(s string) (avoid.State, error) {
	for _, st := range []avoid.State{avoid.StateIdle, avoid.StateSlidingUp, avoid.StateShown, avoid.StateSlidingDown} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownState, s)
}
