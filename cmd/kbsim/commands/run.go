package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/agiangrant/softinput"
	"github.com/agiangrant/softinput/avoid"
	"github.com/agiangrant/softinput/internal/ffi"
	"github.com/agiangrant/softinput/retained"
)

// Transition is one controller state change seen during a simulation.
type Transition struct {
	At         time.Duration
	From, To   avoid.State
	Session    string
	ContainerY float32
}

// WidgetSnapshot is the avoidance-relevant state of a widget at the end of a
// simulation.
type WidgetSnapshot struct {
	Name            string
	Kind            retained.WidgetKind
	Y               float32
	ScrollY         float32
	ContentInset    retained.EdgeInsets
	IndicatorInsets retained.EdgeInsets
}

// Result summarizes a simulation.
type Result struct {
	RunID       uuid.UUID
	Scenario    string
	Frames      uint64
	Elapsed     time.Duration
	FinalState  avoid.State
	Transitions []Transition
	Widgets     []WidgetSnapshot
	Failures    []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// simClock is the synthetic time source the simulated loop runs on.
type simClock struct {
	start time.Time
	now   time.Time
}

func newSimClock() *simClock {
	t := time.Unix(0, 0).UTC()
	return &simClock{start: t, now: t}
}

func (c *simClock) Now() time.Time { return c.now }

func (c *simClock) set(elapsed time.Duration) time.Time {
	c.now = c.start.Add(elapsed)
	return c.now
}

// maxOvershoot bounds how long the simulation waits for animations to settle
// after the script ends.
const maxOvershoot = 10 * time.Second

// Simulate builds the scenario's tree, drives a loop through its script on a
// synthetic clock and checks its expectations.
func Simulate(sc *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	easing := retained.EasingByName(sc.Config.Easing)
	if easing == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, sc.Config.Easing)
	}
	built, err := sc.Build()
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.New(), Scenario: sc.Name}
	logger = logger.With("run", res.RunID.String())

	clock := newSimClock()
	loop := retained.NewLoop(built.Root, built.Container, retained.LoopConfig{
		TargetFPS:     sc.Config.TargetFPS,
		Avoid:         sc.Config.AvoidConfig(),
		Easing:        easing,
		ScrollFocused: sc.Config.ScrollFocused,
		Notifications: ffi.NewNotificationCenter(),
		Clock:         clock.Now,
		Logger:        logger,
	})
	defer loop.Close()

	ctrl := loop.Controller()
	var elapsed time.Duration
	ctrl.OnTransition(func(from, to avoid.State) {
		t := Transition{At: elapsed, From: from, To: to}
		if s, ok := ctrl.Session(); ok {
			t.Session = s.ID.String()[:8]
		}
		_, t.ContainerY, _, _ = built.Container.Frame()
		res.Transitions = append(res.Transitions, t)
	})

	fps := sc.Config.TargetFPS
	if fps < 1 {
		fps = 60
	}
	step := time.Second / time.Duration(fps)
	end := time.Duration(sc.endMS()) * time.Millisecond
	events := sc.sortedEvents()
	expect := sc.sortedExpectations()

	for {
		for len(events) > 0 && time.Duration(events[0].AtMS)*time.Millisecond <= elapsed {
			applyEvent(loop, built, events[0], logger)
			events = events[1:]
		}

		active := loop.Tick(clock.set(elapsed))

		for len(expect) > 0 && time.Duration(expect[0].AtMS)*time.Millisecond <= elapsed {
			res.Failures = append(res.Failures, check(expect[0], ctrl.State(), built)...)
			expect = expect[1:]
		}

		if elapsed >= end && !active && len(events) == 0 {
			break
		}
		if elapsed >= end+maxOvershoot {
			logger.Warn("animations did not settle", "elapsed", elapsed)
			break
		}
		elapsed += step
	}

	res.Frames = loop.Stats().FrameCount
	res.Elapsed = elapsed
	res.FinalState = ctrl.State()
	res.Widgets = snapshot(sc, built)
	return res, nil
}

func applyEvent(loop *retained.Loop, b *Built, e EventSpec, logger *slog.Logger) {
	logger.Debug("event", "at_ms", e.AtMS, "type", e.Type, "target", e.Target)
	switch e.Type {
	case "keyboard":
		loop.HandleEvent(ffi.KeyboardFrameChanged(e.Height, time.Duration(e.DurationMS)*time.Millisecond))
	case "focus":
		b.ByName[e.Target].Focus()
	case "blur":
		loop.Tree().Blur()
	case "destroy":
		b.ByName[e.Target].Destroy()
	case "resize":
		loop.HandleEvent(ffi.Event{Type: ffi.EventResized, Data1: e.Width, Data2: e.Height})
	case "extra_offset":
		loop.Controller().SetExtraOffset(e.Value)
	}
}

func check(x Expectation, state avoid.State, b *Built) []string {
	var failures []string
	if x.State != "" {
		if want, _ := parseState(x.State); want != state {
			failures = append(failures, fmt.Sprintf("at %dms: state %s, want %s", x.AtMS, state, want))
		}
	}
	if x.Widget == "" {
		return failures
	}

	w := b.ByName[x.Widget]
	_, y, _, _ := w.Frame()
	_, scrollY := w.ScrollPosition()
	inset := w.ContentInset()

	compare := func(field string, got float32, want *float32) {
		if want != nil && got != *want {
			failures = append(failures, fmt.Sprintf("at %dms: %s.%s = %g, want %g", x.AtMS, x.Widget, field, got, *want))
		}
	}
	compare("y", y, x.Y)
	compare("inset_bottom", inset.Bottom, x.InsetBottom)
	compare("scroll_y", scrollY, x.ScrollY)
	return failures
}

// snapshot records the container and every scroll view, in declaration order.
func snapshot(sc *Scenario, b *Built) []WidgetSnapshot {
	var out []WidgetSnapshot
	for _, spec := range sc.Widgets {
		w := b.ByName[spec.Name]
		if w != b.Container && w.Kind() != retained.KindScrollView {
			continue
		}
		_, y, _, _ := w.Frame()
		_, scrollY := w.ScrollPosition()
		out = append(out, WidgetSnapshot{
			Name:            spec.Name,
			Kind:            w.Kind(),
			Y:               y,
			ScrollY:         scrollY,
			ContentInset:    w.ContentInset(),
			IndicatorInsets: w.ScrollIndicatorInsets(),
		})
	}
	return out
}

// Run implements the 'kbsim run' command
func Run(args []string) error {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to a softinput.toml that replaces the scenario's [config]")
	verbose := fs.Bool("v", false, "Log controller transitions to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: kbsim run [options] <scenario.toml>")
	}

	sc, err := LoadScenario(fs.Arg(0))
	if err != nil {
		return err
	}
	if *configFile != "" {
		cfg, err := softinput.LoadConfig(*configFile)
		if err != nil {
			return err
		}
		sc.Config = cfg
		if err := sc.Validate(); err != nil {
			return err
		}
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	res, err := Simulate(sc, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, RenderReport(res))

	if !res.Passed() {
		return fmt.Errorf("%w: %d mismatches", ErrExpectationFailed, len(res.Failures))
	}
	return nil
}
