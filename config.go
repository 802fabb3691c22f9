// Package softinput configures keyboard avoidance for retained widget trees.
//
// Configuration lives in a single TOML file. LoadConfig reads it, falling
// back to defaults when the file is absent, and Watcher reloads it when it
// changes on disk.
package softinput

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/softinput/avoid"
)

// DefaultConfigFile is the configuration file name looked up by tools.
const DefaultConfigFile = "softinput.toml"

// Config is the on-disk keyboard avoidance configuration.
type Config struct {
	// ExtraOffset is added to every computed shift, in points.
	ExtraOffset float64 `toml:"extra_offset"`

	// ScrollFocused scrolls the focused input into view after the panel
	// settles when the controller adjusted a scroll container.
	ScrollFocused bool `toml:"scroll_focused"`

	// Easing names the animation curve (linear, ease-in, ease-out,
	// ease-in-out, cubic, ease-out-cubic, back, keyboard).
	Easing string `toml:"easing"`

	// TargetFPS is the animation frame rate of the host loop.
	TargetFPS int `toml:"target_fps"`

	Show TimingConfig `toml:"show"`
	Hide TimingConfig `toml:"hide"`
}

// TimingConfig is an animation duration and delay in milliseconds.
type TimingConfig struct {
	DurationMS int64 `toml:"duration_ms"`
	DelayMS    int64 `toml:"delay_ms"`
}

// Timing converts to an avoid.Timing.
func (t TimingConfig) Timing() avoid.Timing {
	return avoid.Timing{
		Duration: time.Duration(t.DurationMS) * time.Millisecond,
		Delay:    time.Duration(t.DelayMS) * time.Millisecond,
	}
}

func timingConfig(t avoid.Timing) TimingConfig {
	return TimingConfig{
		DurationMS: t.Duration.Milliseconds(),
		DelayMS:    t.Delay.Milliseconds(),
	}
}

// DefaultConfig returns the platform defaults.
func DefaultConfig() Config {
	return Config{
		Easing:    "ease-in-out",
		TargetFPS: 60,
		Show:      timingConfig(avoid.DefaultShowTiming),
		Hide:      timingConfig(avoid.DefaultHideTiming),
	}
}

// AvoidConfig converts the file configuration to a controller configuration.
// The logger is left unset.
func (c Config) AvoidConfig() avoid.Config {
	return avoid.Config{
		ExtraOffset: c.ExtraOffset,
		Show:        c.Show.Timing(),
		Hide:        c.Hide.Timing(),
	}
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "config: " + strings.Join(msgs, "; ")
}

// Is reports ErrInvalidConfig so callers can test with errors.Is.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks the configuration for values the controller cannot use.
func (c Config) Validate() error {
	var errs ValidationErrors

	if math.IsNaN(c.ExtraOffset) || math.IsInf(c.ExtraOffset, 0) {
		errs = append(errs, ValidationError{"extra_offset", "must be finite"})
	}
	if c.TargetFPS < 0 || c.TargetFPS > 240 {
		errs = append(errs, ValidationError{"target_fps", fmt.Sprintf("%d out of range 0-240", c.TargetFPS)})
	}
	errs = append(errs, validateTiming("show", c.Show)...)
	errs = append(errs, validateTiming("hide", c.Hide)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTiming(section string, t TimingConfig) []ValidationError {
	var errs []ValidationError
	if t.DurationMS < 0 {
		errs = append(errs, ValidationError{section + ".duration_ms", "must not be negative"})
	}
	if t.DelayMS < 0 {
		errs = append(errs, ValidationError{section + ".delay_ms", "must not be negative"})
	}
	return errs
}

// LoadConfig reads the configuration at path.
// If the file doesn't exist, returns the default config.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes the configuration to path.
func SaveConfig(path string, config Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
