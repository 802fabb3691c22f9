package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agiangrant/softinput"
)

// sampleScenario is a login form whose password field sits under a 300pt
// keyboard. The container shifts up by the overlap plus the extra offset and
// comes back when the keyboard hides.
const sampleScenario = `name = "login form"
container = "content"

[config]
extra_offset = 10.0

[[widget]]
name = "screen"
kind = "container"
frame = [0, 0, 400, 800]

[[widget]]
name = "content"
kind = "vstack"
parent = "screen"
frame = [0, 100, 400, 700]

[[widget]]
name = "email"
kind = "text_field"
parent = "content"
text = "Email"
frame = [0, 550, 200, 40]

[[widget]]
name = "password"
kind = "text_field"
parent = "content"
text = "Password"
frame = [0, 610, 200, 40]

[[event]]
at_ms = 0
type = "focus"
target = "password"

[[event]]
at_ms = 0
type = "keyboard"
height = 300.0
duration_ms = 250

[[event]]
at_ms = 1500
type = "keyboard"
height = 0.0
duration_ms = 250

[[expect]]
at_ms = 1400
state = "shown"
widget = "content"
y = -160.0

[[expect]]
at_ms = 2200
state = "idle"
widget = "content"
y = 100.0
`

// Init implements the 'kbsim init' command
func Init(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dir := fs.String("dir", ".", "Directory to write the files into")
	force := fs.Bool("force", false, "Overwrite existing files")
	fs.Parse(args)

	scenarioPath := filepath.Join(*dir, "scenario.toml")
	configPath := filepath.Join(*dir, softinput.DefaultConfigFile)

	if !*force {
		for _, p := range []string{scenarioPath, configPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use -force to overwrite)", p)
			}
		}
	}

	if err := os.MkdirAll(*dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(scenarioPath, []byte(sampleScenario), 0644); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	if err := softinput.SaveConfig(configPath, softinput.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s\n", scenarioPath)
	fmt.Printf("✓ Wrote %s\n", configPath)
	fmt.Println("\nNext: kbsim run scenario.toml")
	return nil
}
