package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agiangrant/softinput/avoid"
	"github.com/agiangrant/softinput/retained"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	passStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

// column renders cells left-aligned in a fixed-width column.
func column(width int, style lipgloss.Style, cells ...string) string {
	rendered := make([]string, len(cells))
	for i, c := range cells {
		rendered[i] = style.Width(width).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func stateLabel(s avoid.State) string {
	return strings.ReplaceAll(s.String(), "_", " ")
}

func insetLabel(in retained.EdgeInsets) string {
	return fmt.Sprintf("%g/%g/%g/%g", in.Top, in.Right, in.Bottom, in.Left)
}

// RenderReport formats a simulation result for the terminal.
func RenderReport(res *Result) string {
	var sections []string

	name := res.Scenario
	if name == "" {
		name = "scenario"
	}
	sections = append(sections,
		titleStyle.Render(name),
		dimStyle.Render(fmt.Sprintf("run %s  %d frames  %s simulated", res.RunID, res.Frames, res.Elapsed)),
		"",
	)

	sections = append(sections, column(10, headerStyle, "at", "from", "to", "session", "container y"))
	if len(res.Transitions) == 0 {
		sections = append(sections, dimStyle.Render("no transitions"))
	}
	for _, t := range res.Transitions {
		sections = append(sections, column(10, lipgloss.NewStyle(),
			t.At.String(),
			stateLabel(t.From),
			stateLabel(t.To),
			t.Session,
			fmt.Sprintf("%g", t.ContainerY),
		))
	}

	if len(res.Widgets) > 0 {
		sections = append(sections, "", column(12, headerStyle, "widget", "y", "scroll y", "inset", "indicator"))
		for _, w := range res.Widgets {
			sections = append(sections, column(12, lipgloss.NewStyle(),
				w.Name,
				fmt.Sprintf("%g", w.Y),
				fmt.Sprintf("%g", w.ScrollY),
				insetLabel(w.ContentInset),
				insetLabel(w.IndicatorInsets),
			))
		}
	}

	sections = append(sections, "", fmt.Sprintf("final state: %s", stateLabel(res.FinalState)))
	if res.Passed() {
		sections = append(sections, passStyle.Render("PASS"))
	} else {
		sections = append(sections, failStyle.Render(fmt.Sprintf("FAIL (%d)", len(res.Failures))))
		for _, f := range res.Failures {
			sections = append(sections, failStyle.UnsetBold().Render("  "+f))
		}
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
