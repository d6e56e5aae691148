package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gridrun/internal/model"
	"github.com/alexisbeaulieu97/gridrun/internal/trigger"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	toleratedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	verdictPass    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	verdictFail    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// Context carries the run identity rendered in the report header.
type Context struct {
	Name  string
	Event string
	Meta  trigger.Metadata
}

// Render produces the pass/fail matrix report for a completed run.
// Axis order controls how each job's values are listed.
func Render(rctx Context, axisNames []string, result model.RunResult) string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("gridrun • %s", rctx.Name)))
	if line := contextLine(rctx); line != "" {
		sections = append(sections, contextStyle.Render(line))
	}

	sections = append(sections, sectionStyle.Render("Jobs"))
	for _, outcome := range result.Outcomes {
		sections = append(sections, renderOutcome(outcome, axisNames))
	}

	sections = append(sections, sectionStyle.Render("Summary"), summaryLine(result))

	verdict := verdictPass.Render("PASSED")
	if !result.Succeeded() {
		verdict = verdictFail.Render("FAILED")
	}
	sections = append(sections, verdict)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func contextLine(rctx Context) string {
	parts := make([]string, 0, 2)
	if rctx.Event != "" {
		parts = append(parts, "event "+rctx.Event)
	}
	if rctx.Meta.Commit != "" {
		ref := rctx.Meta.Commit
		if rctx.Meta.Branch != "" {
			ref = rctx.Meta.Branch + " @ " + ref
		}
		parts = append(parts, ref)
	}
	return strings.Join(parts, " • ")
}

func renderOutcome(outcome model.JobOutcome, axisNames []string) string {
	line := fmt.Sprintf(" %s %s", StatusIcon(outcome), outcome.JobID)

	if values := formatValues(outcome.Values, axisNames); values != "" {
		line = fmt.Sprintf("%s [%s]", line, values)
	}
	if outcome.Tolerant {
		line += " (allowed to fail)"
	}
	if outcome.Failed() {
		if outcome.TimedOut {
			line += " — timed out"
		} else if outcome.FailedStep >= 0 && outcome.FailedStep < len(outcome.Steps) {
			line += fmt.Sprintf(" — failed at step %s", outcome.Steps[outcome.FailedStep].StepID)
		}
	}
	if outcome.Duration > 0 {
		line = fmt.Sprintf("%s (%s)", line, outcome.Duration.Truncate(10*time.Millisecond))
	}

	return line
}

// StatusIcon returns the glyph for a job outcome. A tolerated failure is
// rendered distinctly from a required failure.
func StatusIcon(outcome model.JobOutcome) string {
	switch {
	case outcome.Failed() && outcome.Tolerant:
		return toleratedStyle.Render("!")
	case outcome.Failed():
		return failureStyle.Render("✗")
	case outcome.Status == model.StatusSuccess:
		return successStyle.Render("✓")
	default:
		return contextStyle.Render("…")
	}
}

func formatValues(values map[string]string, axisNames []string) string {
	parts := make([]string, 0, len(axisNames))
	for _, name := range axisNames {
		if value, ok := values[name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", name, value))
		}
	}
	return strings.Join(parts, " ")
}

func summaryLine(result model.RunResult) string {
	passed, failed, tolerated := 0, 0, 0
	for _, outcome := range result.Outcomes {
		switch {
		case outcome.Failed() && outcome.Tolerant:
			tolerated++
		case outcome.Failed():
			failed++
		default:
			passed++
		}
	}

	line := fmt.Sprintf("%d jobs: %d passed, %d failed", len(result.Outcomes), passed, failed)
	if tolerated > 0 {
		line = fmt.Sprintf("%s, %d failed but tolerated", line, tolerated)
	}
	return line
}
