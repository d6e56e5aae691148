package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gridrun/internal/model"
	"github.com/alexisbeaulieu97/gridrun/internal/tui/components"
)

// View renders the current state of the run.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("gridrun • %s", m.title)))

	progress := components.NewProgress(m.total).View(m.completed)
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	sections = append(sections, sectionStyle.Render("Jobs"))
	sections = append(sections, m.renderJobs())

	if m.finished {
		sections = append(sections, summaryStyle.Render(m.renderSummary()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderJobs() string {
	lines := make([]string, 0, len(m.order))
	for _, id := range m.order {
		state := m.jobs[id]
		line := fmt.Sprintf(" %s %s", statusIcon(state), state.id)
		if state.status == model.StatusRunning && state.lastStep != "" {
			line = fmt.Sprintf("%s — %s done", line, state.lastStep)
		}
		if model.IsTerminal(state.status) {
			if state.outcome.Tolerant && state.outcome.Failed() {
				line += " (allowed to fail)"
			}
			if state.outcome.Duration > 0 {
				line = fmt.Sprintf("%s (%s)", line, state.outcome.Duration.Truncate(10*time.Millisecond))
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSummary() string {
	if m.cancelled {
		return failureStyle.Render("cancelled")
	}
	if m.result.Succeeded() {
		return successStyle.Render("run passed")
	}
	return failureStyle.Render("run failed")
}

func statusIcon(state *jobState) string {
	switch {
	case state.status == model.StatusFailed && state.outcome.Tolerant:
		return toleratedStyle.Render("!")
	case state.status == model.StatusFailed:
		return failureStyle.Render("✗")
	case state.status == model.StatusSuccess:
		return successStyle.Render("✓")
	case state.status == model.StatusRunning:
		return runningStyle.Render("⏳")
	default:
		return pendingStyle.Render("…")
	}
}
