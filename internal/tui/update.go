package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gridrun/internal/model"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case JobStartMsg:
		if state, ok := m.jobs[msg.ID]; ok && !model.IsTerminal(state.status) {
			state.status = model.StatusRunning
		}
		return m, nil
	case StepDoneMsg:
		if state, ok := m.jobs[msg.JobID]; ok {
			state.lastStep = msg.Result.StepID
		}
		return m, nil
	case JobFinishedMsg:
		state, ok := m.jobs[msg.Outcome.JobID]
		if !ok {
			return m, nil
		}
		if !model.IsTerminal(state.status) {
			m.completed++
		}
		state.status = msg.Outcome.Status
		state.outcome = msg.Outcome
		return m, nil
	case RunCompleteMsg:
		m.result = msg.Result
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
