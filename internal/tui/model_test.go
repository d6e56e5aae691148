package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
	"github.com/alexisbeaulieu97/gridrun/internal/model"
)

func twoJobs() []matrix.JobSpec {
	return []matrix.JobSpec{
		{ID: "stable", Values: map[string]string{"channel": "stable"}},
		{ID: "nightly", Values: map[string]string{"channel": "nightly"}, Tolerant: true},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestNewModelTracksJobs(t *testing.T) {
	t.Parallel()

	m := NewModel("cubeb-pulse", twoJobs())
	require.Equal(t, 2, m.TotalJobs())
	require.Equal(t, 0, m.CompletedJobs())
	require.False(t, m.IsFinished())
}

func TestUpdateJobLifecycle(t *testing.T) {
	t.Parallel()

	m := NewModel("cubeb-pulse", twoJobs())
	m = update(t, m, JobStartMsg{ID: "stable"})
	m = update(t, m, StepDoneMsg{JobID: "stable", Result: model.StepResult{StepID: "build", Status: model.StatusSuccess}})
	m = update(t, m, JobFinishedMsg{Outcome: model.JobOutcome{JobID: "stable", Status: model.StatusSuccess}})

	require.Equal(t, 1, m.CompletedJobs())
	require.False(t, m.IsFinished())

	m = update(t, m, JobFinishedMsg{Outcome: model.JobOutcome{JobID: "nightly", Status: model.StatusFailed, Tolerant: true}})
	require.Equal(t, 2, m.CompletedJobs())
}

func TestUpdateIgnoresDuplicateFinishes(t *testing.T) {
	t.Parallel()

	m := NewModel("cubeb-pulse", twoJobs())
	outcome := model.JobOutcome{JobID: "stable", Status: model.StatusSuccess}
	m = update(t, m, JobFinishedMsg{Outcome: outcome})
	m = update(t, m, JobFinishedMsg{Outcome: outcome})

	require.Equal(t, 1, m.CompletedJobs())
}

func TestRunCompleteQuits(t *testing.T) {
	t.Parallel()

	m := NewModel("cubeb-pulse", twoJobs())
	result := model.RunResult{Overall: model.StatusSuccess}

	updated, cmd := m.Update(RunCompleteMsg{Result: result})
	next := updated.(Model)

	require.True(t, next.IsFinished())
	require.Equal(t, result, next.Result())
	require.NotNil(t, cmd)
}

func TestViewRendersJobsAndSummary(t *testing.T) {
	t.Parallel()

	m := NewModel("cubeb-pulse", twoJobs())
	m = update(t, m, JobFinishedMsg{Outcome: model.JobOutcome{JobID: "stable", Status: model.StatusSuccess}})
	m = update(t, m, JobFinishedMsg{Outcome: model.JobOutcome{JobID: "nightly", Status: model.StatusFailed, Tolerant: true}})
	m = update(t, m, RunCompleteMsg{Result: model.RunResult{Overall: model.StatusSuccess}})

	view := m.View()
	require.Contains(t, view, "cubeb-pulse")
	require.Contains(t, view, "stable")
	require.Contains(t, view, "nightly")
	require.Contains(t, view, "(allowed to fail)")
	require.Contains(t, view, "run passed")
	require.Contains(t, view, "2/2")
}

func TestCtrlCCancels(t *testing.T) {
	t.Parallel()

	m := NewModel("cubeb-pulse", twoJobs())
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	next := updated.(Model)

	require.True(t, next.IsFinished())
	require.NotNil(t, cmd)
	require.Contains(t, next.View(), "cancelled")
}
