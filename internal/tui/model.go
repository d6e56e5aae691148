package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gridrun/internal/matrix"
	"github.com/alexisbeaulieu97/gridrun/internal/model"
)

// JobStartMsg indicates a job has been dispatched to an executor.
type JobStartMsg struct {
	ID string
}

// StepDoneMsg reports that one step inside a job reached a terminal state.
type StepDoneMsg struct {
	JobID  string
	Result model.StepResult
}

// JobFinishedMsg reports that a job reached a terminal state.
type JobFinishedMsg struct {
	Outcome model.JobOutcome
}

// RunCompleteMsg carries the aggregated run result and ends the program.
type RunCompleteMsg struct {
	Result model.RunResult
}

type tickMsg struct{}

type jobState struct {
	id       string
	status   string
	lastStep string
	outcome  model.JobOutcome
}

// Model contains the Bubbletea state for gridrun's live run view.
type Model struct {
	title     string
	jobs      map[string]*jobState
	order     []string
	total     int
	completed int
	finished  bool
	cancelled bool
	result    model.RunResult
}

// NewModel constructs a TUI model for the expanded job list.
func NewModel(title string, jobs []matrix.JobSpec) Model {
	m := Model{
		title: title,
		jobs:  make(map[string]*jobState, len(jobs)),
		order: make([]string, 0, len(jobs)),
	}

	for _, job := range jobs {
		if _, exists := m.jobs[job.ID]; exists {
			continue
		}
		m.jobs[job.ID] = &jobState{id: job.ID, status: model.StatusPending}
		m.order = append(m.order, job.ID)
		m.total++
	}

	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalJobs returns the number of jobs tracked by the model.
func (m Model) TotalJobs() int {
	return m.total
}

// CompletedJobs returns the number of jobs in a terminal state.
func (m Model) CompletedJobs() int {
	return m.completed
}

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

// Result returns the aggregated run result once finished.
func (m Model) Result() model.RunResult {
	return m.result
}
