// Package tui renders bootstrap progress as an interactive terminal view.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idp-platform/platformctl/internal/model"
)

// StepStartMsg indicates a bootstrap step has started executing.
type StepStartMsg struct {
	Name string
	Time time.Time
}

// StepCompleteMsg reports that a bootstrap step has finished.
type StepCompleteMsg struct {
	Result model.StepResult
}

// DoneMsg carries the final bootstrap result and ends the program.
type DoneMsg struct {
	Result *model.BootstrapResult
}

// Statuses local to the view: steps the pipeline has not reported on yet.
const (
	statusPending = "pending"
	statusRunning = "running"
)

// Model contains the Bubbletea state for the bootstrap progress view.
type Model struct {
	title     string
	order     []string
	steps     map[string]model.StepResult
	bar       progress.Model
	spin      spinner.Model
	total     int
	completed int
	finished  bool
	cancelled bool
	result    *model.BootstrapResult
}

// NewModel constructs the view over the fixed step order of a bootstrap run.
func NewModel(title string, stepNames []string) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	m := Model{
		title: title,
		order: make([]string, 0, len(stepNames)),
		steps: make(map[string]model.StepResult, len(stepNames)),
		bar:   bar,
		spin:  spin,
	}
	for _, name := range stepNames {
		if _, exists := m.steps[name]; exists {
			continue
		}
		m.steps[name] = model.StepResult{Name: name, Status: statusPending}
		m.order = append(m.order, name)
		m.total++
	}
	return m
}

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// CompletedSteps returns the number of steps that have reported a result.
func (m Model) CompletedSteps() int {
	return m.completed
}

// IsFinished reports whether the run has ended.
func (m Model) IsFinished() bool {
	return m.finished
}

// IsCancelled reports whether the user interrupted the run.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// Result returns the final bootstrap result, nil until DoneMsg arrives.
func (m Model) Result() *model.BootstrapResult {
	return m.result
}

func (m *Model) ensureStep(name string) {
	if name == "" {
		return
	}
	if _, exists := m.steps[name]; !exists {
		m.steps[name] = model.StepResult{Name: name, Status: statusPending}
		m.order = append(m.order, name)
		m.total++
	}
}
