package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case StepStartMsg:
		m.ensureStep(msg.Name)
		step := m.steps[msg.Name]
		step.Status = statusRunning
		m.steps[msg.Name] = step
		return m, nil
	case StepCompleteMsg:
		name := msg.Result.Name
		if name == "" {
			return m, nil
		}
		m.ensureStep(name)
		existing := m.steps[name]
		m.steps[name] = msg.Result
		if existing.Status == statusPending || existing.Status == statusRunning {
			m.completed++
		}
		return m, nil
	case DoneMsg:
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
