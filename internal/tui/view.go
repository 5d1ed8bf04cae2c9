package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/idp-platform/platformctl/internal/model"
)

// View renders the current state of the bootstrap run.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("platformctl • %s", m.title)))

	ratio := 0.0
	if m.total > 0 {
		ratio = math.Min(1.0, float64(m.completed)/float64(m.total))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	sections = append(sections,
		sectionStyle.Render("Progress"),
		lipgloss.JoinHorizontal(lipgloss.Left, label, " ", m.bar.ViewAs(ratio)))

	if len(m.order) > 0 {
		sections = append(sections, sectionStyle.Render("Steps"), m.renderSteps())
	}

	if summary := m.renderSummary(); summary != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSteps() string {
	var lines []string
	for _, name := range m.order {
		res := m.steps[name]
		line := fmt.Sprintf(" %s %s", m.statusIcon(res.Status), name)
		if strings.TrimSpace(res.Message) != "" {
			line = fmt.Sprintf("%s — %s", line, res.Message)
		}
		if res.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, res.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSummary() string {
	if !m.finished {
		return ""
	}
	if m.cancelled {
		return "Bootstrap cancelled"
	}
	if m.result == nil {
		return fmt.Sprintf("Steps: %d/%d completed", m.completed, m.total)
	}

	lines := []string{m.result.Summary()}
	if len(m.result.URLs) > 0 {
		lines = append(lines, "", "Platform URLs:")
		names := make([]string, 0, len(m.result.URLs))
		for name := range m.result.URLs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  %s: %s", name, m.result.URLs[name]))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusIcon(status string) string {
	switch status {
	case model.StatusCompleted:
		return successStyle.Render("✓")
	case model.StatusFailed:
		return failureStyle.Render("✗")
	case model.StatusWarning:
		return warningStyle.Render("!")
	case model.StatusDryRun:
		return pendingStyle.Render("✱")
	case statusRunning:
		return runningStyle.Render(m.spin.View())
	default:
		return pendingStyle.Render("…")
	}
}
