package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/satprep/internal/report"
	"github.com/abhisek/satprep/internal/ui/layout"
	"github.com/abhisek/satprep/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	if m.section == "" {
		return "Practice"
	}
	return "Practice · " + string(m.section)
}

func (m Model) status() string {
	return fmt.Sprintf("%s  %d/%d", m.opts.Learner, m.correct, m.answered)
}

func (m Model) contentWidth() int {
	w := m.width - 6
	if w < 20 {
		return 60
	}
	return w
}

// content renders the body of the current phase.
func (m Model) content() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(theme.Hint.Render(m.notice))
		b.WriteString("\n\n")
	}

	switch m.phase {
	case phaseStarting:
		b.WriteString(theme.Subtitle.Render("Starting session..."))

	case phaseSection:
		b.WriteString(theme.Title.Render("Which section do you want to practice?"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())

	case phaseLoading:
		b.WriteString(theme.Subtitle.Render("Picking a question..."))

	case phaseQuestion, phaseSubmitting:
		b.WriteString(m.countdown.View())
		b.WriteString("\n\n")
		b.WriteString(m.choice.View())

	case phaseFeedback:
		b.WriteString(m.choice.View())
		b.WriteString("\n")
		b.WriteString(report.Feedback(m.question, m.lastCorrect, m.opts.Lang))

	case phaseExpired:
		b.WriteString(theme.Incorrect.Render("⏱ Time's up! This question was not counted."))

	case phaseEnding, phaseDone:
		b.WriteString(theme.Subtitle.Render("Ending session..."))
	}

	return lipgloss.NewStyle().MaxWidth(m.contentWidth()).Render(b.String())
}

func (m Model) keyHints() []layout.KeyHint {
	switch m.phase {
	case phaseSection:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "A-D", Description: "Answer"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Skip"},
		}
	case phaseFeedback, phaseExpired:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "S", Description: "Section"},
			{Key: "Q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}
