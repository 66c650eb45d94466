package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/satprep/internal/ui/theme"
)

// Labels are the option letters shown next to each choice.
var Labels = []string{"A", "B", "C", "D", "E", "F"}

// ChoiceLabel returns the letter for option index i.
func ChoiceLabel(i int) string {
	if i >= 0 && i < len(Labels) {
		return Labels[i]
	}
	return fmt.Sprintf("%d", i+1)
}

// ParseChoice converts "a".."f" or "1".."6" into an option index. ok is
// false for anything outside [0, n).
func ParseChoice(s string, n int) (idx int, ok bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, false
	}
	switch c := s[0]; {
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	default:
		return 0, false
	}
	return idx, idx < n
}

// MultiChoice is a multiple-choice selector. Options can be picked with
// the arrow keys and enter, or directly by letter or number.
type MultiChoice struct {
	Prompt       string
	Passage      string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
	Width        int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(prompt, passage string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Prompt:       prompt,
		Passage:      passage,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.submit(m.Selected)
	default:
		if idx, ok := ParseChoice(key, len(m.Options)); ok {
			m.Selected = idx
			m.submit(idx)
		}
	}

	return m, nil
}

func (m *MultiChoice) submit(idx int) {
	m.Submitted = true
	m.ChosenIndex = idx
}

// View renders the passage, the prompt and the options. After submission
// the correct option is green and a wrong pick red.
func (m MultiChoice) View() string {
	var b strings.Builder

	wrap := lipgloss.NewStyle()
	if m.Width > 0 {
		wrap = wrap.Width(m.Width)
	}

	if m.Passage != "" {
		b.WriteString(theme.Card.Foreground(theme.TextDim).Render(wrap.Render(m.Passage)))
		b.WriteString("\n\n")
	}
	b.WriteString(wrap.Foreground(theme.Text).Bold(true).Render(m.Prompt))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, ChoiceLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = theme.Correct
		case m.Submitted && i == m.ChosenIndex:
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// IsCorrect returns true if the learner chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
