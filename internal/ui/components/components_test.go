package components

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want int
		ok   bool
	}{
		{"a", 4, 0, true},
		{"D", 4, 3, true},
		{" b ", 4, 1, true},
		{"3", 4, 2, true},
		{"e", 4, 0, false},
		{"5", 4, 0, false},
		{"", 4, 0, false},
		{"ab", 4, 0, false},
		{"?", 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseChoice(tt.in, tt.n)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMultiChoiceArrowsAndEnter(t *testing.T) {
	m := NewMultiChoice("2 + 2 = ?", "", []string{"3", "4", "5", "6"}, 1)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
	assert.False(t, m.Submitted)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.True(t, m.Submitted)
	assert.Equal(t, 1, m.ChosenIndex)
	assert.True(t, m.IsCorrect())

	// Further keys are ignored once submitted.
	m, _ = m.Update(keyPress('c'))
	assert.Equal(t, 1, m.ChosenIndex)
}

func TestMultiChoiceLetterPick(t *testing.T) {
	m := NewMultiChoice("2 + 2 = ?", "", []string{"3", "4", "5", "6"}, 1)

	m, _ = m.Update(keyPress('c'))
	assert.True(t, m.Submitted)
	assert.Equal(t, 2, m.ChosenIndex)
	assert.False(t, m.IsCorrect())
}

func TestMultiChoiceViewShowsLabels(t *testing.T) {
	m := NewMultiChoice("Pick one", "A short passage.", []string{"x", "y"}, 0)
	view := m.View()
	assert.Contains(t, view, "A)")
	assert.Contains(t, view, "B)")
	assert.Contains(t, view, "Pick one")
	assert.Contains(t, view, "A short passage.")
}

func TestCountdownPercent(t *testing.T) {
	c := NewCountdown(30*time.Second, 40)
	assert.Equal(t, 1.0, c.Percent())

	c.Remaining = 15 * time.Second
	assert.InDelta(t, 0.5, c.Percent(), 1e-9)

	c.Remaining = -time.Second
	assert.Equal(t, 0.0, c.Percent())
	assert.Contains(t, c.View(), " 0s")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "ab   ", Cell("ab", 5))
	assert.Equal(t, "   ab", RightCell("ab", 5))
	assert.Equal(t, 4, runewidth.StringWidth(Cell("abcdefgh", 4)))
	assert.Equal(t, "", Cell("abc", 0))

	// Arabic text is padded by display width.
	ar := Cell("رياضيات", 10)
	assert.Equal(t, 10, runewidth.StringWidth(ar))
}

func TestTextInputRejectClearsOnTyping(t *testing.T) {
	ti := NewTextInput("section", 16)
	ti.Reject("unknown section")
	assert.Contains(t, ti.View(), "unknown section")

	ti, _ = ti.Update(keyPress('m'))
	assert.Empty(t, ti.Err())
	assert.Equal(t, "m", ti.Value())

	ti.Reset()
	assert.Empty(t, ti.Value())
}
