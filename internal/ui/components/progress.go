package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/satprep/internal/ui/theme"
)

// Countdown displays the time left to answer a question as a shrinking bar.
type Countdown struct {
	Total     time.Duration
	Remaining time.Duration
	Width     int
}

// NewCountdown creates a full countdown bar.
func NewCountdown(total time.Duration, width int) Countdown {
	return Countdown{Total: total, Remaining: total, Width: width}
}

// Percent returns the fraction of time left in [0, 1].
func (c Countdown) Percent() float64 {
	if c.Total <= 0 || c.Remaining <= 0 {
		return 0
	}
	if c.Remaining >= c.Total {
		return 1
	}
	return float64(c.Remaining) / float64(c.Total)
}

// View renders the bar followed by the seconds left. The last fifth of
// the time is drawn in the error color.
func (c Countdown) View() string {
	secs := int((c.Remaining + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	suffix := fmt.Sprintf("  %2ds", secs)

	barWidth := c.Width - len(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	pct := c.Percent()
	filled := int(float64(barWidth) * pct)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	fill := theme.ProgressFilled
	if pct < 0.2 {
		fill = theme.ProgressLow
	}

	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
}
