package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
)

func TestDifficultyForAccuracy(t *testing.T) {
	tests := []struct {
		pct  float64
		want catalog.Difficulty
	}{
		{0, catalog.DifficultyEasy},
		{50, catalog.DifficultyEasy},
		{60, catalog.DifficultyEasy},
		{60.01, catalog.DifficultyMedium},
		{80, catalog.DifficultyMedium},
		{80.01, catalog.DifficultyHard},
		{100, catalog.DifficultyHard},
	}
	for _, tt := range tests {
		if got := DifficultyForAccuracy(tt.pct); got != tt.want {
			t.Errorf("DifficultyForAccuracy(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestDifficultyForAccuracyIsMonotonic(t *testing.T) {
	prev := DifficultyForAccuracy(0)
	for pct := 0.0; pct <= 100; pct += 0.5 {
		got := DifficultyForAccuracy(pct)
		if got < prev {
			t.Fatalf("tier dropped from %v to %v at %v%%", prev, got, pct)
		}
		prev = got
	}
}

func TestSelectorUsesOverallAccuracy(t *testing.T) {
	// 9/10 overall even though reading alone is at 50%.
	sum := &Summary{
		Overall: Overall{TotalAnswered: 10, TotalCorrect: 9},
		Sections: []SectionStat{
			{Section: catalog.SectionMath, Total: 8, Correct: 8},
			{Section: catalog.SectionReading, Total: 2, Correct: 1},
		},
	}
	assert.Equal(t, catalog.DifficultyHard, DifficultySelector{}.Select(sum))
}

func TestSelectorNoHistory(t *testing.T) {
	assert.Equal(t, catalog.DifficultyAny, DifficultySelector{NoHistory: NoHistoryAny}.Select(nil))
	assert.Equal(t, catalog.DifficultyAny, DifficultySelector{}.Select(nil))
	assert.Equal(t, catalog.DifficultyEasy, DifficultySelector{NoHistory: NoHistoryAssumeFifty}.Select(nil))
}

func TestParseNoHistoryPolicy(t *testing.T) {
	p, err := ParseNoHistoryPolicy("")
	require.NoError(t, err)
	assert.Equal(t, NoHistoryAny, p)

	p, err = ParseNoHistoryPolicy("assume-50")
	require.NoError(t, err)
	assert.Equal(t, NoHistoryAssumeFifty, p)

	_, err = ParseNoHistoryPolicy("medium")
	assert.Error(t, err)
}
