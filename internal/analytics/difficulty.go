package analytics

import (
	"fmt"

	"github.com/abhisek/satprep/internal/catalog"
)

// NoHistoryPolicy decides the target difficulty for a learner without
// any answers.
type NoHistoryPolicy string

const (
	// NoHistoryAny disables the difficulty filter.
	NoHistoryAny NoHistoryPolicy = "any"

	// NoHistoryAssumeFifty treats the learner as 50% accurate, which lands
	// on easy under the fixed thresholds.
	NoHistoryAssumeFifty NoHistoryPolicy = "assume-50"
)

// ParseNoHistoryPolicy validates a policy name. Empty means NoHistoryAny.
func ParseNoHistoryPolicy(s string) (NoHistoryPolicy, error) {
	switch NoHistoryPolicy(s) {
	case "", NoHistoryAny:
		return NoHistoryAny, nil
	case NoHistoryAssumeFifty:
		return NoHistoryAssumeFifty, nil
	}
	return "", fmt.Errorf("unknown no-history policy %q (want %q or %q)", s, NoHistoryAny, NoHistoryAssumeFifty)
}

const (
	hardAbove   = 80.0
	mediumAbove = 60.0
	assumedPct  = 50.0
)

// DifficultyForAccuracy maps an overall accuracy percentage to a tier:
// above 80 is hard, above 60 is medium, anything else is easy.
func DifficultyForAccuracy(pct float64) catalog.Difficulty {
	switch {
	case pct > hardAbove:
		return catalog.DifficultyHard
	case pct > mediumAbove:
		return catalog.DifficultyMedium
	default:
		return catalog.DifficultyEasy
	}
}

// DifficultySelector picks the target tier from a learner's aggregate
// accuracy across all sections.
type DifficultySelector struct {
	NoHistory NoHistoryPolicy
}

// Select returns the target difficulty for summary. A nil summary means the
// learner has no history and the NoHistory policy applies; under
// NoHistoryAny the result is catalog.DifficultyAny.
func (s DifficultySelector) Select(summary *Summary) catalog.Difficulty {
	if summary != nil {
		if pct, ok := summary.Overall.Accuracy(); ok {
			return DifficultyForAccuracy(pct)
		}
	}
	if s.NoHistory == NoHistoryAssumeFifty {
		return DifficultyForAccuracy(assumedPct)
	}
	return catalog.DifficultyAny
}
