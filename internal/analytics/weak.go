package analytics

import (
	"sort"

	"github.com/abhisek/satprep/internal/catalog"
)

// DefaultWeakThreshold is the accuracy (percent) below which a section
// counts as a weak area.
const DefaultWeakThreshold = 70.0

// WeakArea is a ranked section with its accuracy in percent.
type WeakArea struct {
	Section  catalog.Section
	Accuracy float64
	Total    int
}

// RankWeakAreas orders attempted sections from lowest to highest accuracy.
// Ties are broken by section name. Sections without attempts are left out.
func RankWeakAreas(sections []SectionStat) []WeakArea {
	ranked := make([]WeakArea, 0, len(sections))
	for _, s := range sections {
		pct, ok := s.Accuracy()
		if !ok {
			continue
		}
		ranked = append(ranked, WeakArea{Section: s.Section, Accuracy: pct, Total: s.Total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Accuracy == ranked[j].Accuracy {
			return ranked[i].Section < ranked[j].Section
		}
		return ranked[i].Accuracy < ranked[j].Accuracy
	})
	return ranked
}

// WeakSections returns the sections of ranked whose accuracy is strictly
// below threshold, keeping the ranking order. A non-positive threshold
// selects DefaultWeakThreshold.
func WeakSections(ranked []WeakArea, threshold float64) []catalog.Section {
	if threshold <= 0 {
		threshold = DefaultWeakThreshold
	}
	var out []catalog.Section
	for _, w := range ranked {
		if w.Accuracy < threshold {
			out = append(out, w.Section)
		}
	}
	return out
}
