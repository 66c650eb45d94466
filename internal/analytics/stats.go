// Package analytics derives progress statistics from a learner's answer
// history: totals and timing per section, weak areas, and the difficulty
// tier the next question should target.
package analytics

import (
	"sort"
	"time"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/store"
)

// Overall summarizes every answer of a learner.
type Overall struct {
	TotalAnswered int
	TotalCorrect  int
	MeanTimeTaken time.Duration
}

// Accuracy returns the percentage of correct answers. ok is false when
// nothing has been answered.
func (o Overall) Accuracy() (pct float64, ok bool) {
	return accuracy(o.TotalCorrect, o.TotalAnswered)
}

// SectionStat summarizes the answers of one section.
type SectionStat struct {
	Section catalog.Section
	Total   int
	Correct int
	AvgTime time.Duration
}

// Accuracy returns correct/total*100. ok is false when Total is zero, in
// which case the section is neither weak nor strong.
func (s SectionStat) Accuracy() (pct float64, ok bool) {
	return accuracy(s.Correct, s.Total)
}

// Summary is the aggregate view of one learner's history.
type Summary struct {
	Overall  Overall
	Sections []SectionStat // sorted by section name
}

// Aggregate groups answers by section. It returns nil when answers is empty
// so callers can tell "never practiced" apart from zero-valued statistics.
func Aggregate(answers []store.AnswerRecord) *Summary {
	if len(answers) == 0 {
		return nil
	}

	type acc struct {
		total, correct int
		time           time.Duration
	}
	bySection := make(map[catalog.Section]*acc)

	var sum Summary
	var totalTime time.Duration
	for _, a := range answers {
		sum.Overall.TotalAnswered++
		totalTime += a.TimeTaken
		if a.Correct {
			sum.Overall.TotalCorrect++
		}

		sa := bySection[a.Section]
		if sa == nil {
			sa = &acc{}
			bySection[a.Section] = sa
		}
		sa.total++
		sa.time += a.TimeTaken
		if a.Correct {
			sa.correct++
		}
	}
	sum.Overall.MeanTimeTaken = totalTime / time.Duration(sum.Overall.TotalAnswered)

	for section, sa := range bySection {
		sum.Sections = append(sum.Sections, SectionStat{
			Section: section,
			Total:   sa.total,
			Correct: sa.correct,
			AvgTime: sa.time / time.Duration(sa.total),
		})
	}
	sort.Slice(sum.Sections, func(i, j int) bool {
		return sum.Sections[i].Section < sum.Sections[j].Section
	})

	return &sum
}

// Section returns the stats for section, and false when it has no answers.
func (s *Summary) Section(section catalog.Section) (SectionStat, bool) {
	if s == nil {
		return SectionStat{}, false
	}
	for _, st := range s.Sections {
		if st.Section == section {
			return st, true
		}
	}
	return SectionStat{}, false
}

func accuracy(correct, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(correct) / float64(total) * 100, true
}
