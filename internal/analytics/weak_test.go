package analytics

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/satprep/internal/catalog"
)

func TestRankWeakAreasScenario(t *testing.T) {
	sum := Aggregate(scenarioAnswers())
	ranked := RankWeakAreas(sum.Sections)

	assert.Equal(t, []WeakArea{
		{Section: catalog.SectionMath, Accuracy: 50, Total: 2},
		{Section: catalog.SectionReading, Accuracy: 100, Total: 1},
	}, ranked)
}

func TestRankWeakAreasExcludesUnattempted(t *testing.T) {
	ranked := RankWeakAreas([]SectionStat{
		{Section: catalog.SectionWriting, Total: 0},
		{Section: catalog.SectionMath, Total: 4, Correct: 1},
	})
	assert.Len(t, ranked, 1)
	assert.Equal(t, catalog.SectionMath, ranked[0].Section)
}

func TestRankWeakAreasTiesByName(t *testing.T) {
	ranked := RankWeakAreas([]SectionStat{
		{Section: catalog.SectionWriting, Total: 2, Correct: 1},
		{Section: catalog.SectionReading, Total: 4, Correct: 2},
		{Section: catalog.SectionMath, Total: 10, Correct: 5},
	})
	got := []catalog.Section{ranked[0].Section, ranked[1].Section, ranked[2].Section}
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionReading, catalog.SectionWriting}, got)
}

func TestRankWeakAreasSortedAscending(t *testing.T) {
	ranked := RankWeakAreas([]SectionStat{
		{Section: catalog.SectionReading, Total: 3, Correct: 3},
		{Section: catalog.SectionMath, Total: 3, Correct: 0},
		{Section: catalog.SectionWriting, Total: 3, Correct: 2},
	})
	assert.True(t, sort.SliceIsSorted(ranked, func(i, j int) bool {
		return ranked[i].Accuracy < ranked[j].Accuracy
	}))
}

func TestWeakSections(t *testing.T) {
	ranked := []WeakArea{
		{Section: catalog.SectionMath, Accuracy: 40},
		{Section: catalog.SectionWriting, Accuracy: 69.9},
		{Section: catalog.SectionReading, Accuracy: 70},
	}
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionWriting}, WeakSections(ranked, 0))
	assert.Equal(t, []catalog.Section{catalog.SectionMath}, WeakSections(ranked, 50))
}

func TestWeakSectionsEmptyWhenAllStrong(t *testing.T) {
	ranked := []WeakArea{
		{Section: catalog.SectionMath, Accuracy: 70},
		{Section: catalog.SectionReading, Accuracy: 95},
	}
	assert.Empty(t, WeakSections(ranked, DefaultWeakThreshold))
}
