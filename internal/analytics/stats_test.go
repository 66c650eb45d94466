package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/store"
)

func answer(section catalog.Section, correct bool, secs int) store.AnswerRecord {
	return store.AnswerRecord{
		Section:   section,
		Correct:   correct,
		TimeTaken: time.Duration(secs) * time.Second,
	}
}

func scenarioAnswers() []store.AnswerRecord {
	return []store.AnswerRecord{
		answer(catalog.SectionMath, true, 10),
		answer(catalog.SectionMath, false, 20),
		answer(catalog.SectionReading, true, 5),
	}
}

func TestAggregateNoData(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
	assert.Nil(t, Aggregate([]store.AnswerRecord{}))
}

func TestAggregateScenario(t *testing.T) {
	sum := Aggregate(scenarioAnswers())
	require.NotNil(t, sum)

	assert.Equal(t, 3, sum.Overall.TotalAnswered)
	assert.Equal(t, 2, sum.Overall.TotalCorrect)
	assert.InDelta(t, 11.67, sum.Overall.MeanTimeTaken.Seconds(), 0.01)

	require.Len(t, sum.Sections, 2)
	assert.Equal(t, SectionStat{Section: catalog.SectionMath, Total: 2, Correct: 1, AvgTime: 15 * time.Second}, sum.Sections[0])
	assert.Equal(t, SectionStat{Section: catalog.SectionReading, Total: 1, Correct: 1, AvgTime: 5 * time.Second}, sum.Sections[1])
}

func TestAggregateSectionTotalsMatchOverall(t *testing.T) {
	histories := [][]store.AnswerRecord{
		scenarioAnswers(),
		{answer(catalog.SectionWriting, false, 0)},
		{
			answer(catalog.SectionWriting, true, 3),
			answer(catalog.SectionMath, true, 4),
			answer(catalog.SectionReading, false, 9),
			answer(catalog.SectionMath, false, 1),
			answer(catalog.SectionWriting, true, 2),
		},
	}
	for i, h := range histories {
		sum := Aggregate(h)
		require.NotNil(t, sum)

		total, correct := 0, 0
		for _, s := range sum.Sections {
			total += s.Total
			correct += s.Correct
		}
		assert.Equal(t, len(h), sum.Overall.TotalAnswered, "history %d", i)
		assert.Equal(t, sum.Overall.TotalAnswered, total, "history %d", i)
		assert.Equal(t, sum.Overall.TotalCorrect, correct, "history %d", i)
	}
}

func TestAggregateZeroTimeIsNotNoData(t *testing.T) {
	sum := Aggregate([]store.AnswerRecord{answer(catalog.SectionMath, false, 0)})
	require.NotNil(t, sum)
	assert.Equal(t, time.Duration(0), sum.Overall.MeanTimeTaken)

	pct, ok := sum.Overall.Accuracy()
	assert.True(t, ok)
	assert.Equal(t, 0.0, pct)
}

func TestSummarySectionLookup(t *testing.T) {
	sum := Aggregate(scenarioAnswers())

	st, ok := sum.Section(catalog.SectionReading)
	assert.True(t, ok)
	assert.Equal(t, 1, st.Total)

	_, ok = sum.Section(catalog.SectionWriting)
	assert.False(t, ok)

	var none *Summary
	_, ok = none.Section(catalog.SectionMath)
	assert.False(t, ok)
}

func TestSectionStatAccuracyUndefinedWithoutAttempts(t *testing.T) {
	_, ok := SectionStat{Section: catalog.SectionMath}.Accuracy()
	assert.False(t, ok)
}
