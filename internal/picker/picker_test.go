package picker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/store"
)

type fakeCatalog struct {
	questions []catalog.Question
	err       error
	calls     int
}

func (f *fakeCatalog) QueryQuestions(_ context.Context, section catalog.Section, difficulty catalog.Difficulty) ([]catalog.Question, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []catalog.Question
	for _, q := range f.questions {
		if q.Section != section {
			continue
		}
		if difficulty != catalog.DifficultyAny && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func q(id int, section catalog.Section, d catalog.Difficulty) catalog.Question {
	return catalog.Question{ID: id, Section: section, Difficulty: d, Answer: "a"}
}

func summaryOf(records ...store.AnswerRecord) *analytics.Summary {
	return analytics.Aggregate(records)
}

func rec(section catalog.Section, correct bool) store.AnswerRecord {
	return store.AnswerRecord{Section: section, Correct: correct, TimeTaken: time.Second}
}

func TestPickRelaxesDifficulty(t *testing.T) {
	// Accuracy 100% targets hard, but the section only has easy questions.
	cat := &fakeCatalog{questions: []catalog.Question{
		q(1, catalog.SectionMath, catalog.DifficultyEasy),
		q(2, catalog.SectionMath, catalog.DifficultyEasy),
	}}
	p := New(cat, Config{Seed: 1})

	res, err := p.Pick(context.Background(), Request{
		Section: catalog.SectionMath,
		Summary: summaryOf(rec(catalog.SectionMath, true)),
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, catalog.DifficultyHard, res.Difficulty)
	assert.True(t, res.Relaxed)
	assert.Equal(t, catalog.DifficultyEasy, res.Question.Difficulty)
	assert.Equal(t, catalog.SectionMath, res.Question.Section)
}

func TestPickMatchesTargetDifficulty(t *testing.T) {
	cat := &fakeCatalog{questions: []catalog.Question{
		q(1, catalog.SectionMath, catalog.DifficultyEasy),
		q(2, catalog.SectionMath, catalog.DifficultyMedium),
		q(3, catalog.SectionMath, catalog.DifficultyHard),
	}}
	p := New(cat, Config{Seed: 7})

	// 1 of 2 correct is 50% overall, so easy.
	sum := summaryOf(rec(catalog.SectionMath, true), rec(catalog.SectionMath, false))
	for i := 0; i < 20; i++ {
		res, err := p.Pick(context.Background(), Request{Section: catalog.SectionMath, Summary: sum})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.False(t, res.Relaxed)
		assert.Equal(t, 1, res.Question.ID)
	}
}

func TestPickEmptySectionReturnsNil(t *testing.T) {
	cat := &fakeCatalog{questions: []catalog.Question{q(1, catalog.SectionMath, catalog.DifficultyEasy)}}
	p := New(cat, DefaultConfig())

	res, err := p.Pick(context.Background(), Request{Section: catalog.SectionWriting})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestPickNoHistoryUsesAnyDifficulty(t *testing.T) {
	cat := &fakeCatalog{questions: []catalog.Question{q(1, catalog.SectionReading, catalog.DifficultyHard)}}
	p := New(cat, Config{Seed: 3, NoHistory: analytics.NoHistoryAny})

	res, err := p.Pick(context.Background(), Request{Section: catalog.SectionReading})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, catalog.DifficultyAny, res.Difficulty)
	assert.False(t, res.Relaxed)
	assert.Equal(t, 1, cat.calls)
}

func TestPickSeedIsDeterministic(t *testing.T) {
	var questions []catalog.Question
	for i := 1; i <= 20; i++ {
		questions = append(questions, q(i, catalog.SectionMath, catalog.DifficultyMedium))
	}

	draw := func() []int {
		p := New(&fakeCatalog{questions: questions}, Config{Seed: 42})
		var ids []int
		for i := 0; i < 10; i++ {
			res, err := p.PickFixed(context.Background(), catalog.SectionMath, catalog.DifficultyMedium)
			require.NoError(t, err)
			require.NotNil(t, res)
			ids = append(ids, res.Question.ID)
		}
		return ids
	}

	assert.Equal(t, draw(), draw())
}

func TestPickWeakOverride(t *testing.T) {
	cat := &fakeCatalog{questions: []catalog.Question{
		q(1, catalog.SectionMath, catalog.DifficultyEasy),
		q(2, catalog.SectionReading, catalog.DifficultyEasy),
	}}
	// math 0% (weak), reading 100% (strong).
	sum := summaryOf(rec(catalog.SectionMath, false), rec(catalog.SectionReading, true))

	tests := []struct {
		name           string
		section        catalog.Section
		preferWeak     bool
		wantSection    catalog.Section
		wantOverridden bool
	}{
		{"flag off keeps request", catalog.SectionReading, false, catalog.SectionReading, false},
		{"flag on redirects strong section", catalog.SectionReading, true, catalog.SectionMath, true},
		{"requested section already weak", catalog.SectionMath, true, catalog.SectionMath, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(cat, Config{Seed: 9})
			res, err := p.Pick(context.Background(), Request{
				Section:    tt.section,
				Summary:    sum,
				PreferWeak: tt.preferWeak,
			})
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.wantSection, res.Section)
			assert.Equal(t, tt.wantSection, res.Question.Section)
			assert.Equal(t, tt.wantOverridden, res.Overridden)
		})
	}
}

func TestPickWeakOverrideChoosesWeakest(t *testing.T) {
	cat := &fakeCatalog{questions: []catalog.Question{
		q(1, catalog.SectionMath, catalog.DifficultyEasy),
		q(2, catalog.SectionWriting, catalog.DifficultyEasy),
		q(3, catalog.SectionReading, catalog.DifficultyEasy),
	}}
	// writing 0%, math 50%: both weak, writing is weakest.
	sum := summaryOf(
		rec(catalog.SectionWriting, false),
		rec(catalog.SectionMath, true), rec(catalog.SectionMath, false),
		rec(catalog.SectionReading, true),
	)

	for seed := uint64(1); seed <= 20; seed++ {
		p := New(cat, Config{Seed: seed})
		res, err := p.Pick(context.Background(), Request{
			Section:    catalog.SectionReading,
			Summary:    sum,
			PreferWeak: true,
		})
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, catalog.SectionWriting, res.Section, "seed %d", seed)
		assert.True(t, res.Overridden)
	}
}

func TestPickWeakOverrideWithoutWeakSections(t *testing.T) {
	cat := &fakeCatalog{questions: []catalog.Question{q(1, catalog.SectionWriting, catalog.DifficultyHard)}}
	p := New(cat, Config{Seed: 5})

	res, err := p.Pick(context.Background(), Request{
		Section:    catalog.SectionWriting,
		Summary:    summaryOf(rec(catalog.SectionMath, true)),
		PreferWeak: true,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, catalog.SectionWriting, res.Section)
	assert.False(t, res.Overridden)
}

func TestPickPropagatesCatalogError(t *testing.T) {
	boom := errors.New("disk gone")
	p := New(&fakeCatalog{err: boom}, DefaultConfig())

	_, err := p.Pick(context.Background(), Request{Section: catalog.SectionMath})
	assert.ErrorIs(t, err, boom)
}
