package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/session"
	"github.com/abhisek/satprep/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newEngine(t *testing.T, s *store.Store, opts Options) *Engine {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Seed == 0 {
		opts.Seed = 11
	}
	e, err := New(context.Background(), ReposFrom(s), opts)
	require.NoError(t, err)
	return e
}

func question(section catalog.Section, d catalog.Difficulty, prompt string) catalog.Question {
	return catalog.Question{
		Section:    section,
		Difficulty: d,
		Prompt:     catalog.Text{catalog.LangEnglish: prompt},
		Options:    map[catalog.Lang][]string{catalog.LangEnglish: {"A", "B", "C", "D"}},
		Answer:     "B",
	}
}

// addQuestions loads qs and returns their IDs in order.
func addQuestions(t *testing.T, e *Engine, qs ...catalog.Question) []int {
	t.Helper()
	ids := make([]int, len(qs))
	for i := range qs {
		id, err := e.AddQuestion(context.Background(), &qs[i])
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestStatsScenario(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	ids := addQuestions(t, e,
		question(catalog.SectionMath, catalog.DifficultyEasy, "m1"),
		question(catalog.SectionMath, catalog.DifficultyMedium, "m2"),
		question(catalog.SectionReading, catalog.DifficultyEasy, "r1"),
	)

	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[0], true, 10*time.Second))
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[1], false, 20*time.Second))
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[2], true, 5*time.Second))

	stats, err := e.GetStats(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.Overall.TotalAnswered)
	assert.Equal(t, 2, stats.Overall.TotalCorrect)
	assert.InDelta(t, float64(35*time.Second/3), float64(stats.Overall.MeanTimeTaken), float64(time.Millisecond))

	math, ok := stats.Section(catalog.SectionMath)
	require.True(t, ok)
	assert.Equal(t, 2, math.Total)
	assert.Equal(t, 1, math.Correct)
	assert.Equal(t, 15*time.Second, math.AvgTime)

	reading, ok := stats.Section(catalog.SectionReading)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, reading.AvgTime)

	weak, err := e.GetWeakAreas(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []analytics.WeakArea{
		{Section: catalog.SectionMath, Accuracy: 50, Total: 2},
		{Section: catalog.SectionReading, Accuracy: 100, Total: 1},
	}, weak)
	assert.Equal(t, analytics.DefaultWeakThreshold, e.WeakThreshold())
}

func TestNoData(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	stats, err := e.GetStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, stats)

	weak, err := e.GetWeakAreas(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, weak)
	assert.Empty(t, weak)

	// A registered learner without answers is still NoData.
	_, err = e.RegisterLearner(ctx, "fresh", "Fresh")
	require.NoError(t, err)
	stats, err = e.GetStats(ctx, "fresh")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestPickAdaptiveRelaxesToAvailableDifficulty(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	ids := addQuestions(t, e,
		question(catalog.SectionMath, catalog.DifficultyHard, "h1"),
		question(catalog.SectionMath, catalog.DifficultyHard, "h2"),
		question(catalog.SectionReading, catalog.DifficultyEasy, "r1"),
	)
	// Overall 0% means easy, but math only has hard questions.
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[2], false, time.Second))

	res, err := e.PickAdaptiveQuestion(ctx, "u1", catalog.SectionMath)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, catalog.DifficultyEasy, res.Difficulty)
	assert.True(t, res.Relaxed)
	assert.Equal(t, catalog.SectionMath, res.Question.Section)
}

func TestPickAdaptiveTargetsDifficulty(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	ids := addQuestions(t, e,
		question(catalog.SectionWriting, catalog.DifficultyEasy, "e"),
		question(catalog.SectionWriting, catalog.DifficultyMedium, "m"),
		question(catalog.SectionWriting, catalog.DifficultyHard, "h"),
	)
	for i := 0; i < 5; i++ {
		require.NoError(t, e.RecordAnswer(ctx, "ace", ids[0], true, time.Second))
	}

	res, err := e.PickAdaptiveQuestion(ctx, "ace", catalog.SectionWriting)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, catalog.DifficultyHard, res.Question.Difficulty)
	assert.False(t, res.Relaxed)
}

func TestPickEmptyCatalog(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	res, err := e.PickAdaptiveQuestion(ctx, "u1", catalog.SectionMath)
	require.NoError(t, err)
	assert.Nil(t, res)

	q, err := e.PickQuestion(ctx, catalog.SectionMath, catalog.DifficultyHard)
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = e.PickAdaptiveQuestion(ctx, "u1", "art")
	assert.Error(t, err)
}

func TestWeakOverride(t *testing.T) {
	e := newEngine(t, openStore(t), Options{OverrideWeak: true})
	ctx := context.Background()

	ids := addQuestions(t, e,
		question(catalog.SectionMath, catalog.DifficultyEasy, "m"),
		question(catalog.SectionReading, catalog.DifficultyEasy, "r"),
	)
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[0], false, time.Second))
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[1], true, time.Second))

	res, err := e.PickAdaptiveQuestion(ctx, "u1", catalog.SectionReading)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Overridden)
	assert.Equal(t, catalog.SectionMath, res.Question.Section)

	res, err = e.PickAdaptive(ctx, "u1", catalog.SectionReading, false)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Overridden)
	assert.Equal(t, catalog.SectionReading, res.Question.Section)
}

func TestSessionScenario(t *testing.T) {
	s := openStore(t)
	e := newEngine(t, s, Options{})
	ctx := context.Background()

	ids := addQuestions(t, e,
		question(catalog.SectionMath, catalog.DifficultyEasy, "m"),
		question(catalog.SectionWriting, catalog.DifficultyEasy, "w"),
	)

	sess, err := e.StartSession(ctx, "u1")
	require.NoError(t, err)

	_, err = e.StartSession(ctx, "u1")
	assert.ErrorIs(t, err, session.ErrSessionOpen)

	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[0], true, time.Second))
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[1], false, time.Second))
	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[0], true, time.Second))

	cur, ok, err := e.CurrentSession(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, cur.QuestionsAnswered)

	ended, err := e.EndSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, ended.QuestionsAnswered)
	assert.Equal(t, 2, ended.CorrectAnswers)

	_, err = e.EndSession(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrUnknownSession)

	stats, err := e.GetStats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stats.Recent, 1)
	assert.Equal(t, 3, stats.Recent[0].QuestionsAnswered)
	assert.Equal(t, 2, stats.Recent[0].CorrectAnswers)
	assert.False(t, stats.Recent[0].Open())
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionWriting}, stats.Recent[0].Sections)
}

func TestSessionSurvivesRestart(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first := newEngine(t, s, Options{})
	ids := addQuestions(t, first, question(catalog.SectionMath, catalog.DifficultyEasy, "m"))
	sess, err := first.StartSession(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, first.RecordAnswer(ctx, "u1", ids[0], true, time.Second))

	second := newEngine(t, s, Options{})
	require.NoError(t, second.RecordAnswer(ctx, "u1", ids[0], false, time.Second))
	ended, err := second.EndSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, ended.QuestionsAnswered)
	assert.Equal(t, 1, ended.CorrectAnswers)
}

func TestRecordAnswerOutsideSession(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()
	ids := addQuestions(t, e, question(catalog.SectionMath, catalog.DifficultyEasy, "m"))

	require.NoError(t, e.RecordAnswer(ctx, "u1", ids[0], true, time.Second))

	stats, err := e.GetStats(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.Overall.TotalAnswered)
	assert.Empty(t, stats.Recent)
}

func TestRecordAnswerValidation(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()
	ids := addQuestions(t, e, question(catalog.SectionMath, catalog.DifficultyEasy, "m"))

	err := e.RecordAnswer(ctx, "u1", ids[0]+99, true, time.Second)
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	err = e.RecordAnswer(ctx, "u1", ids[0], true, -time.Second)
	assert.Error(t, err)
}

func TestSubmitChoice(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()
	ids := addQuestions(t, e, question(catalog.SectionReading, catalog.DifficultyMedium, "r"))

	correct, q, err := e.SubmitChoice(ctx, "u1", ids[0], 1, 4*time.Second)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, "B", q.Answer)

	correct, _, err = e.SubmitChoice(ctx, "u1", ids[0], 3, 4*time.Second)
	require.NoError(t, err)
	assert.False(t, correct)

	stats, err := e.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.TotalAnswered)
	assert.Equal(t, 1, stats.Overall.TotalCorrect)
}

func TestEnsureCatalog(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	seed, err := catalog.Seed()
	require.NoError(t, err)

	n, err := e.EnsureCatalog(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, len(seed), n)

	n, err = e.EnsureCatalog(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n, "non-empty catalog is left alone")

	prompts, err := e.RecentPrompts(ctx, catalog.SectionMath, 2)
	require.NoError(t, err)
	assert.Len(t, prompts, 2)
}

func TestPickQuestionFixedDifficulty(t *testing.T) {
	e := newEngine(t, openStore(t), Options{})
	ctx := context.Background()

	addQuestions(t, e,
		question(catalog.SectionReading, catalog.DifficultyEasy, "e"),
		question(catalog.SectionReading, catalog.DifficultyHard, "h1"),
		question(catalog.SectionReading, catalog.DifficultyHard, "h2"),
	)

	for i := 0; i < 10; i++ {
		q, err := e.PickQuestion(ctx, catalog.SectionReading, catalog.DifficultyHard)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, catalog.DifficultyHard, q.Difficulty)
	}

	// Medium is missing, so any reading question may come back.
	q, err := e.PickQuestion(ctx, catalog.SectionReading, catalog.DifficultyMedium)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, catalog.SectionReading, q.Section)
}

func TestTwoEnginesShareSession(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	tui := newEngine(t, s, Options{})
	ids := addQuestions(t, tui,
		question(catalog.SectionMath, catalog.DifficultyEasy, "m"),
		question(catalog.SectionReading, catalog.DifficultyEasy, "r"),
	)
	sess, err := tui.StartSession(ctx, "u1")
	require.NoError(t, err)

	cli := newEngine(t, s, Options{})
	reused, err := cli.StartSession(ctx, "u1")
	assert.ErrorIs(t, err, session.ErrSessionOpen)
	assert.Equal(t, sess.ID, reused.ID)

	require.NoError(t, tui.RecordAnswer(ctx, "u1", ids[0], true, time.Second))
	require.NoError(t, cli.RecordAnswer(ctx, "u1", ids[1], true, time.Second))
	require.NoError(t, tui.RecordAnswer(ctx, "u1", ids[0], false, time.Second))

	cur, ok, err := cli.CurrentSession(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, cur.QuestionsAnswered)

	ended, err := tui.EndSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, ended.QuestionsAnswered)
	assert.Equal(t, 2, ended.CorrectAnswers)
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionReading}, ended.Sections)

	// The session is closed for the other client too; its answer still
	// counts towards overall stats but not towards the ended session.
	require.NoError(t, cli.RecordAnswer(ctx, "u1", ids[1], true, time.Second))
	_, err = cli.EndSession(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrUnknownSession)

	stats, err := cli.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Overall.TotalAnswered)
	require.Len(t, stats.Recent, 1)
	assert.Equal(t, 3, stats.Recent[0].QuestionsAnswered)
	assert.Equal(t, 2, stats.Recent[0].CorrectAnswers)
}
