package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testQuestion(section catalog.Section, d catalog.Difficulty) *catalog.Question {
	return &catalog.Question{
		Section:    section,
		Difficulty: d,
		Prompt:     catalog.Text{catalog.LangEnglish: "What is 2 + 2?", catalog.LangArabic: "ما ناتج 2 + 2؟"},
		Options: map[catalog.Lang][]string{
			catalog.LangEnglish: {"3", "4", "5", "6"},
		},
		Answer:      "4",
		Explanation: catalog.Text{catalog.LangEnglish: "Two plus two is four."},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var got string
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&got))
	assert.Equal(t, "1", got)
}

func TestEventSequenceSpansLogs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.seq.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	_, err = s.AnswerRepo().InsertAnswer(ctx, AnswerEventData{LearnerID: 1, QuestionID: 1, Correct: true})
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "explain", Success: true}))

	answers, err := s.Client().AnswerEvent.Query().All(ctx)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	audits, err := s.Client().LLMRequestEvent.Query().All(ctx)
	require.NoError(t, err)
	require.Len(t, audits, 1)

	assert.Equal(t, int64(2), answers[0].Sequence)
	assert.Equal(t, int64(3), audits[0].Sequence)
}

func TestEnsureLearner(t *testing.T) {
	s := openTestStore(t)
	repo := s.LearnerRepo()
	ctx := context.Background()

	_, found, err := repo.LookupLearner(ctx, "discord:42")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := repo.EnsureLearner(ctx, "discord:42", "salim")
	require.NoError(t, err)

	again, err := repo.EnsureLearner(ctx, "discord:42", "Salim A.")
	require.NoError(t, err)
	assert.Equal(t, id, again, "same identity must map to the same key")

	l, err := s.Client().Learner.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Salim A.", l.DisplayName)

	// An empty display name leaves the stored one alone.
	_, err = repo.EnsureLearner(ctx, "discord:42", "")
	require.NoError(t, err)
	l, err = s.Client().Learner.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Salim A.", l.DisplayName)

	_, err = repo.EnsureLearner(ctx, "", "nobody")
	assert.Error(t, err)
}

func TestQuestionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	in := testQuestion(catalog.SectionMath, catalog.DifficultyHard)
	id, err := repo.InsertQuestion(ctx, in)
	require.NoError(t, err)

	got, err := repo.GetQuestion(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, catalog.SectionMath, got.Section)
	assert.Equal(t, catalog.DifficultyHard, got.Difficulty)
	assert.Equal(t, "ما ناتج 2 + 2؟", got.Prompt.Get(catalog.LangArabic))
	assert.Equal(t, 1, got.CorrectIndex())
	assert.Equal(t, catalog.OriginCatalog, got.Origin)

	missing, err := repo.GetQuestion(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertQuestionRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	_, err := repo.InsertQuestion(ctx, testQuestion("science", catalog.DifficultyEasy))
	assert.Error(t, err)

	_, err = repo.InsertQuestion(ctx, testQuestion(catalog.SectionMath, catalog.DifficultyAny))
	assert.Error(t, err)
}

func TestQueryQuestionsFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	for _, q := range []*catalog.Question{
		testQuestion(catalog.SectionMath, catalog.DifficultyEasy),
		testQuestion(catalog.SectionMath, catalog.DifficultyHard),
		testQuestion(catalog.SectionMath, catalog.DifficultyHard),
		testQuestion(catalog.SectionReading, catalog.DifficultyHard),
	} {
		_, err := repo.InsertQuestion(ctx, q)
		require.NoError(t, err)
	}

	hard, err := repo.QueryQuestions(ctx, catalog.SectionMath, catalog.DifficultyHard)
	require.NoError(t, err)
	assert.Len(t, hard, 2)
	assert.Less(t, hard[0].ID, hard[1].ID, "results are ordered by ID")

	all, err := repo.QueryQuestions(ctx, catalog.SectionMath, catalog.DifficultyAny)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.QueryQuestions(ctx, catalog.SectionWriting, catalog.DifficultyAny)
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := repo.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestAnswersByLearnerJoinsSection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	learnerID, err := s.LearnerRepo().EnsureLearner(ctx, "u1", "")
	require.NoError(t, err)
	mathID, err := s.QuestionRepo().InsertQuestion(ctx, testQuestion(catalog.SectionMath, catalog.DifficultyEasy))
	require.NoError(t, err)
	readingID, err := s.QuestionRepo().InsertQuestion(ctx, testQuestion(catalog.SectionReading, catalog.DifficultyMedium))
	require.NoError(t, err)

	answers := s.AnswerRepo()
	inputs := []AnswerEventData{
		{LearnerID: learnerID, QuestionID: mathID, Correct: true, TimeTaken: 10 * time.Second},
		{LearnerID: learnerID, QuestionID: mathID, Correct: false, TimeTaken: 20 * time.Second},
		{LearnerID: learnerID, QuestionID: readingID, Correct: true, TimeTaken: 5 * time.Second},
	}
	for _, in := range inputs {
		_, err := answers.InsertAnswer(ctx, in)
		require.NoError(t, err)
	}

	got, err := answers.AnswersByLearner(ctx, learnerID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, catalog.SectionMath, got[0].Section)
	assert.Equal(t, catalog.SectionMath, got[1].Section)
	assert.Equal(t, catalog.SectionReading, got[2].Section)
	assert.Equal(t, catalog.DifficultyMedium, got[2].Difficulty)
	assert.Equal(t, 20*time.Second, got[1].TimeTaken)
	assert.Less(t, got[0].Sequence, got[1].Sequence)

	other, err := answers.AnswersByLearner(ctx, learnerID+1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInsertAnswerRejectsNegativeTime(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AnswerRepo().InsertAnswer(context.Background(), AnswerEventData{
		LearnerID: 1, QuestionID: 1, TimeTaken: -time.Second,
	})
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Second)
	rec, err := repo.InsertSession(ctx, 7, start)
	require.NoError(t, err)
	assert.True(t, rec.Open())
	assert.NotEqual(t, uuid.Nil, rec.ID)

	open, err := repo.OpenSessions(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, rec.ID, open[0].ID)

	_, err = repo.RecordInSession(ctx, rec.ID, catalog.SectionMath, true)
	require.NoError(t, err)
	after, err := repo.RecordInSession(ctx, rec.ID, catalog.SectionMath, false)
	require.NoError(t, err)
	assert.Equal(t, 2, after.QuestionsAnswered)
	assert.Equal(t, 1, after.CorrectAnswers)
	assert.Equal(t, []catalog.Section{catalog.SectionMath}, after.Sections)

	open, err = repo.OpenSessions(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, 2, open[0].QuestionsAnswered)

	_, err = repo.RecordInSession(ctx, rec.ID, catalog.SectionWriting, true)
	require.NoError(t, err)

	ended, err := repo.EndSession(ctx, rec.ID, start.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ended.Open())
	assert.Equal(t, 3, ended.QuestionsAnswered)

	_, err = repo.RecordInSession(ctx, rec.ID, catalog.SectionMath, true)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = repo.EndSession(ctx, rec.ID, start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrSessionClosed)

	open, err = repo.OpenSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	recent, err := repo.RecentSessions(ctx, 7, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.False(t, recent[0].Open())
	assert.Equal(t, 3, recent[0].QuestionsAnswered)
	assert.Equal(t, 2, recent[0].CorrectAnswers)
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionWriting}, recent[0].Sections)
}

func TestRecentSessionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		_, err := repo.InsertSession(ctx, 1, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	recent, err := repo.RecentSessions(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].StartedAt.After(recent[i].StartedAt))
	}
}

func TestEndUnknownSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	_, err := s.SessionRepo().EndSession(ctx, uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrSessionClosed)

	rec, err := s.SessionRepo().GetSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock",
		Model:    "mock",
		Purpose:  "translate",
		Success:  true,
	})
	require.NoError(t, err)

	n, err := s.Client().LLMRequestEvent.Query().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	for _, e := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "translate", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "translate", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 400, OutputTokens: 200, LatencyMs: 900, Success: true},
	} {
		require.NoError(t, events.AppendLLMRequest(ctx, e))
	}

	usage, err := s.LLMUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, "question-gen", usage[0].Purpose)
	assert.Equal(t, 1, usage[0].Calls)

	tr := usage[1]
	assert.Equal(t, "translate", tr.Purpose)
	assert.Equal(t, 2, tr.Calls)
	assert.Equal(t, 1, tr.Failures)
	assert.Equal(t, 150, tr.InputTokens)
	assert.Equal(t, 30, tr.OutputTokens)
	assert.Equal(t, int64(200), tr.AvgLatencyMs)
}
