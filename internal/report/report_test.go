package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/explain"
	"github.com/abhisek/satprep/internal/session"
	"github.com/abhisek/satprep/internal/store"
)

func sampleQuestion() *catalog.Question {
	return &catalog.Question{
		ID:         7,
		Section:    catalog.SectionMath,
		Difficulty: catalog.DifficultyMedium,
		Prompt:     catalog.Text{catalog.LangEnglish: "What is 3 × 4?", catalog.LangArabic: "ما ناتج 3 × 4؟"},
		Options: map[catalog.Lang][]string{
			catalog.LangEnglish: {"7", "12", "34", "1"},
		},
		Answer:      "12",
		Explanation: catalog.Text{catalog.LangEnglish: "Three fours make twelve."},
	}
}

func TestStatsNilIsNoStats(t *testing.T) {
	assert.Contains(t, Stats(nil, nil, 70, time.Now()), NoStats)
}

func TestStatsRendersSections(t *testing.T) {
	sum := analytics.Aggregate([]store.AnswerRecord{
		{Section: catalog.SectionMath, Correct: true, TimeTaken: 10 * time.Second},
		{Section: catalog.SectionMath, Correct: false, TimeTaken: 20 * time.Second},
		{Section: catalog.SectionReading, Correct: true, TimeTaken: 6 * time.Second},
	})
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	recent := []store.SessionRecord{
		{ID: uuid.New(), StartedAt: start, EndedAt: &end, QuestionsAnswered: 3, CorrectAnswers: 2},
	}

	out := Stats(sum, recent, 70, end)
	assert.Contains(t, out, "answered 3")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "math")
	assert.Contains(t, out, "reading")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "15.0s")
	assert.Contains(t, out, "Recent sessions")
	assert.Contains(t, out, "2/3 correct")
}

func TestWeakAreas(t *testing.T) {
	assert.Contains(t, WeakAreas(nil, 70), NoRanking)

	out := WeakAreas([]analytics.WeakArea{
		{Section: catalog.SectionWriting, Accuracy: 25, Total: 4},
		{Section: catalog.SectionMath, Accuracy: 60, Total: 5},
		{Section: catalog.SectionReading, Accuracy: 100, Total: 2},
	}, 70)
	assert.Contains(t, out, "1. writing")
	assert.Contains(t, out, "2. math")
	assert.Contains(t, out, "3. reading")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "(5 answered)")
	assert.Equal(t, 2, strings.Count(out, "weak"), "only the sections below the threshold are marked")
	assert.NotContains(t, out, NoWeakAreas)

	out = WeakAreas([]analytics.WeakArea{{Section: catalog.SectionMath, Accuracy: 90, Total: 10}}, 70)
	assert.Contains(t, out, "1. math")
	assert.Contains(t, out, NoWeakAreas)
}

func TestSession(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := session.Session{
		ID:                uuid.New(),
		StartedAt:         start,
		QuestionsAnswered: 3,
		CorrectAnswers:    2,
		Sections:          []catalog.Section{catalog.SectionMath},
	}
	out := Session(s, start.Add(90*time.Second))
	assert.Contains(t, out, s.ID.String())
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "answered 3, correct 2")
	assert.Contains(t, out, "sections math")
}

func TestQuestionFallsBackToEnglishOptions(t *testing.T) {
	out := Question(sampleQuestion(), catalog.LangArabic)
	assert.Contains(t, out, "ما ناتج 3 × 4؟")
	assert.Contains(t, out, "B)  12")
	assert.Contains(t, Question(nil, catalog.LangEnglish), NoQuestion)
}

func TestFeedback(t *testing.T) {
	q := sampleQuestion()
	assert.Contains(t, Feedback(q, true, catalog.LangEnglish), "Correct")

	wrong := Feedback(q, false, catalog.LangEnglish)
	assert.Contains(t, wrong, "B) 12")
	assert.Contains(t, wrong, "Three fours make twelve.")
}

func TestLLMUsage(t *testing.T) {
	assert.Contains(t, LLMUsage(nil), NoLLMUsage)

	out := LLMUsage([]store.LLMUsage{
		{Purpose: "translate", Model: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 0},
		{Purpose: "translate", Model: "unknown-model", Calls: 1},
	})
	assert.Contains(t, out, "0.1500")
	assert.Contains(t, out, "estimated total: $0.1500")
}

func TestExplanation(t *testing.T) {
	assert.Empty(t, Explanation(nil))

	out := Explanation(&explain.Explanation{
		Concept:    "slope",
		Definition: "Rise over run.",
		Example:    "From (0, 0) to (2, 4) the slope is 2.",
		Tips:       []string{"Watch the sign"},
	})
	assert.Contains(t, out, "slope")
	assert.Contains(t, out, "Rise over run.")
	assert.Contains(t, out, "the slope is 2.")
	assert.Contains(t, out, "• Watch the sign")
	assert.NotContains(t, out, "Why it matters", "empty parts are skipped")
}
