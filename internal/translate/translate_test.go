package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/llm"
)

func TestTextIsCached(t *testing.T) {
	mock := llm.NewMockProvider(llm.Reply(map[string]string{"translation": "صباح الخير"}))
	svc := New(mock)
	ctx := context.Background()

	got, err := svc.Text(ctx, "Good morning", catalog.LangArabic)
	require.NoError(t, err)
	assert.Equal(t, "صباح الخير", got)

	again, err := svc.Text(ctx, "  Good morning ", catalog.LangArabic)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, mock.Calls())

	// A fresh service has its own cache.
	_, err = New(mock).Text(ctx, "Good morning", catalog.LangArabic)
	assert.Error(t, err, "script is exhausted, so a second call must reach the provider")
}

func TestTextBothDirections(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.Reply(map[string]string{"translation": "Good morning"}),
		llm.Reply(map[string]string{"translation": "صباح الخير"}),
	)
	svc := New(mock)
	ctx := context.Background()

	en, err := svc.Text(ctx, "صباح الخير", catalog.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Good morning", en)

	ar, err := svc.Text(ctx, "صباح الخير", catalog.LangArabic)
	require.NoError(t, err)
	assert.Equal(t, "صباح الخير", ar)
	assert.Equal(t, 2, mock.Calls(), "the target language is part of the cache key")

	reqs := mock.Requests()
	assert.Contains(t, reqs[0].Messages[0].Content, "Translate into English")
	assert.Contains(t, reqs[1].Messages[0].Content, "Translate into Arabic")

	// Cached per direction.
	en, err = svc.Text(ctx, "صباح الخير", catalog.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Good morning", en)
	assert.Equal(t, 2, mock.Calls())
}

func TestTextUnknownTarget(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := New(mock).Text(context.Background(), "hello", "fr")
	assert.Error(t, err)
	assert.Zero(t, mock.Calls())
}

func TestTextBlank(t *testing.T) {
	mock := llm.NewMockProvider()
	got, err := New(mock).Text(context.Background(), "  ", catalog.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "  ", got)
	assert.Zero(t, mock.Calls())
}

func TestQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.Reply(map[string]any{
		"question":    "ما ناتج 2 + 2؟",
		"passage":     "",
		"options":     []string{"3", "4", "5", "6"},
		"explanation": "اثنان زائد اثنين يساوي أربعة.",
	}))
	q := &catalog.Question{
		Section:     catalog.SectionMath,
		Difficulty:  catalog.DifficultyEasy,
		Prompt:      catalog.Text{catalog.LangEnglish: "What is 2 + 2?"},
		Options:     map[catalog.Lang][]string{catalog.LangEnglish: {"3", "4", "5", "6"}},
		Answer:      "4",
		Explanation: catalog.Text{catalog.LangEnglish: "Two plus two is four."},
	}

	require.NoError(t, New(mock).Question(context.Background(), q))
	assert.Equal(t, "ما ناتج 2 + 2؟", q.Prompt.Get(catalog.LangArabic))
	assert.Nil(t, q.Passage, "empty passage stays unset")
	assert.Len(t, q.OptionsIn(catalog.LangArabic), 4)
	assert.Equal(t, "Two plus two is four.", q.Explanation.Get(catalog.LangEnglish))
	assert.Equal(t, 1, q.CorrectIndex(), "answer key is unchanged")

	req := mock.Requests()[0]
	assert.Contains(t, req.Messages[0].Content, "2. 4")
}

func TestQuestionOptionCountMismatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.Reply(map[string]any{
		"question": "x", "passage": "", "options": []string{"a"}, "explanation": "y",
	}))
	q := &catalog.Question{
		Prompt:  catalog.Text{catalog.LangEnglish: "p"},
		Options: map[catalog.Lang][]string{catalog.LangEnglish: {"a", "b"}},
	}
	assert.Error(t, New(mock).Question(context.Background(), q))
	assert.NotContains(t, q.Options, catalog.LangArabic)
}
