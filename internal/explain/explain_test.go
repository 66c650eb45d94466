package explain

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/llm"
	"github.com/abhisek/satprep/internal/store"
)

func reply() llm.MockResponse {
	return llm.Reply(map[string]any{
		"definition": "The slope is the change in y divided by the change in x.",
		"importance": "Linear functions appear in most math modules.",
		"example":    "Through (1, 2) and (3, 6) the slope is 4 / 2 = 2.",
		"tips":       []string{"Read the axes", "Check the sign"},
	})
}

func TestConcept(t *testing.T) {
	mock := llm.NewMockProvider(reply())

	got, err := New(mock).Concept(context.Background(), "  slope \n of a line ", catalog.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "slope of a line", got.Concept)
	assert.Contains(t, got.Definition, "change in y")
	assert.Len(t, got.Tips, 2)

	req := mock.Requests()[0]
	assert.Contains(t, req.Messages[0].Content, `"slope of a line"`)
	assert.Contains(t, req.Messages[0].Content, "Answer in English")
	require.NotNil(t, req.Schema)
	assert.Equal(t, "concept-explanation", req.Schema.Name)
}

func TestConceptArabic(t *testing.T) {
	mock := llm.NewMockProvider(reply())
	_, err := New(mock).Concept(context.Background(), "slope", catalog.LangArabic)
	require.NoError(t, err)
	assert.Contains(t, mock.Requests()[0].Messages[0].Content, "Answer in Arabic")
}

func TestConceptRejectsInput(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := New(mock)

	_, err := svc.Concept(context.Background(), "   ", catalog.LangEnglish)
	assert.Error(t, err)

	_, err = svc.Concept(context.Background(), strings.Repeat("x", MaxConceptLen+1), catalog.LangEnglish)
	assert.Error(t, err)
	assert.Zero(t, mock.Calls())
}

func TestConceptEmptyDefinition(t *testing.T) {
	mock := llm.NewMockProvider(llm.Reply(map[string]any{
		"definition": " ", "importance": "", "example": "", "tips": []string{},
	}))
	_, err := New(mock).Concept(context.Background(), "slope", catalog.LangEnglish)
	assert.Error(t, err)
}

func TestConceptProviderError(t *testing.T) {
	_, err := New(llm.NewMockProvider()).Concept(context.Background(), "slope", catalog.LangEnglish)
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

type events struct {
	got []store.LLMRequestEventData
}

func (e *events) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	e.got = append(e.got, data)
	return nil
}

func TestConceptIsAudited(t *testing.T) {
	sink := &events{}
	p := llm.WithAudit(llm.NewMockProvider(reply()), llm.ProviderMock, sink, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := New(p).Concept(context.Background(), "slope", catalog.LangEnglish)
	require.NoError(t, err)
	require.Len(t, sink.got, 1)
	assert.Equal(t, string(llm.PurposeExplain), sink.got[0].Purpose)
	assert.True(t, sink.got[0].Success)
}
