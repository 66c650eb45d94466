package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		in      string
		want    Section
		wantErr bool
	}{
		{"math", SectionMath, false},
		{" Reading ", SectionReading, false},
		{"WRITING", SectionWriting, false},
		{"science", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSection(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"Medium", DifficultyMedium, false},
		{"hard", DifficultyHard, false},
		{"2", DifficultyMedium, false},
		{"", DifficultyAny, false},
		{"any", DifficultyAny, false},
		{"4", 0, true},
		{"extreme", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestTextFallsBackToEnglish(t *testing.T) {
	txt := Text{LangEnglish: "hello"}
	assert.Equal(t, "hello", txt.Get(LangArabic))

	txt[LangArabic] = "مرحبا"
	assert.Equal(t, "مرحبا", txt.Get(LangArabic))
}

func TestCorrectIndex(t *testing.T) {
	q := Question{
		Options: map[Lang][]string{LangEnglish: {"a", "b", "c", "d"}},
		Answer:  "c",
	}
	assert.Equal(t, 2, q.CorrectIndex())
	assert.True(t, q.IsCorrect(2))
	assert.False(t, q.IsCorrect(0))

	q.Answer = "z"
	assert.Equal(t, -1, q.CorrectIndex())
	assert.False(t, q.IsCorrect(-1))
}

func TestOptionsInMismatchedTranslation(t *testing.T) {
	q := Question{Options: map[Lang][]string{
		LangEnglish: {"a", "b"},
		LangArabic:  {"أ"},
	}}
	assert.Equal(t, []string{"a", "b"}, q.OptionsIn(LangArabic))
}

func TestSeedCatalog(t *testing.T) {
	qs, err := Seed()
	require.NoError(t, err)
	require.Len(t, qs, 9)

	perSection := map[Section]int{}
	for _, q := range qs {
		perSection[q.Section]++
		assert.True(t, q.Difficulty.Valid())
		assert.GreaterOrEqual(t, q.CorrectIndex(), 0)
		assert.Len(t, q.OptionsIn(LangArabic), 4)
		assert.Equal(t, OriginCatalog, q.Origin)
	}
	for _, s := range Sections {
		assert.Equal(t, 3, perSection[s], s)
	}
}

func TestLoadRejectsBadAnswer(t *testing.T) {
	in := `{"math": [{"question": {"en": "1+1?"}, "options": [{"en": "1"}, {"en": "2"}], "answer": "3", "explanation": {"en": "two"}}]}`
	_, err := Load(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "math[0]")
}

func TestLoadDefaultsDifficultyToMedium(t *testing.T) {
	in := `{"writing": [{"question": {"en": "Pick"}, "options": [{"en": "x"}, {"en": "y"}], "answer": "y", "explanation": {"en": ""}}]}`
	qs, err := Load(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, DifficultyMedium, qs[0].Difficulty)
	assert.Equal(t, SectionWriting, qs[0].Section)
}

func TestLoadUnknownSection(t *testing.T) {
	_, err := Load(strings.NewReader(`{"history": []}`))
	assert.Error(t, err)
}
