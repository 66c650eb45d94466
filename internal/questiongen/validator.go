package questiongen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/satprep/internal/catalog"
)

// Validator checks one generated question.
type Validator interface {
	Name() string
	Validate(q *catalog.Question, in Input) *ValidationError
}

// ValidationError explains why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string

	// Retryable is true when asking again is likely to help.
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question rejected by %s: %s", e.Validator, e.Message)
}

const (
	maxPromptRunes      = 600
	maxPassageRunes     = 2000
	maxExplanationRunes = 1200
)

// StructuralValidator checks required text and length limits.
type StructuralValidator struct{}

func (StructuralValidator) Name() string { return "structural" }

func (v StructuralValidator) Validate(q *catalog.Question, in Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	prompt := q.Prompt.Get(catalog.LangEnglish)
	switch {
	case prompt == "":
		return fail("prompt is empty")
	case utf8.RuneCountInString(prompt) > maxPromptRunes:
		return fail("prompt longer than %d characters", maxPromptRunes)
	case utf8.RuneCountInString(q.Passage.Get(catalog.LangEnglish)) > maxPassageRunes:
		return fail("passage longer than %d characters", maxPassageRunes)
	case q.Explanation.Get(catalog.LangEnglish) == "":
		return fail("explanation is empty")
	case utf8.RuneCountInString(q.Explanation.Get(catalog.LangEnglish)) > maxExplanationRunes:
		return fail("explanation longer than %d characters", maxExplanationRunes)
	case in.Section == catalog.SectionReading && q.Passage.Get(catalog.LangEnglish) == "":
		return fail("reading question has no passage")
	}
	return nil
}

// ChoicesValidator checks for four distinct options with the answer among
// them.
type ChoicesValidator struct{}

func (ChoicesValidator) Name() string { return "choices" }

func (v ChoicesValidator) Validate(q *catalog.Question, _ Input) *ValidationError {
	opts := q.OptionsIn(catalog.LangEnglish)
	if len(opts) != 4 {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("want 4 options, got %d", len(opts)), Retryable: true}
	}

	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		key := strings.ToLower(o)
		if o == "" || seen[key] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("empty or duplicate option %q", o), Retryable: true}
		}
		seen[key] = true
	}
	if q.CorrectIndex() < 0 {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("answer %q is not one of the options", q.Answer), Retryable: true}
	}
	return nil
}

// DifficultyValidator checks the reported difficulty matches the request.
type DifficultyValidator struct{}

func (DifficultyValidator) Name() string { return "difficulty" }

func (v DifficultyValidator) Validate(q *catalog.Question, in Input) *ValidationError {
	if !q.Difficulty.Valid() {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("difficulty %d out of range", int(q.Difficulty)), Retryable: true}
	}
	if in.Difficulty != catalog.DifficultyAny && q.Difficulty != in.Difficulty {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("asked for %s, model reported %s", in.Difficulty, q.Difficulty),
			Retryable: true,
		}
	}
	return nil
}
