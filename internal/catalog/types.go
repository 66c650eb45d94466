// Package catalog defines the question model shared by the store, the
// selection engine and the presentation layers.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Section is one of the subject areas a question belongs to.
type Section string

const (
	SectionMath    Section = "math"
	SectionReading Section = "reading"
	SectionWriting Section = "writing"
)

// Sections lists every known section in display order.
var Sections = []Section{SectionMath, SectionReading, SectionWriting}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionMath, SectionReading, SectionWriting:
		return true
	}
	return false
}

// ParseSection converts user input into a Section.
func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	if !sec.Valid() {
		return "", fmt.Errorf("unknown section %q (want math, reading or writing)", s)
	}
	return sec, nil
}

// Difficulty is the tier of a question. DifficultyAny is only used as a
// query value and means "do not filter on difficulty".
type Difficulty int

const (
	DifficultyAny    Difficulty = 0
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	case DifficultyAny:
		return "any"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// Valid reports whether d is a concrete tier (not DifficultyAny).
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// ParseDifficulty accepts "easy", "medium", "hard", "any" or the digits 1-3.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	case "", "any":
		return DifficultyAny, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Difficulty(n).Valid() {
		return 0, fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
	}
	return Difficulty(n), nil
}

// Lang is a language code used to index text bundles.
type Lang string

const (
	LangEnglish Lang = "en"
	LangArabic  Lang = "ar"
)

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == LangEnglish || l == LangArabic
}

// Name returns the English name of the language.
func (l Lang) Name() string {
	switch l {
	case LangArabic:
		return "Arabic"
	default:
		return "English"
	}
}

// ParseLang accepts "en" or "ar", case-insensitively.
func ParseLang(s string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown language %q (want en or ar)", s)
	}
	return l, nil
}

// Text is a language-indexed text bundle.
type Text map[Lang]string

// Get returns the text in lang, falling back to English.
func (t Text) Get(lang Lang) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	return t[LangEnglish]
}

// Origin records how a question entered the catalog.
type Origin string

const (
	OriginCatalog   Origin = "catalog"
	OriginGenerated Origin = "generated"
)

// Question is a single multiple-choice practice question.
type Question struct {
	ID          int
	Section     Section
	Difficulty  Difficulty
	Prompt      Text
	Passage     Text
	Options     map[Lang][]string
	Answer      string // English text of the correct option
	Explanation Text
	Origin      Origin
}

// OptionsIn returns the options in lang, falling back to English when the
// translation is missing or has a different length.
func (q *Question) OptionsIn(lang Lang) []string {
	en := q.Options[LangEnglish]
	if opts, ok := q.Options[lang]; ok && len(opts) == len(en) {
		return opts
	}
	return en
}

// CorrectIndex returns the index of Answer among the English options, or -1
// when the answer does not match any option.
func (q *Question) CorrectIndex() int {
	for i, opt := range q.Options[LangEnglish] {
		if opt == q.Answer {
			return i
		}
	}
	return -1
}

// IsCorrect reports whether choosing option index choice answers q correctly.
func (q *Question) IsCorrect(choice int) bool {
	idx := q.CorrectIndex()
	return idx >= 0 && idx == choice
}
