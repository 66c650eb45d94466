package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

//go:embed seed.json
var seedCatalog []byte

// fileQuestion is the on-disk shape of one catalog entry.
type fileQuestion struct {
	Question    map[Lang]string   `json:"question"`
	Passage     map[Lang]string   `json:"passage,omitempty"`
	Options     []map[Lang]string `json:"options"`
	Answer      string            `json:"answer"`
	Explanation map[Lang]string   `json:"explanation"`
	Difficulty  int               `json:"difficulty,omitempty"`
}

// Seed returns the catalog embedded in the binary.
func Seed() ([]Question, error) {
	return decode(seedCatalog)
}

// LoadFile reads a catalog file of the form
// {"math": [{"question": {"en": ..., "ar": ...}, "options": [{"en": ..., "ar": ...}], ...}]}.
func LoadFile(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a catalog from r.
func Load(r io.Reader) ([]Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return decode(data)
}

func decode(data []byte) ([]Question, error) {
	var raw map[string][]fileQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	// Map iteration order is random; sort so IDs are assigned stably.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Question
	for _, name := range names {
		section, err := ParseSection(name)
		if err != nil {
			return nil, err
		}
		for i, fq := range raw[name] {
			q, err := fq.toQuestion(section)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			out = append(out, q)
		}
	}
	return out, nil
}

func (fq fileQuestion) toQuestion(section Section) (Question, error) {
	difficulty := Difficulty(fq.Difficulty)
	if fq.Difficulty == 0 {
		difficulty = DifficultyMedium
	}
	if !difficulty.Valid() {
		return Question{}, fmt.Errorf("difficulty %d out of range", fq.Difficulty)
	}

	options := make(map[Lang][]string)
	for _, opt := range fq.Options {
		for lang, text := range opt {
			options[lang] = append(options[lang], text)
		}
	}

	q := Question{
		Section:     section,
		Difficulty:  difficulty,
		Prompt:      Text(fq.Question),
		Passage:     Text(fq.Passage),
		Options:     options,
		Answer:      fq.Answer,
		Explanation: Text(fq.Explanation),
		Origin:      OriginCatalog,
	}
	if q.Prompt.Get(LangEnglish) == "" {
		return Question{}, fmt.Errorf("missing english question text")
	}
	if q.CorrectIndex() < 0 {
		return Question{}, fmt.Errorf("answer %q is not one of the options", fq.Answer)
	}
	return q, nil
}
