package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/satprep/internal/catalog"
)

const systemPrompt = `You write SAT practice questions for secondary-school students in Oman.

Rules:
- Produce exactly one multiple-choice question with four options and exactly one correct option.
- The answer field must repeat the correct option text exactly.
- Keep names, places and contexts culturally appropriate for Omani students.
- Reading questions include a short passage (80-200 words); other sections leave passage empty unless the question needs one.
- Wrong options should reflect realistic mistakes.
- The explanation says why the answer is right in two to four sentences.
- Report the difficulty you targeted: 1 easy, 2 medium, 3 hard.
- Do not reuse any prompt from the "avoid" list.`

var sectionBriefs = map[catalog.Section]string{
	catalog.SectionMath:    "SAT Math (algebra, problem solving and data analysis, advanced math, geometry)",
	catalog.SectionReading: "SAT Reading (comprehension, inference, vocabulary in context) based on a passage",
	catalog.SectionWriting: "SAT Writing (grammar, usage, punctuation, sentence structure)",
}

func userPrompt(in Input, maxAvoid int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Section: %s\n", sectionBriefs[in.Section])
	fmt.Fprintf(&b, "Difficulty: %s (%d)\n", in.Difficulty, int(in.Difficulty))
	if in.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	}

	avoid := in.Avoid
	if maxAvoid > 0 && len(avoid) > maxAvoid {
		avoid = avoid[len(avoid)-maxAvoid:]
	}
	b.WriteString("\nAvoid:\n")
	if len(avoid) == 0 {
		b.WriteString("None")
	}
	for i, p := range avoid {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
