// Package report renders progress statistics, weak areas, sessions and
// questions for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/explain"
	"github.com/abhisek/satprep/internal/llm"
	"github.com/abhisek/satprep/internal/session"
	"github.com/abhisek/satprep/internal/store"
	"github.com/abhisek/satprep/internal/ui/components"
	"github.com/abhisek/satprep/internal/ui/theme"
)

// Messages for empty results. They are not errors.
const (
	NoStats     = "No stats yet. Answer a few questions to see your progress."
	NoRanking   = "No sections attempted yet."
	NoWeakAreas = "No weak areas. Keep it up!"
	NoQuestion  = "No questions available for this section."
	NoLLMUsage  = "No LLM usage recorded yet."
)

const (
	colSection = 10
	colNum     = 8
	colTime    = 9
)

var (
	heading = theme.Title
	dim     = lipgloss.NewStyle().Foreground(theme.TextDim)
	rule    = dim.Render(strings.Repeat("─", colSection+3*colNum+colTime+8))
)

// Stats renders the overall tuple, one row per section and the recent
// sessions. A nil summary renders NoStats.
func Stats(sum *analytics.Summary, recent []store.SessionRecord, threshold float64, now time.Time) string {
	if sum == nil {
		return dim.Render(NoStats)
	}
	if threshold <= 0 {
		threshold = analytics.DefaultWeakThreshold
	}

	var b strings.Builder
	o := sum.Overall
	b.WriteString(heading.Render("Overall"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  answered %d   correct %d   accuracy %s   avg time %s\n\n",
		o.TotalAnswered, o.TotalCorrect, accuracyOrDash(o.Accuracy()), formatSeconds(o.MeanTimeTaken))

	b.WriteString(heading.Render("By section"))
	b.WriteString("\n")
	b.WriteString(dim.Render(components.Row(
		components.Cell("Section", colSection),
		components.RightCell("Total", colNum),
		components.RightCell("Correct", colNum),
		components.RightCell("Accuracy", colNum),
		components.RightCell("Avg time", colTime),
	)))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")
	for _, s := range sum.Sections {
		pct, ok := s.Accuracy()
		acc := components.RightCell(accuracyOrDash(pct, ok), colNum)
		if ok {
			acc = theme.Accuracy(pct, threshold).Render(acc)
		}
		b.WriteString(components.Row(
			components.Cell(string(s.Section), colSection),
			components.RightCell(fmt.Sprint(s.Total), colNum),
			components.RightCell(fmt.Sprint(s.Correct), colNum),
			acc,
			components.RightCell(formatSeconds(s.AvgTime), colTime),
		))
		b.WriteString("\n")
	}

	if len(recent) > 0 {
		b.WriteString("\n")
		b.WriteString(heading.Render("Recent sessions"))
		b.WriteString("\n")
		for _, r := range recent {
			b.WriteString("  ")
			b.WriteString(sessionLine(r, now))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// WeakAreas renders every attempted section, weakest first. Sections below
// threshold are marked weak.
func WeakAreas(ranked []analytics.WeakArea, threshold float64) string {
	if len(ranked) == 0 {
		return dim.Render(NoRanking)
	}

	var b strings.Builder
	b.WriteString(heading.Render("Weak areas"))
	b.WriteString("\n")
	weak := 0
	for i, w := range ranked {
		mark := ""
		if w.Accuracy < threshold {
			mark = theme.Weak.Render("weak")
			weak++
		}
		fmt.Fprintf(&b, "  %d. %s %s  %s %s\n",
			i+1,
			components.Cell(string(w.Section), colSection),
			theme.Accuracy(w.Accuracy, threshold).Render(components.RightCell(formatPercent(w.Accuracy), colNum)),
			dim.Render(fmt.Sprintf("(%d answered)", w.Total)),
			mark,
		)
	}
	if weak == 0 {
		b.WriteString(theme.Correct.Render(NoWeakAreas))
	}
	return strings.TrimRight(b.String(), "\n ")
}

// Explanation renders a concept explanation under its own headings.
func Explanation(e *explain.Explanation) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(heading.Render(e.Concept))
	b.WriteString("\n\n")
	for _, part := range []struct{ title, body string }{
		{"Definition", e.Definition},
		{"Why it matters", e.Importance},
		{"Example", e.Example},
	} {
		if strings.TrimSpace(part.body) == "" {
			continue
		}
		b.WriteString(theme.Subtitle.Render(part.title))
		b.WriteString("\n")
		b.WriteString(part.body)
		b.WriteString("\n\n")
	}
	if len(e.Tips) > 0 {
		b.WriteString(theme.Subtitle.Render("Tips"))
		b.WriteString("\n")
		for _, tip := range e.Tips {
			fmt.Fprintf(&b, "  • %s\n", tip)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Session renders the state of one study session.
func Session(s session.Session, now time.Time) string {
	state := theme.Correct.Render("open")
	if !s.Open() {
		state = dim.Render("ended")
	}

	sections := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		sections[i] = string(sec)
	}
	if len(sections) == 0 {
		sections = []string{"-"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "session  %s (%s)\n", s.ID, state)
	fmt.Fprintf(&b, "started  %s\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "duration %s\n", s.Duration(now).Round(time.Second))
	fmt.Fprintf(&b, "answered %d, correct %d\n", s.QuestionsAnswered, s.CorrectAnswers)
	fmt.Fprintf(&b, "sections %s", strings.Join(sections, ", "))
	return b.String()
}

func sessionLine(r store.SessionRecord, now time.Time) string {
	end := now
	status := theme.Correct.Render("open ")
	if r.EndedAt != nil {
		end = *r.EndedAt
		status = dim.Render("ended")
	}
	return fmt.Sprintf("%s  %s  %s  %d/%d correct",
		r.StartedAt.Local().Format("2006-01-02 15:04"),
		status,
		components.RightCell(end.Sub(r.StartedAt).Round(time.Second).String(), colTime),
		r.CorrectAnswers, r.QuestionsAnswered,
	)
}

// Question renders a question with lettered options in lang, falling back
// to English where a translation is missing.
func Question(q *catalog.Question, lang catalog.Lang) string {
	if q == nil {
		return dim.Render(NoQuestion)
	}

	var b strings.Builder
	b.WriteString(dim.Render(fmt.Sprintf("#%d  %s · %s", q.ID, q.Section, q.Difficulty)))
	b.WriteString("\n\n")
	if p := q.Passage.Get(lang); p != "" {
		b.WriteString(theme.Card.Render(p))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Render(q.Prompt.Get(lang)))
	b.WriteString("\n\n")
	for i, opt := range q.OptionsIn(lang) {
		fmt.Fprintf(&b, "  %s)  %s\n", components.ChoiceLabel(i), opt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Feedback renders the outcome of an answered question with the
// explanation in lang.
func Feedback(q *catalog.Question, correct bool, lang catalog.Lang) string {
	var b strings.Builder
	if correct {
		b.WriteString(theme.Correct.Render("✓ Correct!"))
	} else {
		idx := q.CorrectIndex()
		answer := q.Answer
		if opts := q.OptionsIn(lang); idx >= 0 && idx < len(opts) {
			answer = opts[idx]
		}
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("✗ Wrong. The answer is %s) %s", components.ChoiceLabel(idx), answer)))
	}
	if exp := q.Explanation.Get(lang); exp != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(exp))
	}
	return b.String()
}

// LLMUsage renders the audit trail aggregated by purpose and model with an
// estimated cost where the model price is known.
func LLMUsage(rows []store.LLMUsage) string {
	if len(rows) == 0 {
		return dim.Render(NoLLMUsage)
	}

	const colPurpose, colModel = 14, 28

	var b strings.Builder
	b.WriteString(dim.Render(components.Row(
		components.Cell("Purpose", colPurpose),
		components.Cell("Model", colModel),
		components.RightCell("Calls", 6),
		components.RightCell("Failed", 6),
		components.RightCell("Input", 9),
		components.RightCell("Output", 9),
		components.RightCell("Avg ms", 7),
		components.RightCell("Cost $", 9),
	)))
	b.WriteString("\n")

	var total float64
	for _, r := range rows {
		cost := "?"
		if p, ok := llm.PriceOf(r.Model); ok {
			c := p.Cost(llm.Usage{InputTokens: r.InputTokens, OutputTokens: r.OutputTokens})
			total += c
			cost = fmt.Sprintf("%.4f", c)
		}
		b.WriteString(components.Row(
			components.Cell(r.Purpose, colPurpose),
			components.Cell(r.Model, colModel),
			components.RightCell(fmt.Sprint(r.Calls), 6),
			components.RightCell(fmt.Sprint(r.Failures), 6),
			components.RightCell(fmt.Sprint(r.InputTokens), 9),
			components.RightCell(fmt.Sprint(r.OutputTokens), 9),
			components.RightCell(fmt.Sprint(r.AvgLatencyMs), 7),
			components.RightCell(cost, 9),
		))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nestimated total: $%.4f", total)
	return b.String()
}

func accuracyOrDash(pct float64, ok bool) string {
	if !ok {
		return "-"
	}
	return formatPercent(pct)
}

func formatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
