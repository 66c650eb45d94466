// Package practice is the interactive practice screen: the learner picks a
// section, answers adaptively chosen questions against a countdown and sees
// feedback after each one.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/picker"
	"github.com/abhisek/satprep/internal/session"
	"github.com/abhisek/satprep/internal/ui/components"
)

// DefaultQuestionTimeout is how long a presented question stays answerable.
const DefaultQuestionTimeout = 30 * time.Second

const tickInterval = time.Second

// Engine is the part of engine.Engine the screen drives.
type Engine interface {
	StartSession(ctx context.Context, learner string) (session.Session, error)
	EndSession(ctx context.Context, handle uuid.UUID) (session.Session, error)
	PickAdaptiveQuestion(ctx context.Context, learner string, section catalog.Section) (*picker.Result, error)
	SubmitChoice(ctx context.Context, learner string, questionID, choice int, timeTaken time.Duration) (bool, *catalog.Question, error)
}

// Options configures the practice screen.
type Options struct {
	Learner string

	// Lang is the display language; missing translations fall back to English.
	Lang catalog.Lang

	// Section skips the section prompt when set.
	Section catalog.Section

	// QuestionTimeout discards an unanswered question after this long.
	QuestionTimeout time.Duration

	Now func() time.Time
}

type phase int

const (
	phaseStarting phase = iota
	phaseSection
	phaseLoading
	phaseQuestion
	phaseSubmitting
	phaseFeedback
	phaseExpired
	phaseEnding
	phaseDone
)

// Model is the root Bubble Tea model of the practice screen.
type Model struct {
	ctx    context.Context
	engine Engine
	opts   Options

	width  int
	height int

	phase   phase
	section catalog.Section
	input   components.TextInput
	session *session.Session
	final   *session.Session
	notice  string

	question    *catalog.Question
	choice      components.MultiChoice
	countdown   components.Countdown
	seq         int
	presentedAt time.Time
	deadline    time.Time
	lastCorrect bool

	answered int
	correct  int
	expired  int
}

// New creates the practice model.
func New(ctx context.Context, eng Engine, opts Options) Model {
	if opts.Lang == "" {
		opts.Lang = catalog.LangEnglish
	}
	if opts.QuestionTimeout <= 0 {
		opts.QuestionTimeout = DefaultQuestionTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Model{
		ctx:    ctx,
		engine: eng,
		opts:   opts,
		phase:  phaseStarting,
		input:  components.NewTextInput("math, reading or writing", 16),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startSession(), m.input.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionStartedMsg:
		return m.handleSessionStarted(msg)

	case questionReadyMsg:
		return m.handleQuestionReady(msg)

	case timerTickMsg:
		return m.handleTick(msg)

	case answerRecordedMsg:
		return m.handleAnswer(msg)

	case sessionEndedMsg:
		if msg.Err == nil {
			m.final = &msg.Session
		} else {
			m.notice = msg.Err.Error()
		}
		m.phase = phaseDone
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseSection {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.end()
	}

	switch m.phase {
	case phaseSection:
		switch key {
		case "enter":
			sec, err := catalog.ParseSection(m.input.Value())
			if err != nil {
				m.input.Reject(err.Error())
				return m, nil
			}
			m.section = sec
			m.notice = ""
			return m.next()
		case "esc":
			return m.end()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseQuestion:
		if key == "esc" {
			// Leaving a question unanswered records nothing.
			return m.chooseSection()
		}
		var cmd tea.Cmd
		m.choice, cmd = m.choice.Update(msg)
		if m.choice.Submitted {
			return m.submit()
		}
		return m, cmd

	case phaseFeedback, phaseExpired:
		switch key {
		case "enter", "n", "space", " ":
			return m.next()
		case "s":
			return m.chooseSection()
		case "q", "esc":
			return m.end()
		}
	}
	return m, nil
}

func (m Model) handleSessionStarted(msg sessionStartedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err == nil, errors.Is(msg.Err, session.ErrSessionOpen):
		s := msg.Session
		m.session = &s
	default:
		// Practice still works without a session; answers count towards
		// overall stats only.
		m.notice = fmt.Sprintf("session not started: %v", msg.Err)
	}

	if m.opts.Section.Valid() {
		m.section = m.opts.Section
		return m.next()
	}
	m.phase = phaseSection
	return m, nil
}

func (m Model) handleQuestionReady(msg questionReadyMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseLoading {
		return m, nil
	}
	if msg.Err != nil {
		m.phase = phaseSection
		m.notice = msg.Err.Error()
		return m, nil
	}
	if msg.Result == nil {
		m.phase = phaseSection
		m.input.Reject(fmt.Sprintf("no questions in %s yet", m.section))
		return m, nil
	}

	q := msg.Result.Question
	m.question = &q
	m.choice = components.NewMultiChoice(
		q.Prompt.Get(m.opts.Lang),
		q.Passage.Get(m.opts.Lang),
		q.OptionsIn(m.opts.Lang),
		q.CorrectIndex(),
	)
	m.choice.Width = m.contentWidth()
	m.countdown = components.NewCountdown(m.opts.QuestionTimeout, m.contentWidth())
	m.seq++
	m.presentedAt = m.opts.Now()
	m.deadline = m.presentedAt.Add(m.opts.QuestionTimeout)
	m.phase = phaseQuestion
	if msg.Result.Overridden {
		m.notice = fmt.Sprintf("switched to your weak section: %s", msg.Result.Section)
	}
	return m, tick(m.seq)
}

func (m Model) handleTick(msg timerTickMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseQuestion || msg.Seq != m.seq {
		return m, nil
	}
	remaining := m.deadline.Sub(m.opts.Now())
	if remaining <= 0 {
		return m.expire(), nil
	}
	m.countdown.Remaining = remaining
	return m, tick(m.seq)
}

func (m Model) handleAnswer(msg answerRecordedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.notice = fmt.Sprintf("answer not saved: %v", msg.Err)
		m.phase = phaseSection
		return m, nil
	}
	m.answered++
	if msg.Correct {
		m.correct++
	}
	if msg.Question != nil {
		m.question = msg.Question
	}
	m.lastCorrect = msg.Correct
	m.phase = phaseFeedback
	return m, nil
}

// expire discards the current question without recording it.
func (m Model) expire() Model {
	m.phase = phaseExpired
	m.expired++
	m.countdown.Remaining = 0
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	now := m.opts.Now()
	if !now.Before(m.deadline) {
		return m.expire(), nil
	}
	m.phase = phaseSubmitting
	return m, m.submitAnswer(m.question.ID, m.choice.ChosenIndex, now.Sub(m.presentedAt))
}

func (m Model) next() (tea.Model, tea.Cmd) {
	m.phase = phaseLoading
	return m, m.pickQuestion(m.section)
}

func (m Model) chooseSection() (tea.Model, tea.Cmd) {
	m.phase = phaseSection
	m.question = nil
	m.input.Reset()
	return m, m.input.Init()
}

func (m Model) end() (tea.Model, tea.Cmd) {
	if m.session == nil {
		m.phase = phaseDone
		return m, tea.Quit
	}
	m.phase = phaseEnding
	return m, m.endSession(m.session.ID)
}

func (m Model) startSession() tea.Cmd {
	return func() tea.Msg {
		s, err := m.engine.StartSession(m.ctx, m.opts.Learner)
		return sessionStartedMsg{Session: s, Err: err}
	}
}

func (m Model) pickQuestion(section catalog.Section) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.PickAdaptiveQuestion(m.ctx, m.opts.Learner, section)
		return questionReadyMsg{Result: res, Err: err}
	}
}

func (m Model) submitAnswer(questionID, choice int, timeTaken time.Duration) tea.Cmd {
	return func() tea.Msg {
		ok, q, err := m.engine.SubmitChoice(m.ctx, m.opts.Learner, questionID, choice, timeTaken)
		return answerRecordedMsg{Correct: ok, Question: q, Err: err}
	}
}

func (m Model) endSession(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		s, err := m.engine.EndSession(m.ctx, id)
		return sessionEndedMsg{Session: s, Err: err}
	}
}

func tick(seq int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{Seq: seq}
	})
}

// Result summarizes a finished practice run.
type Result struct {
	// Session is the ended study session, nil when none was open.
	Session *session.Session

	Answered int
	Correct  int
	Expired  int
}

// Result returns the outcome of the run so far.
func (m Model) Result() Result {
	return Result{Session: m.final, Answered: m.answered, Correct: m.correct, Expired: m.expired}
}

// Run starts the practice program and blocks until the learner quits.
func Run(ctx context.Context, eng Engine, opts Options) (Result, error) {
	p := tea.NewProgram(New(ctx, eng, opts))
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("run practice: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Result(), nil
	}
	return Result{}, nil
}
