package practice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/picker"
	"github.com/abhisek/satprep/internal/session"
)

type submission struct {
	questionID int
	choice     int
	timeTaken  time.Duration
}

type fakeEngine struct {
	mu          sync.Mutex
	startErr    error
	empty       bool
	session     session.Session
	submissions []submission
	ended       []uuid.UUID
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{session: session.Session{ID: uuid.New(), LearnerID: 1}}
}

func testQuestion() catalog.Question {
	return catalog.Question{
		ID:         42,
		Section:    catalog.SectionMath,
		Difficulty: catalog.DifficultyEasy,
		Prompt:     catalog.Text{catalog.LangEnglish: "What is 2 + 2?"},
		Options: map[catalog.Lang][]string{
			catalog.LangEnglish: {"3", "4", "5", "6"},
		},
		Answer:      "4",
		Explanation: catalog.Text{catalog.LangEnglish: "Two and two make four."},
	}
}

func (f *fakeEngine) StartSession(_ context.Context, _ string) (session.Session, error) {
	return f.session, f.startErr
}

func (f *fakeEngine) EndSession(_ context.Context, id uuid.UUID) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, id)
	s := f.session
	s.QuestionsAnswered = len(f.submissions)
	return s, nil
}

func (f *fakeEngine) PickAdaptiveQuestion(_ context.Context, _ string, section catalog.Section) (*picker.Result, error) {
	if f.empty {
		return nil, nil
	}
	return &picker.Result{Question: testQuestion(), Section: section, Difficulty: catalog.DifficultyEasy}, nil
}

func (f *fakeEngine) SubmitChoice(_ context.Context, _ string, questionID, choice int, timeTaken time.Duration) (bool, *catalog.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, submission{questionID, choice, timeTaken})
	q := testQuestion()
	return q.IsCorrect(choice), &q, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, keyPress(r))
	}
	return m
}

func newTestModel(t *testing.T, eng *fakeEngine, clock *fakeClock) Model {
	t.Helper()
	m := New(context.Background(), eng, Options{
		Learner:         "salim",
		QuestionTimeout: 30 * time.Second,
		Now:             clock.Now,
	})
	m, _ = update(t, m, m.startSession()())
	return m
}

// atQuestion drives a fresh model to a presented math question.
func atQuestion(t *testing.T, eng *fakeEngine, clock *fakeClock) Model {
	t.Helper()
	m := newTestModel(t, eng, clock)
	require.Equal(t, phaseSection, m.phase)

	m = typeText(t, m, "math")
	m, cmd := update(t, m, specialKey(tea.KeyEnter))
	require.Equal(t, phaseLoading, m.phase)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	require.Equal(t, phaseQuestion, m.phase)
	return m
}

func TestAnswerFlow(t *testing.T) {
	eng := newFakeEngine()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := atQuestion(t, eng, clock)

	assert.Equal(t, catalog.SectionMath, m.section)
	assert.NotNil(t, m.session)

	clock.Advance(12 * time.Second)
	m, cmd := update(t, m, keyPress('b'))
	require.Equal(t, phaseSubmitting, m.phase)
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, phaseFeedback, m.phase)
	assert.True(t, m.lastCorrect)
	assert.Equal(t, 1, m.answered)
	assert.Equal(t, 1, m.correct)
	assert.Contains(t, m.content(), "Two and two make four.")

	require.Len(t, eng.submissions, 1)
	assert.Equal(t, submission{questionID: 42, choice: 1, timeTaken: 12 * time.Second}, eng.submissions[0])
}

func TestExpiredQuestionIsNotRecorded(t *testing.T) {
	eng := newFakeEngine()
	clock := &fakeClock{t: time.Now()}
	m := atQuestion(t, eng, clock)

	clock.Advance(10 * time.Second)
	m, cmd := update(t, m, timerTickMsg{Seq: m.seq})
	assert.Equal(t, phaseQuestion, m.phase)
	assert.NotNil(t, cmd)
	assert.Equal(t, 20*time.Second, m.countdown.Remaining)

	clock.Advance(25 * time.Second)
	m, cmd = update(t, m, timerTickMsg{Seq: m.seq})
	assert.Equal(t, phaseExpired, m.phase)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.expired)
	assert.Empty(t, eng.submissions)
}

func TestLateSubmitIsDiscarded(t *testing.T) {
	eng := newFakeEngine()
	clock := &fakeClock{t: time.Now()}
	m := atQuestion(t, eng, clock)

	// The tick has not fired yet but the window has closed.
	clock.Advance(31 * time.Second)
	m, cmd := update(t, m, keyPress('b'))
	assert.Equal(t, phaseExpired, m.phase)
	assert.Nil(t, cmd)
	assert.Empty(t, eng.submissions)
}

func TestStaleTickIgnored(t *testing.T) {
	eng := newFakeEngine()
	clock := &fakeClock{t: time.Now()}
	m := atQuestion(t, eng, clock)

	clock.Advance(time.Hour)
	m, cmd := update(t, m, timerTickMsg{Seq: m.seq - 1})
	assert.Equal(t, phaseQuestion, m.phase)
	assert.Nil(t, cmd)
}

func TestInvalidSectionStaysOnPrompt(t *testing.T) {
	eng := newFakeEngine()
	m := newTestModel(t, eng, &fakeClock{t: time.Now()})

	m = typeText(t, m, "science")
	m, cmd := update(t, m, specialKey(tea.KeyEnter))
	assert.Equal(t, phaseSection, m.phase)
	assert.Nil(t, cmd)
	assert.Contains(t, m.input.Err(), "unknown section")
}

func TestEmptySectionReturnsToPrompt(t *testing.T) {
	eng := newFakeEngine()
	eng.empty = true
	m := newTestModel(t, eng, &fakeClock{t: time.Now()})

	m = typeText(t, m, "writing")
	m, cmd := update(t, m, specialKey(tea.KeyEnter))
	m, _ = update(t, m, cmd())
	assert.Equal(t, phaseSection, m.phase)
	assert.Contains(t, m.input.Err(), "no questions in writing")
}

func TestOpenSessionIsReused(t *testing.T) {
	eng := newFakeEngine()
	eng.startErr = session.ErrSessionOpen
	m := newTestModel(t, eng, &fakeClock{t: time.Now()})

	require.NotNil(t, m.session)
	assert.Equal(t, eng.session.ID, m.session.ID)
	assert.Empty(t, m.notice)
}

func TestStartFailureStillPractices(t *testing.T) {
	eng := newFakeEngine()
	eng.startErr = errors.New("disk full")
	m := newTestModel(t, eng, &fakeClock{t: time.Now()})

	assert.Nil(t, m.session)
	assert.Contains(t, m.notice, "disk full")
	assert.Equal(t, phaseSection, m.phase)

	// Quitting without a session exits immediately.
	m, cmd := update(t, m, specialKey(tea.KeyEscape))
	assert.Equal(t, phaseDone, m.phase)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitEndsSession(t *testing.T) {
	eng := newFakeEngine()
	clock := &fakeClock{t: time.Now()}
	m := atQuestion(t, eng, clock)

	m, cmd := update(t, m, keyPress('b'))
	m, _ = update(t, m, cmd())
	require.Equal(t, phaseFeedback, m.phase)

	m, cmd = update(t, m, keyPress('q'))
	assert.Equal(t, phaseEnding, m.phase)
	require.NotNil(t, cmd)

	m, cmd = update(t, m, cmd())
	assert.Equal(t, phaseDone, m.phase)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	res := m.Result()
	require.NotNil(t, res.Session)
	assert.Equal(t, eng.session.ID, res.Session.ID)
	assert.Equal(t, 1, res.Answered)
	assert.Equal(t, []uuid.UUID{eng.session.ID}, eng.ended)
}

func TestNextAndSectionKeys(t *testing.T) {
	eng := newFakeEngine()
	clock := &fakeClock{t: time.Now()}
	m := atQuestion(t, eng, clock)

	m, cmd := update(t, m, specialKey(tea.KeyEnter))
	m, _ = update(t, m, cmd())
	require.Equal(t, phaseFeedback, m.phase)

	m, cmd = update(t, m, keyPress('n'))
	assert.Equal(t, phaseLoading, m.phase)
	m, _ = update(t, m, cmd())
	assert.Equal(t, phaseQuestion, m.phase)
	assert.Equal(t, 2, m.seq)

	m, _ = update(t, m, specialKey(tea.KeyEscape))
	assert.Equal(t, phaseSection, m.phase)
	assert.Empty(t, m.input.Value())
}

func TestPreselectedSectionSkipsPrompt(t *testing.T) {
	eng := newFakeEngine()
	m := New(context.Background(), eng, Options{Learner: "x", Section: catalog.SectionReading})
	m, cmd := update(t, m, m.startSession()())
	assert.Equal(t, phaseLoading, m.phase)
	assert.Equal(t, catalog.SectionReading, m.section)
	require.NotNil(t, cmd)
}

func TestViewRendersFrame(t *testing.T) {
	eng := newFakeEngine()
	m := atQuestion(t, eng, &fakeClock{t: time.Now()})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Contains(t, m.content(), "What is 2 + 2?")
}
