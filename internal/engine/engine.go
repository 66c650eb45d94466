// Package engine is the boundary the presentation layers talk to. It ties
// the record store, the analytics functions, the question picker and the
// session tracker together for one learner at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/satprep/internal/analytics"
	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/picker"
	"github.com/abhisek/satprep/internal/session"
	"github.com/abhisek/satprep/internal/store"
)

// ErrUnknownQuestion is returned when an answer names a question that is
// not in the catalog.
var ErrUnknownQuestion = errors.New("unknown question")

// DefaultRecentSessions is how many sessions GetStats reports.
const DefaultRecentSessions = 5

// Repos are the record store collaborators.
type Repos struct {
	Learners  store.LearnerRepo
	Questions store.QuestionRepo
	Answers   store.AnswerRepo
	Sessions  store.SessionRepo
}

// ReposFrom returns the repositories of an open Store.
func ReposFrom(s *store.Store) Repos {
	return Repos{
		Learners:  s.LearnerRepo(),
		Questions: s.QuestionRepo(),
		Answers:   s.AnswerRepo(),
		Sessions:  s.SessionRepo(),
	}
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	Logger *slog.Logger

	// WeakThreshold is the accuracy percentage below which a section is weak.
	WeakThreshold float64

	// OverrideWeak lets adaptive picks move to a weak section.
	OverrideWeak bool

	// NoHistory decides the difficulty for learners without answers.
	NoHistory analytics.NoHistoryPolicy

	// Seed makes question selection reproducible; zero is random.
	Seed uint64

	// RecentSessions caps the sessions returned by GetStats.
	RecentSessions int

	Now func() time.Time
}

// Stats is the progress report of one learner.
type Stats struct {
	*analytics.Summary

	// Recent holds the latest sessions, newest first.
	Recent []store.SessionRecord
}

// Engine is safe for concurrent use.
type Engine struct {
	repos   Repos
	opts    Options
	logger  *slog.Logger
	picker  *picker.Picker
	tracker *session.Tracker
}

// New creates an Engine and rehydrates open sessions from the store.
func New(ctx context.Context, repos Repos, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WeakThreshold <= 0 {
		opts.WeakThreshold = analytics.DefaultWeakThreshold
	}
	if opts.NoHistory == "" {
		opts.NoHistory = analytics.NoHistoryAny
	}
	if opts.RecentSessions <= 0 {
		opts.RecentSessions = DefaultRecentSessions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Engine{
		repos:  repos,
		opts:   opts,
		logger: opts.Logger,
		picker: picker.New(repos.Questions, picker.Config{
			WeakThreshold: opts.WeakThreshold,
			NoHistory:     opts.NoHistory,
			Seed:          opts.Seed,
		}),
		tracker: session.NewTracker(repos.Sessions, opts.Now),
	}
	if err := e.tracker.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// RegisterLearner creates or renames a learner and returns its key.
func (e *Engine) RegisterLearner(ctx context.Context, learner, displayName string) (int, error) {
	return e.repos.Learners.EnsureLearner(ctx, learner, displayName)
}

// summary aggregates the learner's history. It returns nil when the learner
// is unknown or has not answered anything.
func (e *Engine) summary(ctx context.Context, learner string) (int, *analytics.Summary, error) {
	id, found, err := e.repos.Learners.LookupLearner(ctx, learner)
	if err != nil || !found {
		return 0, nil, err
	}
	answers, err := e.repos.Answers.AnswersByLearner(ctx, id)
	if err != nil {
		return id, nil, err
	}
	return id, analytics.Aggregate(answers), nil
}

// GetStats returns the learner's progress report, or nil when there is no
// answer history yet.
func (e *Engine) GetStats(ctx context.Context, learner string) (*Stats, error) {
	id, sum, err := e.summary(ctx, learner)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	if sum == nil {
		return nil, nil
	}

	recent, err := e.repos.Sessions.RecentSessions(ctx, id, e.opts.RecentSessions)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &Stats{Summary: sum, Recent: recent}, nil
}

// GetWeakAreas ranks every attempted section by accuracy, weakest first.
// Sections below the weak threshold are the ones the picker steers towards;
// WeakThreshold reports that cut-off. The result is empty for a learner
// without history.
func (e *Engine) GetWeakAreas(ctx context.Context, learner string) ([]analytics.WeakArea, error) {
	_, sum, err := e.summary(ctx, learner)
	if err != nil {
		return nil, fmt.Errorf("get weak areas: %w", err)
	}
	if sum == nil {
		return []analytics.WeakArea{}, nil
	}
	return analytics.RankWeakAreas(sum.Sections), nil
}

// WeakThreshold is the accuracy percentage below which a section counts as
// weak.
func (e *Engine) WeakThreshold() float64 {
	return e.opts.WeakThreshold
}

// PickAdaptiveQuestion chooses a question for the learner in section,
// targeting a difficulty from the learner's overall accuracy. It returns
// nil when the section has no questions.
func (e *Engine) PickAdaptiveQuestion(ctx context.Context, learner string, section catalog.Section) (*picker.Result, error) {
	return e.PickAdaptive(ctx, learner, section, e.opts.OverrideWeak)
}

// PickAdaptive is PickAdaptiveQuestion with an explicit weak-area override.
func (e *Engine) PickAdaptive(ctx context.Context, learner string, section catalog.Section, preferWeak bool) (*picker.Result, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("pick question: unknown section %q", section)
	}
	_, sum, err := e.summary(ctx, learner)
	if err != nil {
		return nil, fmt.Errorf("pick question: %w", err)
	}

	res, err := e.picker.Pick(ctx, picker.Request{Section: section, Summary: sum, PreferWeak: preferWeak})
	if err != nil {
		return nil, fmt.Errorf("pick question: %w", err)
	}
	if res == nil {
		e.logger.Info("no question available", "section", section)
		return nil, nil
	}
	e.logger.Debug("picked question",
		"learner", learner,
		"question", res.Question.ID,
		"section", res.Section,
		"difficulty", res.Difficulty,
		"relaxed", res.Relaxed,
		"overridden", res.Overridden,
	)
	return res, nil
}

// PickQuestion chooses uniformly among section questions at difficulty,
// without consulting any history.
func (e *Engine) PickQuestion(ctx context.Context, section catalog.Section, difficulty catalog.Difficulty) (*catalog.Question, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("pick question: unknown section %q", section)
	}
	res, err := e.picker.PickFixed(ctx, section, difficulty)
	if err != nil || res == nil {
		return nil, err
	}
	return &res.Question, nil
}

// Question returns a catalog question by ID, or nil.
func (e *Engine) Question(ctx context.Context, id int) (*catalog.Question, error) {
	return e.repos.Questions.GetQuestion(ctx, id)
}

// StartSession opens a study session for the learner. A learner with an
// open session gets session.ErrSessionOpen together with that session.
func (e *Engine) StartSession(ctx context.Context, learner string) (session.Session, error) {
	id, err := e.repos.Learners.EnsureLearner(ctx, learner, "")
	if err != nil {
		return session.Session{}, fmt.Errorf("start session: %w", err)
	}
	s, err := e.tracker.Start(ctx, id)
	if err != nil {
		return s, err
	}
	e.logger.Info("session started", "learner", learner, "session", s.ID)
	return s, nil
}

// CurrentSession returns the learner's open session.
func (e *Engine) CurrentSession(ctx context.Context, learner string) (session.Session, bool, error) {
	id, found, err := e.repos.Learners.LookupLearner(ctx, learner)
	if err != nil || !found {
		return session.Session{}, false, err
	}
	return e.tracker.Current(ctx, id)
}

// RecordAnswer appends an answer event and, when the learner has an open
// session, adds it to the session totals. The event is stored before
// RecordAnswer returns, so a following GetStats includes it.
func (e *Engine) RecordAnswer(ctx context.Context, learner string, questionID int, correct bool, timeTaken time.Duration) error {
	if timeTaken < 0 {
		return fmt.Errorf("record answer: negative time taken %s", timeTaken)
	}
	q, err := e.repos.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	if q == nil {
		return fmt.Errorf("record answer: question %d: %w", questionID, ErrUnknownQuestion)
	}

	id, err := e.repos.Learners.EnsureLearner(ctx, learner, "")
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	if _, err := e.repos.Answers.InsertAnswer(ctx, store.AnswerEventData{
		LearnerID:  id,
		QuestionID: questionID,
		Correct:    correct,
		TimeTaken:  timeTaken,
	}); err != nil {
		return fmt.Errorf("record answer: %w", err)
	}

	_, err = e.tracker.Record(ctx, id, q.Section, correct)
	switch {
	case errors.Is(err, session.ErrNoOpenSession):
		// Answers outside a session only count towards overall stats.
		return nil
	case err != nil:
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// SubmitChoice checks the option the learner picked, records the answer
// and reports whether it was correct along with the question.
func (e *Engine) SubmitChoice(ctx context.Context, learner string, questionID, choice int, timeTaken time.Duration) (bool, *catalog.Question, error) {
	q, err := e.repos.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return false, nil, fmt.Errorf("submit answer: %w", err)
	}
	if q == nil {
		return false, nil, fmt.Errorf("submit answer: question %d: %w", questionID, ErrUnknownQuestion)
	}
	correct := q.IsCorrect(choice)
	if err := e.RecordAnswer(ctx, learner, questionID, correct, timeTaken); err != nil {
		return false, q, err
	}
	return correct, q, nil
}

// EndSession closes the session with the given handle and returns its
// final totals.
func (e *Engine) EndSession(ctx context.Context, handle uuid.UUID) (session.Session, error) {
	s, err := e.tracker.End(ctx, handle)
	if err != nil {
		return session.Session{}, err
	}
	e.logger.Info("session ended",
		"session", s.ID,
		"answered", s.QuestionsAnswered,
		"correct", s.CorrectAnswers,
		"duration", s.Duration(e.opts.Now()),
	)
	return s, nil
}
