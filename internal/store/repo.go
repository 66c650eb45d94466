package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/satprep/internal/catalog"
)

// LearnerRepo maps external learner identities to surrogate keys.
type LearnerRepo interface {
	// EnsureLearner returns the surrogate key for externalID, creating the
	// learner on first sight. A non-empty displayName replaces the stored one.
	EnsureLearner(ctx context.Context, externalID, displayName string) (int, error)

	// LookupLearner returns the surrogate key for externalID. found is false
	// when the learner has never been seen.
	LookupLearner(ctx context.Context, externalID string) (id int, found bool, err error)
}

// QuestionRepo provides access to the question catalog.
type QuestionRepo interface {
	// InsertQuestion persists q and returns its new ID.
	InsertQuestion(ctx context.Context, q *catalog.Question) (int, error)

	// GetQuestion returns the question with the given ID, or nil if none exists.
	GetQuestion(ctx context.Context, id int) (*catalog.Question, error)

	// QueryQuestions returns the questions in section, ordered by ID.
	// catalog.DifficultyAny disables the difficulty filter.
	QueryQuestions(ctx context.Context, section catalog.Section, difficulty catalog.Difficulty) ([]catalog.Question, error)

	// CountQuestions returns the number of questions in the catalog.
	CountQuestions(ctx context.Context) (int, error)
}

// AnswerEventData is the input for recording one answer.
type AnswerEventData struct {
	LearnerID  int
	QuestionID int
	Correct    bool
	TimeTaken  time.Duration
}

// AnswerRecord is a stored answer joined with the section and difficulty
// of its question.
type AnswerRecord struct {
	ID         int
	Sequence   int64
	LearnerID  int
	QuestionID int
	Section    catalog.Section
	Difficulty catalog.Difficulty
	Correct    bool
	TimeTaken  time.Duration
	Timestamp  time.Time
}

// AnswerRepo appends and reads answer events.
type AnswerRepo interface {
	// InsertAnswer appends one answer event and returns its ID.
	InsertAnswer(ctx context.Context, data AnswerEventData) (int, error)

	// AnswersByLearner returns every answer of the learner in append order.
	AnswersByLearner(ctx context.Context, learnerID int) ([]AnswerRecord, error)
}

// SessionRecord is a persisted study session.
type SessionRecord struct {
	ID                uuid.UUID
	LearnerID         int
	StartedAt         time.Time
	EndedAt           *time.Time
	QuestionsAnswered int
	CorrectAnswers    int
	Sections          []catalog.Section
}

// Open reports whether the session has not been ended.
func (r SessionRecord) Open() bool {
	return r.EndedAt == nil
}

// SessionRepo persists study sessions. Counter updates are applied in the
// database, so several processes may record into the same open session.
type SessionRepo interface {
	// InsertSession creates an open session and returns it.
	InsertSession(ctx context.Context, learnerID int, startedAt time.Time) (SessionRecord, error)

	// GetSession returns the session with the given ID, or nil if none exists.
	GetSession(ctx context.Context, id uuid.UUID) (*SessionRecord, error)

	// RecordInSession adds one answer to an open session and returns the
	// updated row. It fails with ErrSessionClosed when the session has ended
	// or does not exist.
	RecordInSession(ctx context.Context, id uuid.UUID, section catalog.Section, correct bool) (SessionRecord, error)

	// EndSession stamps the end time of an open session and returns its final
	// row. It fails with ErrSessionClosed when the session has already ended
	// or does not exist.
	EndSession(ctx context.Context, id uuid.UUID, endedAt time.Time) (SessionRecord, error)

	// OpenSessions returns every session that has not been ended.
	OpenSessions(ctx context.Context) ([]SessionRecord, error)

	// RecentSessions returns up to limit sessions of the learner, newest first.
	RecentSessions(ctx context.Context, learnerID int, limit int) ([]SessionRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to audit events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// LLMUsage is the aggregated audit trail of one (purpose, model) pair.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}
