// Package session tracks timed practice sessions.
//
// Each learner moves through Closed -> Open -> Closed. The Tracker caches the
// open session of every learner and serializes updates per learner. Counters
// are incremented in the store, never written back from the cache, so several
// processes can record into one open session. Each store round trip refreshes
// the cached snapshot.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/store"
)

var (
	// ErrSessionOpen is returned by Start when the learner already has an
	// open session.
	ErrSessionOpen = errors.New("session already open")

	// ErrNoOpenSession is returned by Record when the learner has no open
	// session.
	ErrNoOpenSession = errors.New("no open session")

	// ErrUnknownSession is returned by End for a handle that is not open.
	ErrUnknownSession = errors.New("unknown or ended session")
)

// Session is a snapshot of one session instance.
type Session struct {
	ID        uuid.UUID
	LearnerID int
	StartedAt time.Time
	EndedAt   *time.Time

	QuestionsAnswered int
	CorrectAnswers    int

	// Sections lists the sections touched, in first-touched order.
	Sections []catalog.Section
}

// Open reports whether the session has not ended.
func (s Session) Open() bool {
	return s.EndedAt == nil
}

// Duration returns the elapsed time of the session, measured up to now for
// an open session.
func (s Session) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

func (s Session) clone() Session {
	s.Sections = slices.Clone(s.Sections)
	return s
}

func fromRecord(r store.SessionRecord) Session {
	return Session{
		ID:                r.ID,
		LearnerID:         r.LearnerID,
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
		QuestionsAnswered: r.QuestionsAnswered,
		CorrectAnswers:    r.CorrectAnswers,
		Sections:          slices.Clone(r.Sections),
	}
}

// Tracker owns the open session of each learner. It is safe for concurrent
// use.
type Tracker struct {
	repo store.SessionRepo
	now  func() time.Time

	mu      sync.Mutex
	locks   map[int]*sync.Mutex
	open    map[int]*Session
	handles map[uuid.UUID]int
}

// NewTracker creates an empty Tracker. A nil clock defaults to time.Now.
func NewTracker(repo store.SessionRepo, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		repo:    repo,
		now:     now,
		locks:   make(map[int]*sync.Mutex),
		open:    make(map[int]*Session),
		handles: make(map[uuid.UUID]int),
	}
}

// Load rehydrates open sessions from the store. When the store holds more
// than one open session for a learner, the most recently started one wins.
func (t *Tracker) Load(ctx context.Context) error {
	records, err := t.repo.OpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("load open sessions: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// OpenSessions is ordered by start time, so later rows replace earlier ones.
	for _, r := range records {
		if prev, ok := t.open[r.LearnerID]; ok {
			delete(t.handles, prev.ID)
		}
		s := fromRecord(r)
		t.open[r.LearnerID] = &s
		t.handles[s.ID] = r.LearnerID
	}
	return nil
}

// learnerLock returns the mutex serializing updates for one learner.
func (t *Tracker) learnerLock(learnerID int) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[learnerID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[learnerID] = l
	}
	return l
}

func (t *Tracker) current(learnerID int) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open[learnerID]
}

func (t *Tracker) cache(s Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open[s.LearnerID] = &s
	t.handles[s.ID] = s.LearnerID
}

func (t *Tracker) forget(learnerID int, id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.open[learnerID]; ok && s.ID == id {
		delete(t.open, learnerID)
	}
	delete(t.handles, id)
}

// refresh re-reads the cached session of the learner from the store and
// drops it when another process has ended it. Callers hold the learner lock.
func (t *Tracker) refresh(ctx context.Context, learnerID int) (*Session, error) {
	s := t.current(learnerID)
	if s == nil {
		return nil, nil
	}
	rec, err := t.repo.GetSession(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if rec == nil || !rec.Open() {
		t.forget(learnerID, s.ID)
		return nil, nil
	}
	fresh := fromRecord(*rec)
	t.cache(fresh)
	return &fresh, nil
}

// Current returns the learner's open session, if any, with the totals
// currently in the store.
func (t *Tracker) Current(ctx context.Context, learnerID int) (Session, bool, error) {
	l := t.learnerLock(learnerID)
	l.Lock()
	defer l.Unlock()

	s, err := t.refresh(ctx, learnerID)
	if err != nil || s == nil {
		return Session{}, false, err
	}
	return s.clone(), true, nil
}

// Start opens a new session for the learner. It fails with ErrSessionOpen
// if one is already open.
func (t *Tracker) Start(ctx context.Context, learnerID int) (Session, error) {
	l := t.learnerLock(learnerID)
	l.Lock()
	defer l.Unlock()

	s, err := t.refresh(ctx, learnerID)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	if s != nil {
		return s.clone(), fmt.Errorf("learner %d: %w", learnerID, ErrSessionOpen)
	}

	rec, err := t.repo.InsertSession(ctx, learnerID, t.now())
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}

	started := fromRecord(rec)
	t.cache(started)
	return started.clone(), nil
}

// Record adds one answer to the learner's open session and returns the
// totals stored afterwards. It fails with ErrNoOpenSession when the learner
// has none, including when another process ended it.
func (t *Tracker) Record(ctx context.Context, learnerID int, section catalog.Section, correct bool) (Session, error) {
	l := t.learnerLock(learnerID)
	l.Lock()
	defer l.Unlock()

	s := t.current(learnerID)
	if s == nil {
		return Session{}, fmt.Errorf("learner %d: %w", learnerID, ErrNoOpenSession)
	}

	rec, err := t.repo.RecordInSession(ctx, s.ID, section, correct)
	if errors.Is(err, store.ErrSessionClosed) {
		t.forget(learnerID, s.ID)
		return Session{}, fmt.Errorf("learner %d: %w", learnerID, ErrNoOpenSession)
	}
	if err != nil {
		return Session{}, fmt.Errorf("record in session: %w", err)
	}

	next := fromRecord(rec)
	t.cache(next)
	return next.clone(), nil
}

// End closes the session with the given handle and returns its final totals.
// It fails with ErrUnknownSession for a handle that is not open.
func (t *Tracker) End(ctx context.Context, id uuid.UUID) (Session, error) {
	t.mu.Lock()
	learnerID, ok := t.handles[id]
	t.mu.Unlock()
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrUnknownSession)
	}

	l := t.learnerLock(learnerID)
	l.Lock()
	defer l.Unlock()

	s := t.current(learnerID)
	if s == nil || s.ID != id {
		// Ended concurrently.
		return Session{}, fmt.Errorf("session %s: %w", id, ErrUnknownSession)
	}

	rec, err := t.repo.EndSession(ctx, id, t.now())
	if errors.Is(err, store.ErrSessionClosed) {
		t.forget(learnerID, id)
		return Session{}, fmt.Errorf("session %s: %w", id, ErrUnknownSession)
	}
	if err != nil {
		return Session{}, fmt.Errorf("end session: %w", err)
	}

	t.forget(learnerID, id)
	return fromRecord(rec), nil
}
