package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/store"
)

// memRepo is an in-memory store.SessionRepo.
type memRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]store.SessionRecord
	order     []uuid.UUID
	updates   int
	updateErr error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[uuid.UUID]store.SessionRecord)}
}

func (m *memRepo) InsertSession(_ context.Context, learnerID int, startedAt time.Time) (store.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := store.SessionRecord{ID: uuid.New(), LearnerID: learnerID, StartedAt: startedAt}
	m.rows[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return rec, nil
}

func (m *memRepo) GetSession(_ context.Context, id uuid.UUID) (*store.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	rec.Sections = slices.Clone(rec.Sections)
	return &rec, nil
}

func (m *memRepo) RecordInSession(_ context.Context, id uuid.UUID, section catalog.Section, correct bool) (store.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return store.SessionRecord{}, m.updateErr
	}
	rec, ok := m.rows[id]
	if !ok || !rec.Open() {
		return store.SessionRecord{}, fmt.Errorf("session %s: %w", id, store.ErrSessionClosed)
	}
	rec.QuestionsAnswered++
	if correct {
		rec.CorrectAnswers++
	}
	if section != "" && !slices.Contains(rec.Sections, section) {
		rec.Sections = append(slices.Clone(rec.Sections), section)
	}
	m.rows[id] = rec
	m.updates++
	return rec, nil
}

func (m *memRepo) EndSession(_ context.Context, id uuid.UUID, endedAt time.Time) (store.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[id]
	if !ok || !rec.Open() {
		return store.SessionRecord{}, fmt.Errorf("session %s: %w", id, store.ErrSessionClosed)
	}
	rec.EndedAt = &endedAt
	m.rows[id] = rec
	return rec, nil
}

func (m *memRepo) OpenSessions(_ context.Context) ([]store.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.SessionRecord
	for _, id := range m.order {
		if rec := m.rows[id]; rec.Open() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memRepo) RecentSessions(context.Context, int, int) ([]store.SessionRecord, error) {
	return nil, nil
}

func fixedClock() func() time.Time {
	now := time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestTrackerLifecycle(t *testing.T) {
	repo := newMemRepo()
	tr := NewTracker(repo, fixedClock())
	ctx := context.Background()

	s, err := tr.Start(ctx, 1)
	require.NoError(t, err)
	assert.True(t, s.Open())
	assert.Zero(t, s.QuestionsAnswered)

	answers := []struct {
		section catalog.Section
		correct bool
	}{
		{catalog.SectionMath, true},
		{catalog.SectionMath, false},
		{catalog.SectionReading, true},
	}
	for _, a := range answers {
		_, err := tr.Record(ctx, 1, a.section, a.correct)
		require.NoError(t, err)
	}

	cur, ok, err := tr.Current(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, cur.QuestionsAnswered)

	ended, err := tr.End(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ended.Open())
	assert.Equal(t, 3, ended.QuestionsAnswered)
	assert.Equal(t, 2, ended.CorrectAnswers)
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionReading}, ended.Sections)
	assert.Equal(t, time.Minute, ended.Duration(time.Time{}))

	persisted := repo.rows[s.ID]
	assert.Equal(t, 3, persisted.QuestionsAnswered)
	assert.Equal(t, 2, persisted.CorrectAnswers)
	assert.False(t, persisted.Open())

	_, ok, err = tr.Current(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrackerInvalidTransitions(t *testing.T) {
	tr := NewTracker(newMemRepo(), nil)
	ctx := context.Background()

	_, err := tr.Record(ctx, 1, catalog.SectionMath, true)
	assert.ErrorIs(t, err, ErrNoOpenSession)

	_, err = tr.End(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnknownSession)

	first, err := tr.Start(ctx, 1)
	require.NoError(t, err)

	again, err := tr.Start(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionOpen)
	assert.Equal(t, first.ID, again.ID, "conflict reports the open session")

	_, err = tr.End(ctx, first.ID)
	require.NoError(t, err)

	_, err = tr.End(ctx, first.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)

	// A new instance may start after the previous one ended.
	second, err := tr.Start(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTrackerLearnersAreIndependent(t *testing.T) {
	tr := NewTracker(newMemRepo(), nil)
	ctx := context.Background()

	_, err := tr.Start(ctx, 1)
	require.NoError(t, err)

	_, err = tr.Record(ctx, 2, catalog.SectionWriting, true)
	assert.ErrorIs(t, err, ErrNoOpenSession)

	_, err = tr.Start(ctx, 2)
	assert.NoError(t, err)
}

func TestTrackerConcurrentRecords(t *testing.T) {
	repo := newMemRepo()
	tr := NewTracker(repo, nil)
	ctx := context.Background()

	s, err := tr.Start(ctx, 9)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := tr.Record(ctx, 9, catalog.SectionMath, i%2 == 0)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ended, err := tr.End(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, n, ended.QuestionsAnswered)
	assert.Equal(t, n/2, ended.CorrectAnswers)
	assert.Equal(t, n, repo.updates)
}

func TestTrackerRecordFailureKeepsCounters(t *testing.T) {
	repo := newMemRepo()
	tr := NewTracker(repo, nil)
	ctx := context.Background()

	_, err := tr.Start(ctx, 1)
	require.NoError(t, err)

	boom := errors.New("locked")
	repo.updateErr = boom
	_, err = tr.Record(ctx, 1, catalog.SectionMath, true)
	assert.ErrorIs(t, err, boom)

	cur, ok, err := tr.Current(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, cur.QuestionsAnswered)
}

func TestTrackerLoadRehydrates(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	first := NewTracker(repo, nil)
	s, err := first.Start(ctx, 4)
	require.NoError(t, err)
	_, err = first.Record(ctx, 4, catalog.SectionReading, true)
	require.NoError(t, err)

	// A second process sees the same open session.
	second := NewTracker(repo, nil)
	require.NoError(t, second.Load(ctx))

	cur, ok, err := second.Current(ctx, 4)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s.ID, cur.ID)
	assert.Equal(t, 1, cur.QuestionsAnswered)

	ended, err := second.End(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, ended.CorrectAnswers)
}

func TestTrackersShareOpenSession(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	first := NewTracker(repo, nil)
	s, err := first.Start(ctx, 3)
	require.NoError(t, err)

	second := NewTracker(repo, nil)
	require.NoError(t, second.Load(ctx))

	_, err = first.Record(ctx, 3, catalog.SectionMath, true)
	require.NoError(t, err)
	after, err := second.Record(ctx, 3, catalog.SectionWriting, true)
	require.NoError(t, err)
	assert.Equal(t, 2, after.QuestionsAnswered, "second tracker sees the first one's answer")

	_, err = first.Record(ctx, 3, catalog.SectionMath, false)
	require.NoError(t, err)

	ended, err := first.End(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, ended.QuestionsAnswered)
	assert.Equal(t, 2, ended.CorrectAnswers)
	assert.Equal(t, []catalog.Section{catalog.SectionMath, catalog.SectionWriting}, ended.Sections)

	// The other tracker's cache is stale; the store refuses its writes.
	_, err = second.Record(ctx, 3, catalog.SectionMath, true)
	assert.ErrorIs(t, err, ErrNoOpenSession)
	_, err = second.End(ctx, s.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Equal(t, 3, repo.rows[s.ID].QuestionsAnswered)
}

func TestTrackerStartAfterRemoteEnd(t *testing.T) {
	repo := newMemRepo()
	ctx := context.Background()

	first := NewTracker(repo, nil)
	s, err := first.Start(ctx, 5)
	require.NoError(t, err)

	second := NewTracker(repo, nil)
	require.NoError(t, second.Load(ctx))
	_, err = second.End(ctx, s.ID)
	require.NoError(t, err)

	_, ok, err := first.Current(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := first.Start(ctx, 5)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, next.ID)
}
