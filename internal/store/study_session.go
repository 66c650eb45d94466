package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/satprep/ent"
	"github.com/abhisek/satprep/ent/studysession"
	"github.com/abhisek/satprep/internal/catalog"
)

// ErrSessionClosed is returned when a session update targets a session that
// has ended or does not exist.
var ErrSessionClosed = errors.New("study session not open")

type sessionRepo struct {
	client *ent.Client
}

func (r *sessionRepo) InsertSession(ctx context.Context, learnerID int, startedAt time.Time) (SessionRecord, error) {
	row, err := r.client.StudySession.Create().
		SetLearnerID(learnerID).
		SetStartedAt(startedAt).
		Save(ctx)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("save study session: %w", err)
	}
	return toSessionRecord(row), nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id uuid.UUID) (*SessionRecord, error) {
	row, err := r.client.StudySession.Get(ctx, id)
	if ent.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get study session %s: %w", id, err)
	}
	rec := toSessionRecord(row)
	return &rec, nil
}

func (r *sessionRepo) RecordInSession(ctx context.Context, id uuid.UUID, section catalog.Section, correct bool) (SessionRecord, error) {
	tx, err := r.client.Tx(ctx)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("begin session update: %w", err)
	}

	// The increment runs first so the transaction holds the write lock
	// before it reads the sections list back.
	upd := tx.StudySession.Update().
		Where(studysession.ID(id), studysession.EndedAtIsNil()).
		AddQuestionsAnswered(1)
	if correct {
		upd = upd.AddCorrectAnswers(1)
	}
	n, err := upd.Save(ctx)
	if err != nil {
		return SessionRecord{}, rollback(tx, fmt.Errorf("update study session %s: %w", id, err))
	}
	if n == 0 {
		return SessionRecord{}, rollback(tx, fmt.Errorf("study session %s: %w", id, ErrSessionClosed))
	}

	row, err := tx.StudySession.Get(ctx, id)
	if err != nil {
		return SessionRecord{}, rollback(tx, fmt.Errorf("reload study session %s: %w", id, err))
	}
	if section != "" && !slices.Contains(row.Sections, string(section)) {
		row, err = tx.StudySession.UpdateOne(row).
			SetSections(append(slices.Clone(row.Sections), string(section))).
			Save(ctx)
		if err != nil {
			return SessionRecord{}, rollback(tx, fmt.Errorf("update study session sections %s: %w", id, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return SessionRecord{}, fmt.Errorf("commit session update: %w", err)
	}
	return toSessionRecord(row), nil
}

func (r *sessionRepo) EndSession(ctx context.Context, id uuid.UUID, endedAt time.Time) (SessionRecord, error) {
	n, err := r.client.StudySession.Update().
		Where(studysession.ID(id), studysession.EndedAtIsNil()).
		SetEndedAt(endedAt).
		Save(ctx)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("end study session %s: %w", id, err)
	}
	if n == 0 {
		return SessionRecord{}, fmt.Errorf("study session %s: %w", id, ErrSessionClosed)
	}

	// Ended rows no longer change, so this read sees the final totals.
	row, err := r.client.StudySession.Get(ctx, id)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("reload study session %s: %w", id, err)
	}
	return toSessionRecord(row), nil
}

func (r *sessionRepo) OpenSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := r.client.StudySession.Query().
		Where(studysession.EndedAtIsNil()).
		Order(ent.Asc(studysession.FieldStartedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query open sessions: %w", err)
	}
	return toSessionRecords(rows), nil
}

func (r *sessionRepo) RecentSessions(ctx context.Context, learnerID int, limit int) ([]SessionRecord, error) {
	query := r.client.StudySession.Query().
		Where(studysession.LearnerID(learnerID)).
		Order(ent.Desc(studysession.FieldStartedAt))
	if limit > 0 {
		query = query.Limit(limit)
	}
	rows, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	return toSessionRecords(rows), nil
}

func toSessionRecords(rows []*ent.StudySession) []SessionRecord {
	out := make([]SessionRecord, len(rows))
	for i, row := range rows {
		out[i] = toSessionRecord(row)
	}
	return out
}

func toSessionRecord(row *ent.StudySession) SessionRecord {
	rec := SessionRecord{
		ID:                row.ID,
		LearnerID:         row.LearnerID,
		StartedAt:         row.StartedAt,
		EndedAt:           row.EndedAt,
		QuestionsAnswered: row.QuestionsAnswered,
		CorrectAnswers:    row.CorrectAnswers,
	}
	for _, s := range row.Sections {
		rec.Sections = append(rec.Sections, catalog.Section(s))
	}
	return rec
}

func rollback(tx *ent.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: rollback: %v", err, rerr)
	}
	return err
}
