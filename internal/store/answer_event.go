package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/satprep/ent"
	"github.com/abhisek/satprep/ent/answerevent"
	"github.com/abhisek/satprep/ent/question"
	"github.com/abhisek/satprep/internal/catalog"
)

type answerRepo struct {
	client *ent.Client
	seq    *eventSequence
}

func (r *answerRepo) InsertAnswer(ctx context.Context, data AnswerEventData) (int, error) {
	if data.TimeTaken < 0 {
		return 0, fmt.Errorf("insert answer: negative time taken %s", data.TimeTaken)
	}

	seqNum, err := r.seq.next(ctx)
	if err != nil {
		return 0, err
	}

	saved, err := r.client.AnswerEvent.Create().
		SetSequence(seqNum).
		SetLearnerID(data.LearnerID).
		SetQuestionID(data.QuestionID).
		SetCorrect(data.Correct).
		SetTimeTakenMs(data.TimeTaken.Milliseconds()).
		Save(ctx)
	if err != nil {
		return 0, fmt.Errorf("save answer event: %w", err)
	}
	return saved.ID, nil
}

func (r *answerRepo) AnswersByLearner(ctx context.Context, learnerID int) ([]AnswerRecord, error) {
	events, err := r.client.AnswerEvent.Query().
		Where(answerevent.LearnerID(learnerID)).
		Order(ent.Asc(answerevent.FieldSequence)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	seen := make(map[int]bool)
	var ids []int
	for _, e := range events {
		if !seen[e.QuestionID] {
			seen[e.QuestionID] = true
			ids = append(ids, e.QuestionID)
		}
	}

	questions, err := r.client.Question.Query().
		Where(question.IDIn(ids...)).
		Select(question.FieldID, question.FieldSection, question.FieldDifficulty).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query answered questions: %w", err)
	}
	byID := make(map[int]*ent.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	out := make([]AnswerRecord, len(events))
	for i, e := range events {
		rec := AnswerRecord{
			ID:         e.ID,
			Sequence:   e.Sequence,
			LearnerID:  e.LearnerID,
			QuestionID: e.QuestionID,
			Correct:    e.Correct,
			TimeTaken:  time.Duration(e.TimeTakenMs) * time.Millisecond,
			Timestamp:  e.Timestamp,
		}
		if q, ok := byID[e.QuestionID]; ok {
			rec.Section = catalog.Section(q.Section)
			rec.Difficulty = catalog.Difficulty(q.Difficulty)
		}
		out[i] = rec
	}
	return out, nil
}
