package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// StudySession is a bounded practice window. A session is open while
// ended_at is NULL.
type StudySession struct {
	ent.Schema
}

func (StudySession) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
		field.Int("learner_id").
			Immutable(),
		field.Time("started_at").
			Default(time.Now).
			Immutable(),
		field.Time("ended_at").
			Optional().
			Nillable(),
		field.Int("questions_answered").
			Default(0).
			NonNegative(),
		field.Int("correct_answers").
			Default(0).
			NonNegative(),
		field.JSON("sections", []string{}).
			Optional().
			Comment("Sections touched, in first-touched order"),
	}
}

func (StudySession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "started_at"),
	}
}
