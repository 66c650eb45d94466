package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one submitted answer. Rows are append-only.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("learner_id").
			Immutable().
			Comment("Learner surrogate key"),
		field.Int("question_id").
			Immutable().
			Comment("Question that was answered"),
		field.Bool("correct").
			Immutable(),
		field.Int64("time_taken_ms").
			NonNegative().
			Immutable().
			Comment("Milliseconds from display to answer"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id"),
		index.Fields("question_id"),
	}
}
