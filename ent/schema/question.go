package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Question is one catalog entry. Text fields are language-indexed bundles
// keyed by language code ("en", "ar"). Questions are immutable once created.
type Question struct {
	ent.Schema
}

func (Question) Fields() []ent.Field {
	return []ent.Field{
		field.String("section").
			NotEmpty().
			Immutable().
			Comment("math, reading or writing"),
		field.Int("difficulty").
			Range(1, 3).
			Immutable().
			Comment("1 easy, 2 medium, 3 hard"),
		field.JSON("prompt", map[string]string{}).
			Immutable(),
		field.JSON("passage", map[string]string{}).
			Optional().
			Immutable(),
		field.JSON("choices", map[string][]string{}).
			Immutable().
			Comment("Ordered options per language"),
		field.String("answer").
			NotEmpty().
			Immutable().
			Comment("English text of the correct option"),
		field.JSON("explanation", map[string]string{}).
			Optional().
			Immutable(),
		field.String("origin").
			Default("catalog").
			Immutable().
			Comment("catalog or generated"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Question) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("section", "difficulty"),
	}
}
