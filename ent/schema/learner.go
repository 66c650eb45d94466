package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Learner maps an external identity (chat user id, dashboard user) to a
// numeric surrogate key. Learners are never deleted.
type Learner struct {
	ent.Schema
}

func (Learner) Fields() []ent.Field {
	return []ent.Field{
		field.String("external_id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("Opaque identity supplied by the caller"),
		field.String("display_name").
			Default("").
			Comment("Last known display name"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
