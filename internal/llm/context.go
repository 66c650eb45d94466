package llm

import "context"

// Purpose labels why a request was made. It is stored with the audit event.
type Purpose string

const (
	PurposeQuestionGen Purpose = "question-gen"
	PurposeTranslate   Purpose = "translate"
	PurposeExplain     Purpose = "explain"
	PurposeUnknown     Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose returns a context carrying p.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}
