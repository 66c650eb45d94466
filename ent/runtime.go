// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/abhisek/satprep/ent/answerevent"
	"github.com/abhisek/satprep/ent/learner"
	"github.com/abhisek/satprep/ent/llmrequestevent"
	"github.com/abhisek/satprep/ent/question"
	"github.com/abhisek/satprep/ent/schema"
	"github.com/abhisek/satprep/ent/studysession"
	"github.com/google/uuid"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	answereventMixin := schema.AnswerEvent{}.Mixin()
	answereventMixinFields0 := answereventMixin[0].Fields()
	_ = answereventMixinFields0
	answereventFields := schema.AnswerEvent{}.Fields()
	_ = answereventFields
	// answereventDescTimestamp is the schema descriptor for timestamp field.
	answereventDescTimestamp := answereventMixinFields0[1].Descriptor()
	// answerevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	answerevent.DefaultTimestamp = answereventDescTimestamp.Default.(func() time.Time)
	// answereventDescTimeTakenMs is the schema descriptor for time_taken_ms field.
	answereventDescTimeTakenMs := answereventFields[3].Descriptor()
	// answerevent.TimeTakenMsValidator is a validator for the "time_taken_ms" field. It is called by the builders before save.
	answerevent.TimeTakenMsValidator = answereventDescTimeTakenMs.Validators[0].(func(int64) error)
	llmrequesteventMixin := schema.LLMRequestEvent{}.Mixin()
	llmrequesteventMixinFields0 := llmrequesteventMixin[0].Fields()
	_ = llmrequesteventMixinFields0
	llmrequesteventFields := schema.LLMRequestEvent{}.Fields()
	_ = llmrequesteventFields
	// llmrequesteventDescTimestamp is the schema descriptor for timestamp field.
	llmrequesteventDescTimestamp := llmrequesteventMixinFields0[1].Descriptor()
	// llmrequestevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	llmrequestevent.DefaultTimestamp = llmrequesteventDescTimestamp.Default.(func() time.Time)
	// llmrequesteventDescInputTokens is the schema descriptor for input_tokens field.
	llmrequesteventDescInputTokens := llmrequesteventFields[3].Descriptor()
	// llmrequestevent.DefaultInputTokens holds the default value on creation for the input_tokens field.
	llmrequestevent.DefaultInputTokens = llmrequesteventDescInputTokens.Default.(int)
	// llmrequesteventDescOutputTokens is the schema descriptor for output_tokens field.
	llmrequesteventDescOutputTokens := llmrequesteventFields[4].Descriptor()
	// llmrequestevent.DefaultOutputTokens holds the default value on creation for the output_tokens field.
	llmrequestevent.DefaultOutputTokens = llmrequesteventDescOutputTokens.Default.(int)
	// llmrequesteventDescLatencyMs is the schema descriptor for latency_ms field.
	llmrequesteventDescLatencyMs := llmrequesteventFields[5].Descriptor()
	// llmrequestevent.DefaultLatencyMs holds the default value on creation for the latency_ms field.
	llmrequestevent.DefaultLatencyMs = llmrequesteventDescLatencyMs.Default.(int64)
	// llmrequesteventDescErrorMessage is the schema descriptor for error_message field.
	llmrequesteventDescErrorMessage := llmrequesteventFields[7].Descriptor()
	// llmrequestevent.DefaultErrorMessage holds the default value on creation for the error_message field.
	llmrequestevent.DefaultErrorMessage = llmrequesteventDescErrorMessage.Default.(string)
	learnerFields := schema.Learner{}.Fields()
	_ = learnerFields
	// learnerDescExternalID is the schema descriptor for external_id field.
	learnerDescExternalID := learnerFields[0].Descriptor()
	// learner.ExternalIDValidator is a validator for the "external_id" field. It is called by the builders before save.
	learner.ExternalIDValidator = learnerDescExternalID.Validators[0].(func(string) error)
	// learnerDescDisplayName is the schema descriptor for display_name field.
	learnerDescDisplayName := learnerFields[1].Descriptor()
	// learner.DefaultDisplayName holds the default value on creation for the display_name field.
	learner.DefaultDisplayName = learnerDescDisplayName.Default.(string)
	// learnerDescCreatedAt is the schema descriptor for created_at field.
	learnerDescCreatedAt := learnerFields[2].Descriptor()
	// learner.DefaultCreatedAt holds the default value on creation for the created_at field.
	learner.DefaultCreatedAt = learnerDescCreatedAt.Default.(func() time.Time)
	questionFields := schema.Question{}.Fields()
	_ = questionFields
	// questionDescSection is the schema descriptor for section field.
	questionDescSection := questionFields[0].Descriptor()
	// question.SectionValidator is a validator for the "section" field. It is called by the builders before save.
	question.SectionValidator = questionDescSection.Validators[0].(func(string) error)
	// questionDescDifficulty is the schema descriptor for difficulty field.
	questionDescDifficulty := questionFields[1].Descriptor()
	// question.DifficultyValidator is a validator for the "difficulty" field. It is called by the builders before save.
	question.DifficultyValidator = questionDescDifficulty.Validators[0].(func(int) error)
	// questionDescAnswer is the schema descriptor for answer field.
	questionDescAnswer := questionFields[5].Descriptor()
	// question.AnswerValidator is a validator for the "answer" field. It is called by the builders before save.
	question.AnswerValidator = questionDescAnswer.Validators[0].(func(string) error)
	// questionDescOrigin is the schema descriptor for origin field.
	questionDescOrigin := questionFields[7].Descriptor()
	// question.DefaultOrigin holds the default value on creation for the origin field.
	question.DefaultOrigin = questionDescOrigin.Default.(string)
	// questionDescCreatedAt is the schema descriptor for created_at field.
	questionDescCreatedAt := questionFields[8].Descriptor()
	// question.DefaultCreatedAt holds the default value on creation for the created_at field.
	question.DefaultCreatedAt = questionDescCreatedAt.Default.(func() time.Time)
	studysessionFields := schema.StudySession{}.Fields()
	_ = studysessionFields
	// studysessionDescStartedAt is the schema descriptor for started_at field.
	studysessionDescStartedAt := studysessionFields[2].Descriptor()
	// studysession.DefaultStartedAt holds the default value on creation for the started_at field.
	studysession.DefaultStartedAt = studysessionDescStartedAt.Default.(func() time.Time)
	// studysessionDescQuestionsAnswered is the schema descriptor for questions_answered field.
	studysessionDescQuestionsAnswered := studysessionFields[4].Descriptor()
	// studysession.DefaultQuestionsAnswered holds the default value on creation for the questions_answered field.
	studysession.DefaultQuestionsAnswered = studysessionDescQuestionsAnswered.Default.(int)
	// studysession.QuestionsAnsweredValidator is a validator for the "questions_answered" field. It is called by the builders before save.
	studysession.QuestionsAnsweredValidator = studysessionDescQuestionsAnswered.Validators[0].(func(int) error)
	// studysessionDescCorrectAnswers is the schema descriptor for correct_answers field.
	studysessionDescCorrectAnswers := studysessionFields[5].Descriptor()
	// studysession.DefaultCorrectAnswers holds the default value on creation for the correct_answers field.
	studysession.DefaultCorrectAnswers = studysessionDescCorrectAnswers.Default.(int)
	// studysession.CorrectAnswersValidator is a validator for the "correct_answers" field. It is called by the builders before save.
	studysession.CorrectAnswersValidator = studysessionDescCorrectAnswers.Validators[0].(func(int) error)
	// studysessionDescID is the schema descriptor for id field.
	studysessionDescID := studysessionFields[0].Descriptor()
	// studysession.DefaultID holds the default value on creation for the id field.
	studysession.DefaultID = studysessionDescID.Default.(func() uuid.UUID)
}
