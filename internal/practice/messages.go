package practice

import (
	"github.com/abhisek/satprep/internal/catalog"
	"github.com/abhisek/satprep/internal/picker"
	"github.com/abhisek/satprep/internal/session"
)

// sessionStartedMsg is sent once the study session is open.
type sessionStartedMsg struct {
	Session session.Session
	Err     error
}

// questionReadyMsg is sent when the engine has picked a question.
type questionReadyMsg struct {
	Result *picker.Result
	Err    error
}

// answerRecordedMsg is sent after the answer has been stored.
type answerRecordedMsg struct {
	Correct  bool
	Question *catalog.Question
	Err      error
}

// timerTickMsg drives the countdown of the question with sequence Seq.
type timerTickMsg struct {
	Seq int
}

// sessionEndedMsg is sent after the session has been closed.
type sessionEndedMsg struct {
	Session session.Session
	Err     error
}
