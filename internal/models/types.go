package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Grade is the evaluator's verdict on a generated statement. The two
// literals are part of the evaluator's output schema; anything else is a
// schema violation.
type Grade string

const (
	GradeGood             Grade = "good"
	GradeNeedsImprovement Grade = "needs improvement"
)

func (g Grade) Valid() bool {
	return g == GradeGood || g == GradeNeedsImprovement
}

// Evaluation is the structured output of one evaluator call. Feedback is
// always present as a string; it only carries meaning when the grade is
// "needs improvement".
type Evaluation struct {
	Grade    Grade  `json:"grade" jsonschema:"required,description=Whether the PR statement is well-formed or needs improvement"`
	Feedback string `json:"feedback" jsonschema:"description=How to improve the statement when it needs improvement"`
}

const (
	TopicMinLength = 1
	TopicMaxLength = 500
)

// Input message

type StatementRequest struct {
	Topic string `json:"topic"`
}

// Validate enforces the topic length bounds. Lengths are counted in
// characters, not bytes.
func (r StatementRequest) Validate() error {
	n := utf8.RuneCountInString(r.Topic)
	if n < TopicMinLength {
		return fmt.Errorf("topic must be at least %d character", TopicMinLength)
	}
	if n > TopicMaxLength {
		return fmt.Errorf("topic must be at most %d characters, got %d", TopicMaxLength, n)
	}
	return nil
}

type StatementResponse struct {
	PRStatement string `json:"pr_statement"`
	Status      Status `json:"status"`
	Message     string `json:"message"`
}

// GenerationRequest is the event consumed from a stream or a batch file.
type GenerationRequest struct {
	EventID string `json:"event_id"`
	Topic   string `json:"topic"`
}

// GenerationResult is the per-event outcome emitted by the worker and the
// batch processor.
type GenerationResult struct {
	ID          string        `json:"id"`
	Topic       string        `json:"topic"`
	PRStatement string        `json:"pr_statement"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}
