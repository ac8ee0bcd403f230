package workflow

import "github.com/pressmith/pr-agent/internal/models"

// State is the mutable record threaded through one run of the loop. A
// fresh State is created per run and discarded on exit; nothing is shared
// across requests.
//
// Invariants: Statement is always the output of the most recent generation
// step once Grade is set. Feedback carries only the latest evaluator
// guidance; it is consumed by the next generation step, never accumulated.
type State struct {
	Topic     string
	Statement string
	Grade     models.Grade
	Feedback  string
}
