package workflow

import "github.com/Veraticus/savemoney/internal/model"

// StageFailure records an optional call that failed without aborting the run.
type StageFailure struct {
	Err   error
	Stage Stage
}

// State is the per-request workflow state. It is never shared between requests.
type State struct {
	Final       *model.ExpenseRecord
	RequestID   string
	RawText     string
	Suggestions model.CategorySuggestions
	Questions   []string
	Revisions   []string
	Failures    []StageFailure
	Visited     []Stage
	Draft       model.ExpenseDraft
}

func newState(requestID, rawText string) *State {
	return &State{RequestID: requestID, RawText: rawText}
}

func (s *State) fail(stage Stage, err error) {
	s.Failures = append(s.Failures, StageFailure{Stage: stage, Err: err})
}
