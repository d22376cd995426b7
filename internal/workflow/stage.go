// Package workflow runs the staged refinement of an expense utterance: basic
// extraction, optional model enhancement, category suggestions, confirmation
// questions and finalization, as an explicit state machine.
package workflow

import "github.com/Veraticus/savemoney/internal/model"

// Stage is a state of the refinement state machine.
type Stage int

// Stages in execution order.
const (
	StageExtractBasic Stage = iota
	StageEnhance
	StageSuggest
	StageConfirm
	StageFinalize
	StageDone
)

// Gating thresholds.
const (
	enhanceBelow        = 0.8
	suggestBelow        = 0.6
	confirmBelow        = 0.8
	amountQuestionBelow = 0.7
	minDescriptionRunes = 3
	maxSuggestions      = 3
)

func (s Stage) String() string {
	switch s {
	case StageExtractBasic:
		return "extract_basic"
	case StageEnhance:
		return "enhance"
	case StageSuggest:
		return "suggest"
	case StageConfirm:
		return "confirm"
	case StageFinalize:
		return "finalize"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// next is the transition function.
func next(stage Stage, st *State) Stage {
	switch stage {
	case StageExtractBasic:
		return StageEnhance
	case StageEnhance:
		if shouldSuggest(st.Draft) {
			return StageSuggest
		}
		return confirmOrFinalize(st.Draft)
	case StageSuggest:
		return confirmOrFinalize(st.Draft)
	case StageConfirm:
		return StageFinalize
	default:
		return StageDone
	}
}

func shouldSuggest(d model.ExpenseDraft) bool {
	return d.Confidence < suggestBelow || d.Category == model.CategoryOther
}

func confirmOrFinalize(d model.ExpenseDraft) Stage {
	if d.Confidence < confirmBelow {
		return StageConfirm
	}
	return StageFinalize
}
