package workflow

import (
	"context"

	"github.com/Veraticus/savemoney/internal/model"
)

// Confirmation questions.
const (
	QuestionAmount      = "金额是否正确？"
	QuestionCategory    = "请确认消费分类"
	QuestionDescription = "请提供更详细的消费描述"
)

func (e *Engine) confirm(_ context.Context, st *State) error {
	st.Questions = confirmationQuestions(st.Draft)
	return nil
}

func confirmationQuestions(d model.ExpenseDraft) []string {
	var questions []string
	if d.Confidence < amountQuestionBelow {
		questions = append(questions, QuestionAmount)
	}
	if d.Category == model.CategoryOther || !d.Category.Valid() {
		questions = append(questions, QuestionCategory)
	}
	if d.DescriptionLength() < minDescriptionRunes {
		questions = append(questions, QuestionDescription)
	}
	return questions
}
