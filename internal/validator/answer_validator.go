package validator

import (
	"github.com/SAP-F-2025/feedback-service/internal/codec"
	"github.com/SAP-F-2025/feedback-service/internal/models"
)

// AnswerValidator turns a submitted answer into the value stored for a question.
// Anything that is not a valid answer for the question type becomes models.NoAnswer.
type AnswerValidator struct{}

func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{}
}

// Normalize returns the stored answer for question. A nil answer means the
// question was not part of the submission.
func (v *AnswerValidator) Normalize(question *models.FeedbackFormQuestion, answer *string) string {
	if question == nil || answer == nil {
		return models.NoAnswer
	}

	switch question.Type {
	case models.QuestionOpenText:
		return v.normalizeOpenText(*answer)
	case models.QuestionSingleAnswer:
		return v.normalizeSingleAnswer(codec.Decode(question.Options), *answer)
	case models.QuestionMultipleAnswer:
		return v.normalizeMultipleAnswer(codec.Decode(question.Options), *answer)
	default:
		return models.NoAnswer
	}
}

func (v *AnswerValidator) normalizeOpenText(answer string) string {
	if answer == "" {
		return models.NoAnswer
	}
	return answer
}

// normalizeSingleAnswer keeps the answer as submitted when its lenient integer
// reading is an option value, so "1.5" is stored as is for option 1
func (v *AnswerValidator) normalizeSingleAnswer(options []codec.Option, answer string) string {
	if answer == "" || !codec.Contains(options, codec.ToInteger(answer)) {
		return models.NoAnswer
	}
	return answer
}

func (v *AnswerValidator) normalizeMultipleAnswer(options []codec.Option, answer string) string {
	values, ok := codec.SplitSelection(answer)
	if !ok {
		return models.NoAnswer
	}

	seen := make(map[int]struct{}, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup || !codec.Contains(options, value) {
			return models.NoAnswer
		}
		seen[value] = struct{}{}
	}
	return codec.JoinSelection(values)
}
