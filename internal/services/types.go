package services

import (
	"strings"

	"github.com/SAP-F-2025/feedback-service/internal/codec"
	"github.com/SAP-F-2025/feedback-service/internal/models"
)

// ===== REQUEST TYPES =====

type FeedbackQuestionAnswerInput struct {
	Question uint   `json:"question"`
	Answer   string `json:"answer" validate:"max=4000"`
}

type FeedbackAnswerInput struct {
	Form      uint                          `json:"form"`
	Questions []FeedbackQuestionAnswerInput `json:"questions" validate:"max=500,dive"`
}

// ===== RESPONSE TYPES =====

type FeedbackQuestionOption struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type FeedbackQuestionResponse struct {
	ID       uint                     `json:"id"`
	Question string                   `json:"question"`
	Type     models.QuestionType      `json:"type"`
	Priority int                      `json:"priority"`
	Options  []FeedbackQuestionOption `json:"options"`
}

type FeedbackFormResponse struct {
	ID        uint                       `json:"id"`
	Name      string                     `json:"name"`
	Priority  int                        `json:"priority"`
	Questions []FeedbackQuestionResponse `json:"questions"`
}

type FeedbackAnswerResponse struct {
	Question FeedbackQuestionResponse `json:"question"`
	Answer   string                   `json:"answer"`
}

type PartialUser struct {
	Email string `json:"email"`
}

// FeedbackResultEntry is one user's answers to one form
type FeedbackResultEntry struct {
	Form    FeedbackFormResponse     `json:"form"`
	Answers []FeedbackAnswerResponse `json:"answers"`
	User    PartialUser              `json:"user"`
}

// ===== CONVERSION HELPERS =====

func questionResponse(q *models.FeedbackFormQuestion) FeedbackQuestionResponse {
	decoded := codec.Decode(q.Options)
	options := make([]FeedbackQuestionOption, len(decoded))
	for i, option := range decoded {
		options[i] = FeedbackQuestionOption{Value: option.Value, Text: option.Text}
	}

	return FeedbackQuestionResponse{
		ID:       q.ID,
		Question: q.Question,
		Type:     q.Type,
		Priority: q.Priority,
		Options:  options,
	}
}

// formResponse assumes questions are already in presentation order
func formResponse(form *models.FeedbackForm, questions []*models.FeedbackFormQuestion) FeedbackFormResponse {
	resp := FeedbackFormResponse{
		ID:        form.ID,
		Name:      form.Name,
		Priority:  form.Priority,
		Questions: make([]FeedbackQuestionResponse, 0, len(questions)),
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, questionResponse(q))
	}
	return resp
}

// OptionText resolves a stored choice answer to its option labels joined with the selection separator.
// Open text answers and NoAnswer are returned unchanged.
func (q FeedbackQuestionResponse) OptionText(answer string) string {
	if !q.Type.IsChoice() || answer == models.NoAnswer {
		return answer
	}

	options := make([]codec.Option, len(q.Options))
	for i, o := range q.Options {
		options[i] = codec.Option{Value: o.Value, Text: o.Text}
	}

	if q.Type == models.QuestionSingleAnswer {
		if text, found := codec.TextFor(options, codec.ToInteger(answer)); found {
			return text
		}
		return answer
	}

	values, ok := codec.SplitSelection(answer)
	if !ok {
		return answer
	}

	labels := make([]string, 0, len(values))
	for _, v := range values {
		text, found := codec.TextFor(options, v)
		if !found {
			return answer
		}
		labels = append(labels, text)
	}
	return strings.Join(labels, codec.OptionsSeparator)
}
