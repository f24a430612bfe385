package services

import (
	"sort"

	"github.com/SAP-F-2025/feedback-service/internal/models"
)

type resultGroupKey struct {
	userID string
	formID uint
}

// aggregateResults builds the results report.
//
// Answers are grouped by (user, form) in the order groups are first seen while
// scanning results, so a user who answered two forms gets two entries. Results
// whose form no longer exists and answers to questions outside their form are
// dropped. Entries are ordered by form priority and answers by question
// priority, both descending; ties keep scan order.
func aggregateResults(results []*models.FeedbackResult, forms []*models.FeedbackForm, questions []*models.FeedbackFormQuestion) []FeedbackResultEntry {
	questionsByForm := make(map[uint][]*models.FeedbackFormQuestion)
	for _, q := range questions {
		questionsByForm[q.FormID] = append(questionsByForm[q.FormID], q)
	}

	formsByID := make(map[uint]FeedbackFormResponse, len(forms))
	for _, f := range forms {
		formQuestions := questionsByForm[f.ID]
		sortQuestionsByPriority(formQuestions)
		formsByID[f.ID] = formResponse(f, formQuestions)
	}

	var order []resultGroupKey
	groups := make(map[resultGroupKey][]*models.FeedbackResult)
	for _, r := range results {
		if _, ok := formsByID[r.FormID]; !ok {
			continue
		}
		key := resultGroupKey{userID: r.UserID, formID: r.FormID}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	entries := make([]FeedbackResultEntry, 0, len(order))
	for _, key := range order {
		form := formsByID[key.formID]

		byID := make(map[uint]FeedbackQuestionResponse, len(form.Questions))
		for _, q := range form.Questions {
			byID[q.ID] = q
		}

		answers := make([]FeedbackAnswerResponse, 0, len(groups[key]))
		for _, r := range groups[key] {
			question, ok := byID[r.QuestionID]
			if !ok {
				continue
			}
			answers = append(answers, FeedbackAnswerResponse{Question: question, Answer: r.Answer})
		}
		sort.SliceStable(answers, func(i, j int) bool {
			return answers[i].Question.Priority > answers[j].Question.Priority
		})

		entries = append(entries, FeedbackResultEntry{
			Form:    form,
			Answers: answers,
			User:    PartialUser{Email: key.userID},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Form.Priority > entries[j].Form.Priority
	})
	return entries
}

func sortQuestionsByPriority(questions []*models.FeedbackFormQuestion) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Priority > questions[j].Priority
	})
}
