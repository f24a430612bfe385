package graphql

import (
	"context"
	"errors"
	"log/slog"
	"math"

	apperrors "github.com/SAP-F-2025/feedback-service/internal/errors"
	"github.com/SAP-F-2025/feedback-service/internal/services"
	"github.com/SAP-F-2025/feedback-service/internal/utils"
)

// Resolver is the root resolver for Query and Mutation
type Resolver struct {
	feedback services.FeedbackService
	logger   *slog.Logger
}

// ===== QUERY =====

func (r *Resolver) UnansweredForm(ctx context.Context) (*formResolver, error) {
	form, err := r.feedback.UnansweredForm(ctx)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	if form == nil {
		return nil, nil
	}
	return &formResolver{form: *form}, nil
}

func (r *Resolver) FeedbackResults(ctx context.Context) ([]*resultResolver, error) {
	entries, err := r.feedback.FeedbackResults(ctx)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}

	out := make([]*resultResolver, len(entries))
	for i := range entries {
		out[i] = &resultResolver{entry: entries[i]}
	}
	return out, nil
}

// ===== MUTATION =====

type questionAnswerInput struct {
	Question int32
	Answer   string
}

type answerInput struct {
	Form      int32
	Questions []questionAnswerInput
}

func (r *Resolver) AnswerFeedbackForm(ctx context.Context, args struct{ Answer answerInput }) (bool, error) {
	input := &services.FeedbackAnswerInput{
		Form:      toID(args.Answer.Form),
		Questions: make([]services.FeedbackQuestionAnswerInput, len(args.Answer.Questions)),
	}
	for i, q := range args.Answer.Questions {
		input.Questions[i] = services.FeedbackQuestionAnswerInput{
			Question: toID(q.Question),
			Answer:   q.Answer,
		}
	}

	ok, err := r.feedback.AnswerFeedbackForm(ctx, input)
	if err != nil {
		return false, r.clientError(ctx, err)
	}
	return ok, nil
}

// ===== OBJECT RESOLVERS =====

type formResolver struct {
	form services.FeedbackFormResponse
}

func (f *formResolver) ID() int32       { return toInt32(int(f.form.ID)) }
func (f *formResolver) Name() string    { return f.form.Name }
func (f *formResolver) Priority() int32 { return toInt32(f.form.Priority) }

func (f *formResolver) Questions() []*questionResolver {
	out := make([]*questionResolver, len(f.form.Questions))
	for i := range f.form.Questions {
		out[i] = &questionResolver{question: f.form.Questions[i]}
	}
	return out
}

type questionResolver struct {
	question services.FeedbackQuestionResponse
}

func (q *questionResolver) ID() int32        { return toInt32(int(q.question.ID)) }
func (q *questionResolver) Question() string { return q.question.Question }
func (q *questionResolver) Type() string     { return string(q.question.Type) }
func (q *questionResolver) Priority() int32  { return toInt32(q.question.Priority) }

func (q *questionResolver) Options() []*optionResolver {
	out := make([]*optionResolver, len(q.question.Options))
	for i, o := range q.question.Options {
		out[i] = &optionResolver{option: o}
	}
	return out
}

type optionResolver struct {
	option services.FeedbackQuestionOption
}

func (o *optionResolver) Value() int32 { return toInt32(o.option.Value) }
func (o *optionResolver) Text() string { return o.option.Text }

type resultResolver struct {
	entry services.FeedbackResultEntry
}

func (r *resultResolver) Form() *formResolver {
	return &formResolver{form: r.entry.Form}
}

func (r *resultResolver) Answers() []*answerResolver {
	out := make([]*answerResolver, len(r.entry.Answers))
	for i, a := range r.entry.Answers {
		out[i] = &answerResolver{answer: a}
	}
	return out
}

func (r *resultResolver) User() *userResolver {
	return &userResolver{user: r.entry.User}
}

type answerResolver struct {
	answer services.FeedbackAnswerResponse
}

func (a *answerResolver) Question() *questionResolver {
	return &questionResolver{question: a.answer.Question}
}

func (a *answerResolver) Answer() string { return a.answer.Answer }

type userResolver struct {
	user services.PartialUser
}

func (u *userResolver) Email() string { return u.user.Email }

// ===== ERRORS =====

// internalError hides storage failures from clients
type internalError struct {
	requestID string
}

func (e *internalError) Error() string {
	return services.ErrInternalError.Error()
}

func (e *internalError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": "INTERNAL_SERVER_ERROR"}
	if e.requestID != "" {
		ext["request_id"] = e.requestID
	}
	return ext
}

// clientError passes guard and validation errors through with their codes and masks the rest
func (r *Resolver) clientError(ctx context.Context, err error) error {
	var validationErrs apperrors.ValidationErrors
	var permErr *services.PermissionError
	switch {
	case errors.As(err, &validationErrs):
		return validationErrs
	case errors.As(err, &permErr):
		return permErr
	case errors.Is(err, services.ErrUnauthorized):
		return services.ErrUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return services.ErrForbidden
	}

	requestID := utils.RequestIDFromContext(ctx)
	r.logger.ErrorContext(ctx, "GraphQL resolver failed", "error", err, "request_id", requestID)
	return &internalError{requestID: requestID}
}

// ===== CONVERSIONS =====

func toID(v int32) uint {
	if v < 0 {
		return 0
	}
	return uint(v)
}

func toInt32(v int) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int32(v)
}
