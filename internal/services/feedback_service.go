package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/feedback-service/internal/auth"
	"github.com/SAP-F-2025/feedback-service/internal/cache"
	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-service/internal/utils"
	"github.com/SAP-F-2025/feedback-service/internal/validator"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeedbackService serves feedback forms, records answers and reports results.
// The caller is read from the context; see auth.WithUser.
type FeedbackService interface {
	// UnansweredForm returns the highest priority form the caller has not answered, or nil
	UnansweredForm(ctx context.Context) (*FeedbackFormResponse, error)

	// AnswerFeedbackForm stores one answer per question of the form. It returns false
	// without writing anything when the submission does not match a form the caller
	// can still answer.
	AnswerFeedbackForm(ctx context.Context, input *FeedbackAnswerInput) (bool, error)

	// FeedbackResults returns every user's answers grouped by user and form. Admin only.
	FeedbackResults(ctx context.Context) ([]FeedbackResultEntry, error)
}

// MetricsRecorder receives service level counters
type MetricsRecorder interface {
	FeedbackSubmitted(accepted bool)
	ResultsServed(fromCache bool)
}

type noopMetrics struct{}

func (noopMetrics) FeedbackSubmitted(bool) {}
func (noopMetrics) ResultsServed(bool)     {}

type feedbackService struct {
	repo       repositories.Repository
	cache      cache.CacheService
	events     FeedbackEventService
	metrics    MetricsRecorder
	logger     *ServiceLogger
	log        *slog.Logger
	validator  *validator.Validator
	resultsTTL time.Duration
}

func NewFeedbackService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	eventService FeedbackEventService,
	metrics MetricsRecorder,
	logger *slog.Logger,
	validator *validator.Validator,
	resultsTTL time.Duration,
) FeedbackService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &feedbackService{
		repo:       repo,
		cache:      cacheService,
		events:     eventService,
		metrics:    metrics,
		logger:     NewServiceLogger(logger, LogConfig{Service: "feedback-service", Component: "feedback"}),
		log:        logger.With("component", "feedback"),
		validator:  validator,
		resultsTTL: resultsTTL,
	}
}

// ===== FORM RESOLVER =====

func (s *feedbackService) UnansweredForm(ctx context.Context) (resp *FeedbackFormResponse, err error) {
	op := s.logger.WithOperation(ctx, "unanswered_form", "")
	defer func() {
		var formID uint
		if resp != nil {
			formID = resp.ID
		}
		op.LogResult(formID, "feedback_form", err)
	}()

	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	op.SetUser(user.Email)

	answered, err := s.repo.FeedbackResult().GetAnsweredFormIDs(ctx, nil, user.Email)
	if err != nil {
		return nil, err
	}

	form, err := s.repo.FeedbackForm().GetTopExcluding(ctx, nil, answered)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get unanswered form: %w", err)
	}

	questions, err := s.repo.FeedbackQuestion().GetByForm(ctx, nil, form.ID)
	if err != nil {
		return nil, err
	}

	out := formResponse(form, questions)
	return &out, nil
}

// ===== ANSWER SUBMISSION =====

func (s *feedbackService) AnswerFeedbackForm(ctx context.Context, input *FeedbackAnswerInput) (accepted bool, err error) {
	op := s.logger.WithOperation(ctx, "answer_feedback_form", "")
	defer func() {
		var formID uint
		if input != nil {
			formID = input.Form
		}
		op.LogResult(formID, "feedback_form", err)
		if err == nil {
			s.metrics.FeedbackSubmitted(accepted)
		}
	}()

	user, err := auth.RequireUser(ctx)
	if err != nil {
		return false, err
	}
	op.SetUser(user.Email)

	if input == nil {
		return false, ValidationErrors{*NewValidationError("answer", "is required", nil)}
	}
	if err := s.validator.Validate(input); err != nil {
		return false, err
	}

	var (
		form          *models.FeedbackForm
		referenced    []*models.FeedbackFormQuestion
		formQuestions []*models.FeedbackFormQuestion
		alreadyDone   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.repo.FeedbackForm().GetByID(gctx, nil, input.Form)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil
			}
			return fmt.Errorf("failed to get feedback form %d: %w", input.Form, err)
		}
		form = f
		return nil
	})
	g.Go(func() error {
		var err error
		referenced, err = s.repo.FeedbackQuestion().GetByIDs(gctx, nil, submittedQuestionIDs(input))
		return err
	})
	g.Go(func() error {
		var err error
		formQuestions, err = s.repo.FeedbackQuestion().GetByForm(gctx, nil, input.Form)
		return err
	})
	g.Go(func() error {
		var err error
		alreadyDone, err = s.repo.FeedbackResult().HasAnswered(gctx, nil, input.Form, user.Email)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	if form == nil || !belongsToForm(referenced, form.ID) {
		s.log.InfoContext(ctx, "Rejected submission for unknown form or questions",
			"form_id", input.Form, "user_id", user.Email)
		return false, nil
	}
	if alreadyDone {
		s.log.InfoContext(ctx, "Rejected repeated submission",
			"form_id", form.ID, "user_id", user.Email)
		return false, nil
	}

	results := s.buildResults(form, formQuestions, input, user.Email)

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.FeedbackResult().CreateBatch(ctx, tx, results); err != nil {
			return err
		}
		return s.repo.Audit().Create(ctx, tx, newAuditLog(ctx, s.logger, user, models.AuditFeedbackSubmitted,
			"feedback_form", &form.ID,
			fmt.Sprintf("Submitted feedback form %q", form.Name),
			map[string]interface{}{"question_count": len(results)}))
	})
	if err != nil {
		// A concurrent submission by the same user won the unique index
		if repositories.IsDuplicateError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to store feedback answers: %w", err)
	}

	s.afterSubmit(ctx, form, user.Email, results)
	return true, nil
}

// buildResults produces one row per question of the form. Submitted answers
// override the NoAnswer default; answers to other forms' questions are ignored.
func (s *feedbackService) buildResults(form *models.FeedbackForm, questions []*models.FeedbackFormQuestion, input *FeedbackAnswerInput, userEmail string) []*models.FeedbackResult {
	submitted := make(map[uint]*string, len(input.Questions))
	for i := range input.Questions {
		answer := input.Questions[i]
		if _, seen := submitted[answer.Question]; !seen {
			submitted[answer.Question] = &input.Questions[i].Answer
		}
	}

	results := make([]*models.FeedbackResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, &models.FeedbackResult{
			FormID:     form.ID,
			QuestionID: q.ID,
			UserID:     userEmail,
			Answer:     s.validator.Answer().Normalize(q, submitted[q.ID]),
		})
	}
	return results
}

// afterSubmit runs the side effects of a committed submission. Failures are logged only.
func (s *feedbackService) afterSubmit(ctx context.Context, form *models.FeedbackForm, userEmail string, results []*models.FeedbackResult) {
	// Reports loaded before this commit can only be stored under the previous generation
	if _, err := s.cache.Increment(ctx, cache.KeyFeedbackResultsGeneration); err != nil {
		s.log.WarnContext(ctx, "Failed to advance results cache generation", "error", err)
	}
	if err := s.cache.DeletePattern(ctx, cache.PatternFeedbackResults); err != nil {
		s.log.WarnContext(ctx, "Failed to invalidate results cache", "error", err)
	}
	if s.events != nil {
		if err := s.events.NotifyFeedbackSubmitted(ctx, form, userEmail, results); err != nil {
			s.log.WarnContext(ctx, "Failed to publish feedback submitted event",
				"form_id", form.ID, "error", err)
		}
	}
}

// ===== RESULTS AGGREGATION =====

func (s *feedbackService) FeedbackResults(ctx context.Context) (entries []FeedbackResultEntry, err error) {
	op := s.logger.WithOperation(ctx, "feedback_results", "")
	defer func() {
		op.LogResult(0, "feedback_results", err)
	}()

	user, err := requireAdmin(ctx, "read")
	if err != nil {
		return nil, err
	}
	op.SetUser(user.Email)

	generation, cacheable := s.resultsGeneration(ctx)
	key := cache.FeedbackResultsKey(generation)
	if cacheable {
		if err := s.cache.Get(ctx, key, &entries); err == nil {
			s.metrics.ResultsServed(true)
			return entries, nil
		}
	}

	entries, err = s.loadResults(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.ResultsServed(false)

	if cacheable {
		if err := s.cache.Set(ctx, key, entries, s.resultsTTL); err != nil {
			s.log.WarnContext(ctx, "Failed to cache feedback results", "error", err)
		}
	}
	return entries, nil
}

// resultsGeneration must be read before the tables. cacheable is false when the
// generation cannot be read, since a snapshot could then outlive a submission.
func (s *feedbackService) resultsGeneration(ctx context.Context) (generation int64, cacheable bool) {
	err := s.cache.Get(ctx, cache.KeyFeedbackResultsGeneration, &generation)
	switch {
	case err == nil:
		return generation, true
	case errors.Is(err, cache.ErrCacheMiss):
		return 0, true
	default:
		s.log.WarnContext(ctx, "Results cache generation unavailable, bypassing cache", "error", err)
		return 0, false
	}
}

func (s *feedbackService) loadResults(ctx context.Context) ([]FeedbackResultEntry, error) {
	var (
		results   []*models.FeedbackResult
		forms     []*models.FeedbackForm
		questions []*models.FeedbackFormQuestion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.repo.FeedbackResult().List(gctx, nil, repositories.FeedbackResultFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		forms, err = s.repo.FeedbackForm().List(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.repo.FeedbackQuestion().List(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return aggregateResults(results, forms, questions), nil
}

// ===== HELPERS =====

func requireAdmin(ctx context.Context, action string) (*models.User, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, NewPermissionError(user.Email, "feedback_results", action, "admin role required")
	}
	return user, nil
}

func newAuditLog(ctx context.Context, logger *ServiceLogger, user *models.User, eventType models.AuditEventType, targetType string, targetID *uint, description string, metadata map[string]interface{}) *models.AuditLog {
	entry := &models.AuditLog{
		EventType:   eventType,
		UserEmail:   user.Email,
		UserRole:    user.Role,
		TargetType:  targetType,
		TargetID:    targetID,
		Description: description,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		entry.RequestID = &requestID
	}
	logger.LogAuditEvent(ctx, entry)
	return entry
}

func submittedQuestionIDs(input *FeedbackAnswerInput) []uint {
	seen := make(map[uint]struct{}, len(input.Questions))
	ids := make([]uint, 0, len(input.Questions))
	for _, q := range input.Questions {
		if _, ok := seen[q.Question]; ok {
			continue
		}
		seen[q.Question] = struct{}{}
		ids = append(ids, q.Question)
	}
	return ids
}

func belongsToForm(questions []*models.FeedbackFormQuestion, formID uint) bool {
	for _, q := range questions {
		if q.FormID == formID {
			return true
		}
	}
	return false
}
