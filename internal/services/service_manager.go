package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/feedback-service/internal/cache"
	"github.com/SAP-F-2025/feedback-service/internal/events"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-service/internal/validator"
)

// ServiceManager exposes every service to the transport layer
type ServiceManager interface {
	Feedback() FeedbackService
	Export() ExportService
}

type Dependencies struct {
	Repo       repositories.Repository
	Cache      cache.CacheService
	Publisher  events.EventPublisher
	Metrics    MetricsRecorder
	Logger     *slog.Logger
	Validator  *validator.Validator
	ResultsTTL time.Duration
}

type serviceManager struct {
	feedback FeedbackService
	export   ExportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewDiscardEventPublisher("feedback", deps.Logger)
	}

	eventService := NewFeedbackEventService(deps.Publisher, deps.Logger)
	feedback := NewFeedbackService(deps.Repo, deps.Cache, eventService, deps.Metrics, deps.Logger, deps.Validator, deps.ResultsTTL)

	return &serviceManager{
		feedback: feedback,
		export:   NewExportService(deps.Repo, feedback, eventService, deps.Logger),
	}
}

func (m *serviceManager) Feedback() FeedbackService {
	return m.feedback
}

func (m *serviceManager) Export() ExportService {
	return m.export
}
