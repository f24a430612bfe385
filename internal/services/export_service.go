package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/SAP-F-2025/feedback-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Feedback Results"

// ExportService renders the results report as a spreadsheet. Admin only.
type ExportService interface {
	ExportFeedbackResults(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo     repositories.Repository
	feedback FeedbackService
	events   FeedbackEventService
	logger   *ServiceLogger
	log      *slog.Logger
}

func NewExportService(repo repositories.Repository, feedback FeedbackService, events FeedbackEventService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:     repo,
		feedback: feedback,
		events:   events,
		logger:   NewServiceLogger(logger, LogConfig{Service: "feedback-service", Component: "export"}),
		log:      logger.With("component", "export"),
	}
}

func (s *exportService) ExportFeedbackResults(ctx context.Context) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_feedback_results", "")
	defer func() {
		op.LogResult(0, "feedback_results", err)
	}()

	user, err := requireAdmin(ctx, "export")
	if err != nil {
		return nil, err
	}
	op.SetUser(user.Email)

	entries, err := s.feedback.FeedbackResults(ctx)
	if err != nil {
		return nil, err
	}

	data, rows, err := renderResultsWorkbook(entries)
	if err != nil {
		return nil, err
	}

	audit := newAuditLog(ctx, s.logger, user, models.AuditDataExported,
		"feedback_results", nil,
		"Exported feedback results",
		map[string]interface{}{"entries": len(entries), "rows": rows})
	if err := s.repo.Audit().Create(ctx, nil, audit); err != nil {
		s.log.WarnContext(ctx, "Failed to write export audit log", "error", err)
	}

	if s.events != nil {
		if err := s.events.NotifyResultsExported(ctx, user.Email, len(entries)); err != nil {
			s.log.WarnContext(ctx, "Failed to publish results exported event", "error", err)
		}
	}

	return data, nil
}

// renderResultsWorkbook writes one row per answer and returns the workbook and row count
func renderResultsWorkbook(entries []FeedbackResultEntry) ([]byte, int, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to create sheet: %v", ErrExportFailed, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	headers := []interface{}{
		"User", "Form", "Form Priority", "Question", "Question Type", "Question Priority", "Answer", "Answer Text",
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	row := 2
	for _, entry := range entries {
		for _, answer := range entry.Answers {
			q := answer.Question
			values := []interface{}{
				entry.User.Email,
				entry.Form.Name,
				entry.Form.Priority,
				q.Question,
				string(q.Type),
				q.Priority,
				answer.Answer,
				q.OptionText(answer.Answer),
			}

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: %v", ErrExportFailed, err)
			}
			if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
				return nil, 0, fmt.Errorf("%w: %v", ErrExportFailed, err)
			}
			row++
		}
	}

	if err := f.SetColWidth(exportSheetName, "A", "H", 24); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to write workbook: %v", ErrExportFailed, err)
	}
	return buf.Bytes(), row - 2, nil
}
