package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/feedback-service/internal/services"
	"github.com/SAP-F-2025/feedback-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type FeedbackHandler struct {
	BaseHandler
	feedbackService services.FeedbackService
	exportService   services.ExportService
	now             func() time.Time
}

func NewFeedbackHandler(
	feedbackService services.FeedbackService,
	exportService services.ExportService,
	logger utils.Logger,
) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     NewBaseHandler(logger),
		feedbackService: feedbackService,
		exportService:   exportService,
		now:             time.Now,
	}
}

// GetUnansweredForm returns the caller's next unanswered form
// @Summary Next unanswered feedback form
// @Tags feedback
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.FeedbackFormResponse}
// @Failure 401 {object} ErrorResponse
// @Router /feedback/unanswered [get]
func (h *FeedbackHandler) GetUnansweredForm(c *gin.Context) {
	form, err := h.feedbackService.UnansweredForm(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if form == nil {
		h.RespondWithSuccess(c, http.StatusOK, "No unanswered feedback form", nil)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Unanswered feedback form", form)
}

// AnswerFeedbackForm records the caller's answers to a form
// @Summary Answer feedback form
// @Tags feedback
// @Accept json
// @Produce json
// @Param answer body services.FeedbackAnswerInput true "Answers"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /feedback/answers [post]
func (h *FeedbackHandler) AnswerFeedbackForm(c *gin.Context) {
	var req services.FeedbackAnswerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Answering feedback form", "form_id", req.Form, "answers", len(req.Questions))

	accepted, err := h.feedbackService.AnswerFeedbackForm(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Feedback processed", gin.H{"accepted": accepted})
}

// GetFeedbackResults returns the aggregated report (admin only)
// @Summary Feedback results
// @Tags feedback
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]services.FeedbackResultEntry}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /feedback/results [get]
func (h *FeedbackHandler) GetFeedbackResults(c *gin.Context) {
	entries, err := h.feedbackService.FeedbackResults(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Feedback results", entries)
}

// ExportFeedbackResults downloads the report as an xlsx workbook (admin only)
// @Summary Export feedback results
// @Tags feedback
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /feedback/results/export [get]
func (h *FeedbackHandler) ExportFeedbackResults(c *gin.Context) {
	data, err := h.exportService.ExportFeedbackResults(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := exportFilename(h.now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
