package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/feedback-service/internal/auth"
	"github.com/SAP-F-2025/feedback-service/internal/services"
	"github.com/SAP-F-2025/feedback-service/internal/utils"
	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

// MetricsExporter is the part of the metrics registry the router mounts
type MetricsExporter interface {
	OperationRecorder
	Middleware() gin.HandlerFunc
	Handler() http.Handler
}

type HandlerManager struct {
	feedbackHandler *FeedbackHandler
	graphqlHandler  *GraphQLHandler
	authenticator   auth.Authenticator
	metrics         MetricsExporter
	logger          utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	schema *graphqlgo.Schema,
	authenticator auth.Authenticator,
	metrics MetricsExporter,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		feedbackHandler: NewFeedbackHandler(serviceManager.Feedback(), serviceManager.Export(), logger),
		graphqlHandler:  NewGraphQLHandler(schema, metrics, logger),
		authenticator:   authenticator,
		metrics:         metrics,
		logger:          logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(RequestIDMiddleware())
	if hm.metrics != nil {
		router.Use(hm.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(hm.metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "feedback-service",
		})
	})

	authenticated := router.Group("", AuthMiddleware(hm.authenticator, hm.logger))
	authenticated.POST("/graphql", hm.graphqlHandler.Serve)

	v1 := authenticated.Group("/api/v1")
	{
		feedback := v1.Group("/feedback")
		{
			feedback.GET("/unanswered", hm.feedbackHandler.GetUnansweredForm)
			feedback.POST("/answers", hm.feedbackHandler.AnswerFeedbackForm)

			// Admin reports; the services enforce the role
			feedback.GET("/results", hm.feedbackHandler.GetFeedbackResults)
			feedback.GET("/results/export", hm.feedbackHandler.ExportFeedbackResults)
		}
	}
}
