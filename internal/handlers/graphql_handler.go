package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/feedback-service/internal/utils"
	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

// OperationRecorder counts executed GraphQL operations
type OperationRecorder interface {
	GraphQLOperation(operation string, failed bool)
}

type graphqlRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	BaseHandler
	schema  *graphqlgo.Schema
	metrics OperationRecorder
}

func NewGraphQLHandler(schema *graphqlgo.Schema, metrics OperationRecorder, logger utils.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		BaseHandler: NewBaseHandler(logger),
		schema:      schema,
		metrics:     metrics,
	}
}

// Serve executes a GraphQL request. Field errors travel in the response body
// with status 200; only unparseable requests are rejected at the HTTP level.
func (h *GraphQLHandler) Serve(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid GraphQL request", err, err.Error())
		return
	}

	resp := h.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)

	if h.metrics != nil {
		operation := req.OperationName
		if operation == "" {
			operation = "anonymous"
		}
		h.metrics.GraphQLOperation(operation, len(resp.Errors) > 0)
	}

	c.JSON(http.StatusOK, resp)
}
