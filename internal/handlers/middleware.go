package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/feedback-service/internal/auth"
	"github.com/SAP-F-2025/feedback-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = utils.NewRequestID()
		}

		c.Request = c.Request.WithContext(utils.WithRequestID(c.Request.Context(), requestID))
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// AuthMiddleware verifies bearer tokens. Requests without a token continue
// anonymously so each operation can decide whether it needs a caller.
func AuthMiddleware(authenticator auth.Authenticator, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}

		if token == "" {
			abortUnauthorized(c, "Malformed authorization header")
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.WarnContext(c.Request.Context(), "Authentication failed",
				"request_id", utils.RequestIDFromContext(c.Request.Context()),
				"path", c.Request.URL.Path,
				"error", err)
			abortUnauthorized(c, "Invalid access token")
			return
		}

		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Message: message,
		Code:    auth.ErrUnauthorized.Code,
	})
}
