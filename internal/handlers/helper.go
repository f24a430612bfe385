package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
// ok is false when the header is absent; a malformed header yields ok with an empty token.
func bearerToken(c *gin.Context) (token string, ok bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// exportFilename names an export download, e.g. feedback-results-20240301-100000.xlsx
func exportFilename(stamp string) string {
	return "feedback-results-" + stamp + ".xlsx"
}
