package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/feedback-service/internal/config"
	"github.com/SAP-F-2025/feedback-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

// identity is the subset of token claims the service relies on
type identity struct {
	Email       string
	Name        string
	DisplayName string
	IsAdmin     bool
}

type claimsParser func(token string) (*identity, error)

// CasdoorAuthenticator verifies JWTs issued by Casdoor
type CasdoorAuthenticator struct {
	parse  claimsParser
	logger *slog.Logger
}

func NewCasdoorAuthenticator(cfg config.CasdoorConfig, logger *slog.Logger) *CasdoorAuthenticator {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)

	return &CasdoorAuthenticator{
		parse: func(token string) (*identity, error) {
			claims, err := client.ParseJwtToken(token)
			if err != nil {
				return nil, err
			}
			return &identity{
				Email:       claims.Email,
				Name:        claims.Name,
				DisplayName: claims.DisplayName,
				IsAdmin:     claims.IsAdmin,
			}, nil
		},
		logger: logger,
	}
}

func (a *CasdoorAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := a.parse(token)
	if err != nil {
		a.logger.WarnContext(ctx, "Rejected access token", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrInvalidToken)
	}

	user := &models.User{
		Email: email,
		Name:  id.DisplayName,
		Role:  models.RoleUser,
	}
	if user.Name == "" {
		user.Name = id.Name
	}
	if id.IsAdmin {
		user.Role = models.RoleAdmin
	}
	return user, nil
}

// StaticAuthenticator maps fixed tokens to users. Used for local development and tests.
type StaticAuthenticator map[string]*models.User

func (s StaticAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	user, ok := s[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return user, nil
}
