package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-request-manager/internal/auth"
	apperrors "github.com/spec-kit/service-request-manager/pkg/util"
)

// AuthService coordinates the login flow: credential verification through the
// configured verifier, then token issuance.
type AuthService struct {
	verifier auth.CredentialVerifier
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(verifier auth.CredentialVerifier, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{verifier: verifier, tokens: tokens, logger: logger}
}

// Login verifies the credential pair and issues a signed token. Failures are
// uniform regardless of whether the username exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	s.logger.Info("login attempt", zap.String("username", username))

	if !s.verifier.Verify(ctx, username, password) {
		s.logger.Warn("login failed", zap.String("username", username))
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(username)
	if err != nil {
		s.logger.Error("token issuance failed", zap.Error(err))
		return "", time.Time{}, apperrors.NewInternalError(err)
	}

	s.logger.Info("login successful", zap.String("username", username))
	return token, expiresAt, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
