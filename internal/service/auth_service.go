package service

import (
	"context"
	"fmt"
	"time"

	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
)

// AuthServiceImpl implements ports.AuthService: a single configured
// operator credential gates the internal reconciliation/admin surface.
// There is no merchant-facing registration or login — merchants
// authenticate with an API key (see middleware.APIKeyAuth).
type AuthServiceImpl struct {
	operatorID           string
	operatorPasswordHash string
	hashSvc              ports.HashService
	tokenSvc             ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(operatorID, operatorPasswordHash string, hashSvc ports.HashService, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		operatorID:           operatorID,
		operatorPasswordHash: operatorPasswordHash,
		hashSvc:              hashSvc,
		tokenSvc:             tokenSvc,
	}
}

// Login validates the operator credential and returns a JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, operatorID, password string) (string, time.Time, error) {
	if s.operatorID == "" || s.operatorPasswordHash == "" {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("operator login is not configured"))
	}
	if operatorID != s.operatorID {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, s.operatorPasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify operator password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(operatorID)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
