package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/security"
)

type authService struct {
	tokens            security.TokenManager
	adminAccount      string
	adminPasswordHash string
	tokenTTL          time.Duration
}

func NewAuthService(tokens security.TokenManager, adminAccount, adminPasswordHash string, tokenTTL time.Duration) AuthService {
	return &authService{
		tokens:            tokens,
		adminAccount:      adminAccount,
		adminPasswordHash: adminPasswordHash,
		tokenTTL:          tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, userID, password string) (string, error) {
	if userID != s.adminAccount {
		return "", domain.ErrAccessDenied
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return "", domain.ErrAccessDenied
	}
	return s.tokens.GenerateToken(userID, []string{security.RoleAdmin, security.RoleUser}, s.tokenTTL)
}

func (s *authService) IssueUserToken(ctx context.Context, caller, userID string) (string, error) {
	if caller != s.adminAccount {
		return "", domain.ErrAdminOnly
	}
	if userID == "" {
		return "", domain.ErrInvalidValue
	}
	return s.tokens.GenerateToken(userID, []string{security.RoleUser}, s.tokenTTL)
}
