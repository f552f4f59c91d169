package services

import (
	"github.com/esteban/tecplanner/internal/pkg/apperrors"
	"github.com/esteban/tecplanner/internal/pkg/auth"
)

// AuthService handles owner authentication. The planner is single-user:
// a bcrypt hash from configuration guards the mutating API.
type AuthService struct {
	jwtService   *auth.JWTService
	passwordHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(jwtService *auth.JWTService, passwordHash string) *AuthService {
	return &AuthService{
		jwtService:   jwtService,
		passwordHash: passwordHash,
	}
}

// Login verifies the owner password and issues an access token
func (s *AuthService) Login(password string) (accessToken string, expiresIn int64, err error) {
	if !auth.CheckPassword(s.passwordHash, password) {
		return "", 0, apperrors.ErrInvalidCredentials
	}
	return s.jwtService.GenerateToken()
}
