package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"codejourney-backend/internal/middleware"
	"codejourney-backend/internal/models"
)

// AuthService exchanges the owner's password for an access token. The password is
// only ever held as a bcrypt hash from configuration.
type AuthService struct {
	jwt          *middleware.JWTAuth
	passwordHash []byte
}

func NewAuthService(jwt *middleware.JWTAuth, passwordHash string) *AuthService {
	return &AuthService{jwt: jwt, passwordHash: []byte(passwordHash)}
}

func (s *AuthService) IssueToken(req models.TokenRequest) (*models.AuthToken, error) {
	if !s.jwt.Enabled() {
		return nil, &NotFoundError{Message: "Authentication is not enabled on this server"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Fields: map[string]string{"password": "Password is required"}}
	}
	if len(s.passwordHash) == 0 {
		return nil, &UnauthorizedError{Message: "No admin password is configured"}
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid password"}
	}

	accessToken, err := s.jwt.GenerateAccessToken(middleware.AdminSubject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthToken{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwt.TTL.Seconds()),
	}, nil
}

// HashPassword produces the value to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
