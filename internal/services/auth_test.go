package services

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"codejourney-backend/internal/middleware"
	"codejourney-backend/internal/models"
)

func TestAuthService_IssueToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	jwtAuth := middleware.NewJWTAuth("signing-key", time.Hour)
	svc := NewAuthService(jwtAuth, string(hash))

	tok, err := svc.IssueToken(models.TokenRequest{Password: "s3cret"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if tok.ExpiresIn != 3600 {
		t.Errorf("expected 3600s expiry, got %d", tok.ExpiresIn)
	}
	if sub, err := jwtAuth.ParseToken(tok.AccessToken); err != nil || sub != middleware.AdminSubject {
		t.Fatalf("expected admin token, got %q, %v", sub, err)
	}

	var unauthorized *UnauthorizedError
	if _, err := svc.IssueToken(models.TokenRequest{Password: "wrong"}); !errors.As(err, &unauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}

	var vErr *ValidationError
	if _, err := svc.IssueToken(models.TokenRequest{}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
}

func TestAuthService_Disabled(t *testing.T) {
	svc := NewAuthService(middleware.NewJWTAuth("", time.Hour), "")

	var nf *NotFoundError
	if _, err := svc.IssueToken(models.TokenRequest{Password: "x"}); !errors.As(err, &nf) {
		t.Fatalf("expected not found when auth disabled, got %v", err)
	}
}
