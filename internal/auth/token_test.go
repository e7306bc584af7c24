package auth

import (
	"errors"
	"testing"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.IssueToken(&models.User{ID: 42})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}

	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID() error = %v", err)
	}
	if id != 42 {
		t.Errorf("UserID() = %d, want 42", id)
	}
}

func TestTokenService_RejectsInvalidTokens(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	other, err := NewTokenService("different-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	expired, err := NewTokenService("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	foreignToken, _ := other.IssueToken(&models.User{ID: 1})
	expiredToken, _ := expired.IssueToken(&models.User{ID: 1})

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: foreignToken},
		{name: "expired", token: expiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tt.token)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("VerifyToken() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Minute); err == nil {
		t.Error("NewTokenService() accepted an empty secret")
	}
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in the clear")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("CheckPassword() rejected the original password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
