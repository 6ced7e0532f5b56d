package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignJWT(Claims{
		Email: "ada@example.com",
		Name:  "Ada Lovelace",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "google:123",
		},
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Subject != "google:123" {
		t.Fatalf("expected subject google:123, got %q", claims.Subject)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("expected email, got %q", claims.Email)
	}
}

func TestSignRequiresSubject(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := SignJWT(Claims{Email: "ada@example.com"}); err == nil {
		t.Fatalf("expected error for missing subject")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := VerifyJWT("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := SignJWT(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "google:123"}})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	t.Setenv("JWT_SECRET", "different-secret")
	if _, err := VerifyJWT(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
