package users

import (
	"context"
	"errors"
	"testing"
)

func TestEnsureFromAuthIsIdempotent(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	user := User{ID: "google:123", Email: "ada@example.com", FullName: "Ada Lovelace"}
	if err := svc.EnsureFromAuth(ctx, user); err != nil {
		t.Fatalf("EnsureFromAuth: %v", err)
	}

	stored, err := svc.GetByID(ctx, "google:123")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	created := stored.CreatedAt

	// A later sign-in updates the profile but keeps the original row.
	user.FullName = "Countess of Lovelace"
	if err := svc.EnsureFromAuth(ctx, user); err != nil {
		t.Fatalf("second EnsureFromAuth: %v", err)
	}
	stored, err = svc.GetByID(ctx, "google:123")
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if stored.FullName != "Countess of Lovelace" {
		t.Fatalf("expected updated name, got %q", stored.FullName)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt changed across upserts")
	}
}

func TestEnsureFromAuthRequiresID(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.EnsureFromAuth(context.Background(), User{Email: "x@example.com"}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
