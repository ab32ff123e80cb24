package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"taxi-dispatch/internal/dispatch-service/adapters/driven/memory"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/mylogger"
)

func newAdminFixture(t *testing.T, secret string) (*memory.UserRepo, *AdminService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	users := memory.NewUserRepo()
	svc := NewAdminService(mylogger.NewDiscard(), users, nil, string(hash)).(*AdminService)
	return users, svc
}

func TestVerifySecret(t *testing.T) {
	_, svc := newAdminFixture(t, "letmein")

	if !svc.VerifySecret("letmein") {
		t.Fatal("expected correct secret to verify")
	}
	if svc.VerifySecret("wrong") {
		t.Fatal("expected wrong secret to fail")
	}
	if svc.VerifySecret("") {
		t.Fatal("expected empty secret to fail")
	}
}

func TestAdjustBalanceRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	users, svc := newAdminFixture(t, "letmein")

	if err := users.Create(ctx, model.User{ID: "u1", Username: "alice", Role: model.RolePassenger}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.AdjustBalance(ctx, "u1", "alice", 5); !errors.Is(err, myerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := svc.AdjustBalance(ctx, "ghost", "alice", 5); !errors.Is(err, myerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdjustBalanceByUsername(t *testing.T) {
	ctx := context.Background()
	users, svc := newAdminFixture(t, "letmein")

	if err := users.Create(ctx, model.User{ID: "a1", Username: "boss", Role: model.RoleAdmin, Admin: true}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := users.Create(ctx, model.User{ID: "d1", Username: "Bob", Role: model.RoleDriver, Gender: model.GenderMale, Balance: 10}); err != nil {
		t.Fatalf("create driver: %v", err)
	}

	// Telegram-style handle with @ and different case still resolves.
	res, err := svc.AdjustBalance(ctx, "a1", "@BOB", 7.5)
	if err != nil {
		t.Fatalf("adjust balance: %v", err)
	}
	if res.NewBalance != 17.5 {
		t.Fatalf("expected 17.5, got %v", res.NewBalance)
	}

	res, err = svc.AdjustBalance(ctx, "a1", "bob", -20)
	if err != nil {
		t.Fatalf("adjust balance down: %v", err)
	}
	if res.NewBalance != -2.5 {
		t.Fatalf("expected -2.5, got %v", res.NewBalance)
	}
}

func TestShowUser(t *testing.T) {
	ctx := context.Background()
	users, svc := newAdminFixture(t, "letmein")

	if err := users.Create(ctx, model.User{ID: "a1", Username: "boss", Role: model.RoleAdmin, Admin: true}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := users.Create(ctx, model.User{
		ID: "d1", Username: "bob", Role: model.RoleDriver, Gender: model.GenderMale,
		Balance: 8, Ratings: []int{5, 4, 4},
	}); err != nil {
		t.Fatalf("create driver: %v", err)
	}

	view, err := svc.ShowUser(ctx, "a1", "bob")
	if err != nil {
		t.Fatalf("show user: %v", err)
	}
	if view.RatingDisplay != "4.3" {
		t.Fatalf("expected rating display 4.3, got %s", view.RatingDisplay)
	}
	if view.Balance != 8 || view.Role != model.RoleDriver {
		t.Fatalf("unexpected view: %+v", view)
	}

	if _, err := svc.ShowUser(ctx, "a1", "nobody"); !errors.Is(err, myerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct{ in, want string }{
		{"@Alice", "alice"},
		{"  bob  ", "bob"},
		{"@X", "x"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := NormalizeUsername(tc.in); got != tc.want {
			t.Fatalf("NormalizeUsername(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
