package services

import (
	"context"
	"errors"
	"testing"

	"taxi-dispatch/internal/dispatch-service/adapters/driven/memory"
	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/mylogger"
)

func registerRequest(id, role, gender string) dto.RegisterUserDto {
	req := dto.RegisterUserDto{UserId: &id, Role: &role}
	username := "user_" + id
	req.Username = &username
	if gender != "" {
		req.Gender = &gender
	}
	return req
}

func TestRegisterInitialBalances(t *testing.T) {
	tests := []struct {
		role    string
		gender  string
		balance float64
	}{
		{model.RoleDriver, model.GenderMale, model.DriverInitialBalance},
		{model.RolePassenger, model.GenderFemale, model.PassengerInitialBalance},
		{model.RoleAdmin, "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			svc := NewUsersService(mylogger.NewDiscard(), memory.NewUserRepo())

			u, err := svc.Register(context.Background(), registerRequest("u1", tc.role, tc.gender))
			if err != nil {
				t.Fatalf("register: %v", err)
			}
			if u.Balance != tc.balance {
				t.Fatalf("expected balance %v, got %v", tc.balance, u.Balance)
			}
			if u.Role != tc.role {
				t.Fatalf("expected role %s, got %s", tc.role, u.Role)
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUsersService(mylogger.NewDiscard(), memory.NewUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("u1", "CYCLIST", model.GenderMale)); !errors.Is(err, myerrors.ErrInvalidInput) {
		t.Fatalf("unknown role: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(ctx, registerRequest("u1", model.RoleDriver, "OTHER")); !errors.Is(err, myerrors.ErrInvalidInput) {
		t.Fatalf("unknown gender: expected ErrInvalidInput, got %v", err)
	}
	// Drivers must declare a gender, admins must not.
	if _, err := svc.Register(ctx, registerRequest("u1", model.RoleDriver, "")); !errors.Is(err, myerrors.ErrInvalidInput) {
		t.Fatalf("driver without gender: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(ctx, registerRequest("u2", model.RoleAdmin, "")); err != nil {
		t.Fatalf("admin without gender: %v", err)
	}
}

func TestGetReportsRatingAverage(t *testing.T) {
	users := memory.NewUserRepo()
	svc := NewUsersService(mylogger.NewDiscard(), users)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerRequest("d1", model.RoleDriver, model.GenderMale)); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, r := range []int{5, 4} {
		if _, err := users.AppendRating(ctx, "d1", r); err != nil {
			t.Fatalf("append rating: %v", err)
		}
	}

	u, err := svc.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.RatingsCount != 2 || u.RatingAverage != 4.5 {
		t.Fatalf("expected average 4.5 over 2, got %v over %d", u.RatingAverage, u.RatingsCount)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, myerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
