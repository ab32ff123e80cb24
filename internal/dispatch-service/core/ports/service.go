package ports

import (
	"context"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
)

type ITripsService interface {
	CreateTrip(ctx context.Context, req dto.TripRequestDto) (dto.TripResponseDto, error)
	RespondToAssignment(ctx context.Context, driverID string, accept bool) (dto.AssignmentResponseDto, error)
	MarkPickup(ctx context.Context, driverID string) (dto.PickupResponseDto, error)
	MarkCompleted(ctx context.Context, driverID string) (dto.CompletionResponseDto, error)
	SubmitRating(ctx context.Context, passengerID, driverID string, rating int) (dto.RatingResponseDto, error)
}

type IMatchingService interface {
	// AssignDriver picks the nearest eligible driver and claims it for the
	// trip, or fails with ErrNoDriverAvailable.
	AssignDriver(ctx context.Context, trip model.Trip) (string, error)
}

type ILocationService interface {
	SetAvailability(ctx context.Context, driverID string, available bool, coord *model.Coordinate) (dto.AvailabilityResponseDto, error)
	GetStatus(ctx context.Context, driverID string) (model.DriverStatus, bool, error)
}

type IUsersService interface {
	Register(ctx context.Context, req dto.RegisterUserDto) (dto.UserDto, error)
	Get(ctx context.Context, id string) (dto.UserDto, error)
}

type IAdminService interface {
	VerifySecret(secret string) bool
	AdjustBalance(ctx context.Context, adminID, username string, delta float64) (dto.AdminBalanceResponseDto, error)
	ShowUser(ctx context.Context, adminID, username string) (dto.AdminUserViewDto, error)
}
