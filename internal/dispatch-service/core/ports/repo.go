package ports

import (
	"context"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
)

type IUserRepo interface {
	Create(ctx context.Context, u model.User) error
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)

	// AdjustBalance applies delta atomically and returns the new balance.
	// No floor is enforced; the balance may go negative.
	AdjustBalance(ctx context.Context, id string, delta float64) (float64, error)

	// AppendRating appends atomically and returns the updated sequence.
	AppendRating(ctx context.Context, id string, rating int) ([]int, error)
}

type ITripRepo interface {
	// Create inserts the trip, failing with ErrTripAlreadyActive when an
	// unresolved trip exists for the same passenger.
	Create(ctx context.Context, t model.Trip) error
	GetByID(ctx context.Context, id string) (model.Trip, error)
	GetByPassenger(ctx context.Context, passengerID string) (model.Trip, error)
	GetByDriver(ctx context.Context, driverID string) (model.Trip, error)

	// ClaimDriver binds driverID to the trip only if the trip is still
	// REQUESTED with no driver AND the driver holds no other trip. Returns
	// false when the claim was lost, without error.
	ClaimDriver(ctx context.Context, tripID, driverID string) (bool, error)

	// ReleaseDriver clears the driver field and returns the trip to REQUESTED.
	ReleaseDriver(ctx context.Context, tripID string) error

	// SetStatus performs the conditional transition from → to.
	SetStatus(ctx context.Context, tripID, from, to string) (bool, error)

	// Complete settles the trip in one atomic step: debit commission from the
	// driver and remove the trip record, only while the trip is still EN_ROUTE
	// and bound to driverID. Returns the driver's new balance; ok is false when
	// the race was lost. A failed call leaves the trip untouched and retryable.
	Complete(ctx context.Context, tripID, driverID string, commission float64) (float64, bool, error)
}

type ILocationRepo interface {
	SetStatus(ctx context.Context, driverID, state string, coord *model.Coordinate) error
	GetStatus(ctx context.Context, driverID string) (model.DriverStatus, bool, error)
	ListAvailable(ctx context.Context) ([]model.DriverStatus, error)

	// UpdatePositionIfAvailable writes coord only while the driver is still
	// AVAILABLE, so a simulator write can never resurrect a cleared status.
	UpdatePositionIfAvailable(ctx context.Context, driverID string, coord model.Coordinate) (bool, error)
}

// ILocationHistoryRepo keeps the audit trail of position writes. Appends are
// best-effort from the caller's point of view.
type ILocationHistoryRepo interface {
	Append(ctx context.Context, driverID string, coord model.Coordinate) error
}
