package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taxi-dispatch/internal/dispatch-service/adapters/driven/memory"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/mylogger"
)

type matchingFixture struct {
	users    *memory.UserRepo
	trips    *memory.TripRepo
	location *memory.LocationRepo
	matching *MatchingService
}

func newMatchingFixture() *matchingFixture {
	users := memory.NewUserRepo()
	trips := memory.NewTripRepo(users)
	location := memory.NewLocationRepo()
	matching := NewMatchingService(mylogger.NewDiscard(), users, trips, location).(*MatchingService)
	return &matchingFixture{users: users, trips: trips, location: location, matching: matching}
}

func (f *matchingFixture) addDriver(t *testing.T, id, gender string, balance, lat, lon float64) {
	t.Helper()
	ctx := context.Background()
	err := f.users.Create(ctx, model.User{ID: id, Username: id, Role: model.RoleDriver, Gender: gender, Balance: balance})
	if err != nil {
		t.Fatalf("create driver %s: %v", id, err)
	}
	err = f.location.SetStatus(ctx, id, model.StateAvailable, &model.Coordinate{Latitude: lat, Longitude: lon})
	if err != nil {
		t.Fatalf("set status %s: %v", id, err)
	}
}

func (f *matchingFixture) addTrip(t *testing.T, id, passengerID, gender string, lat, lon float64) model.Trip {
	t.Helper()
	trip := model.Trip{
		ID:          id,
		PassengerID: passengerID,
		Gender:      gender,
		Start:       model.Coordinate{Latitude: lat, Longitude: lon},
		Status:      model.StatusRequested,
		CreatedAt:   time.Now(),
	}
	if err := f.trips.Create(context.Background(), trip); err != nil {
		t.Fatalf("create trip %s: %v", id, err)
	}
	return trip
}

func TestAssignDriverPicksNearest(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()

	f.addDriver(t, "d_near", model.GenderMale, 10, 32.0, 14.0)
	f.addDriver(t, "d_far", model.GenderMale, 10, 32.5, 14.5)

	trip := f.addTrip(t, "trip1", "p1", model.GenderMale, 32.001, 14.001)

	driverID, err := f.matching.AssignDriver(ctx, trip)
	if err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if driverID != "d_near" {
		t.Fatalf("expected d_near, got %s", driverID)
	}

	got, err := f.trips.GetByID(ctx, trip.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if got.Status != model.StatusAssigned || got.DriverID != "d_near" {
		t.Fatalf("expected ASSIGNED to d_near, got %s/%s", got.Status, got.DriverID)
	}
}

func TestAssignDriverEligibility(t *testing.T) {
	tests := []struct {
		name    string
		gender  string
		balance float64
		state   string
		role    string
		want    error
	}{
		{"wrong gender", model.GenderFemale, 10, model.StateAvailable, model.RoleDriver, myerrors.ErrNoDriverAvailable},
		{"balance below commission", model.GenderMale, 1.99, model.StateAvailable, model.RoleDriver, myerrors.ErrNoDriverAvailable},
		{"balance exactly commission", model.GenderMale, 2, model.StateAvailable, model.RoleDriver, nil},
		{"busy driver", model.GenderMale, 10, model.StateBusy, model.RoleDriver, myerrors.ErrNoDriverAvailable},
		{"passenger role", model.GenderMale, 10, model.StateAvailable, model.RolePassenger, myerrors.ErrNoDriverAvailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newMatchingFixture()

			err := f.users.Create(ctx, model.User{ID: "d1", Username: "d1", Role: tc.role, Gender: tc.gender, Balance: tc.balance})
			if err != nil {
				t.Fatalf("create user: %v", err)
			}
			err = f.location.SetStatus(ctx, "d1", tc.state, &model.Coordinate{Latitude: 32.0, Longitude: 14.0})
			if err != nil {
				t.Fatalf("set status: %v", err)
			}

			trip := f.addTrip(t, "trip1", "p1", model.GenderMale, 32.0, 14.0)

			_, err = f.matching.AssignDriver(ctx, trip)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected assignment, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAssignDriverWithoutPosition(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()

	if err := f.users.Create(ctx, model.User{ID: "d1", Username: "d1", Role: model.RoleDriver, Gender: model.GenderMale, Balance: 10}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	// Available but position never reported.
	if err := f.location.SetStatus(ctx, "d1", model.StateAvailable, nil); err != nil {
		t.Fatalf("set status: %v", err)
	}

	trip := f.addTrip(t, "trip1", "p1", model.GenderMale, 32.0, 14.0)

	if _, err := f.matching.AssignDriver(ctx, trip); !errors.Is(err, myerrors.ErrNoDriverAvailable) {
		t.Fatalf("expected ErrNoDriverAvailable, got %v", err)
	}
}

func TestAssignDriverSkipsUnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()

	// A stale status without a user record is skipped, not fatal.
	if err := f.location.SetStatus(ctx, "ghost", model.StateAvailable, &model.Coordinate{Latitude: 32.0, Longitude: 14.0}); err != nil {
		t.Fatalf("set status: %v", err)
	}
	f.addDriver(t, "d1", model.GenderMale, 10, 32.1, 14.1)

	trip := f.addTrip(t, "trip1", "p1", model.GenderMale, 32.0, 14.0)

	driverID, err := f.matching.AssignDriver(ctx, trip)
	if err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if driverID != "d1" {
		t.Fatalf("expected d1, got %s", driverID)
	}
}

func TestAssignDriverTieBreakLowestID(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()

	// Same distance from the trip start on opposite sides.
	f.addDriver(t, "d_b", model.GenderFemale, 10, 32.01, 14.0)
	f.addDriver(t, "d_a", model.GenderFemale, 10, 31.99, 14.0)

	trip := f.addTrip(t, "trip1", "p1", model.GenderFemale, 32.0, 14.0)

	driverID, err := f.matching.AssignDriver(ctx, trip)
	if err != nil {
		t.Fatalf("assign driver: %v", err)
	}
	if driverID != "d_a" {
		t.Fatalf("expected tie broken towards d_a, got %s", driverID)
	}
}

func TestConcurrentAssignSingleDriver(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()

	f.addDriver(t, "d1", model.GenderMale, 10, 32.0, 14.0)

	tripA := f.addTrip(t, "tripA", "pA", model.GenderMale, 32.0, 14.0)
	tripB := f.addTrip(t, "tripB", "pB", model.GenderMale, 32.0, 14.0)

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for _, trip := range []model.Trip{tripA, tripB} {
		wg.Add(1)
		go func(tr model.Trip) {
			defer wg.Done()
			_, err := f.matching.AssignDriver(ctx, tr)
			results <- err
		}(trip)
	}

	wg.Wait()
	close(results)

	success, noDriver := 0, 0
	for err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, myerrors.ErrNoDriverAvailable):
			noDriver++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 || noDriver != 1 {
		t.Fatalf("expected exactly one claim to win, got %d successes and %d misses", success, noDriver)
	}
}

func TestPlaneDistance(t *testing.T) {
	a := model.Coordinate{Latitude: 32.0, Longitude: 14.0}
	b := model.Coordinate{Latitude: 32.0, Longitude: 14.5}
	if d := planeDistance(a, b); d != 0.5 {
		t.Fatalf("expected 0.5, got %v", d)
	}
	if d := planeDistance(a, a); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}
