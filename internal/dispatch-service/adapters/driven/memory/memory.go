// Package memory provides in-memory implementations of the driven ports.
// They serialize every access behind a single mutex per store, which makes
// the conditional operations (trip claims, balance adjustments) atomic and
// lets the service-level concurrency tests run without infrastructure.
package memory

import (
	"context"
	"strings"
	"sync"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]model.User)}
}

func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, myerrors.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return cloneUser(u), nil
		}
	}
	return model.User{}, myerrors.ErrUserNotFound
}

func (r *UserRepo) AdjustBalance(ctx context.Context, id string, delta float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, myerrors.ErrUserNotFound
	}
	u.Balance += delta
	r.users[id] = u
	return u.Balance, nil
}

func (r *UserRepo) AppendRating(ctx context.Context, id string, rating int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, myerrors.ErrUserNotFound
	}
	u.Ratings = append(append([]int(nil), u.Ratings...), rating)
	r.users[id] = u
	return append([]int(nil), u.Ratings...), nil
}

type TripRepo struct {
	mu    sync.Mutex
	trips map[string]model.Trip
	users *UserRepo
}

// NewTripRepo needs the user store because Complete settles the commission
// debit and the trip removal together.
func NewTripRepo(users *UserRepo) *TripRepo {
	return &TripRepo{trips: make(map[string]model.Trip), users: users}
}

func (r *TripRepo) Create(ctx context.Context, t model.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.trips {
		if existing.PassengerID == t.PassengerID {
			return myerrors.ErrTripAlreadyActive
		}
	}
	r.trips[t.ID] = t
	return nil
}

func (r *TripRepo) GetByID(ctx context.Context, id string) (model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return model.Trip{}, myerrors.ErrTripNotFound
	}
	return t, nil
}

func (r *TripRepo) GetByPassenger(ctx context.Context, passengerID string) (model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trips {
		if t.PassengerID == passengerID {
			return t, nil
		}
	}
	return model.Trip{}, myerrors.ErrTripNotFound
}

func (r *TripRepo) GetByDriver(ctx context.Context, driverID string) (model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trips {
		if t.DriverID == driverID {
			return t, nil
		}
	}
	return model.Trip{}, myerrors.ErrTripNotFound
}

func (r *TripRepo) ClaimDriver(ctx context.Context, tripID, driverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[tripID]
	if !ok {
		return false, myerrors.ErrTripNotFound
	}
	if t.DriverID != "" || t.Status != model.StatusRequested {
		return false, nil
	}
	for _, other := range r.trips {
		if other.DriverID == driverID {
			return false, nil
		}
	}
	t.DriverID = driverID
	t.Status = model.StatusAssigned
	r.trips[tripID] = t
	return true, nil
}

func (r *TripRepo) ReleaseDriver(ctx context.Context, tripID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[tripID]
	if !ok {
		return myerrors.ErrTripNotFound
	}
	t.DriverID = ""
	t.Status = model.StatusRequested
	r.trips[tripID] = t
	return nil
}

func (r *TripRepo) SetStatus(ctx context.Context, tripID, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[tripID]
	if !ok {
		return false, myerrors.ErrTripNotFound
	}
	if t.Status != from || !model.CanTransition(from, to) {
		return false, nil
	}
	t.Status = to
	r.trips[tripID] = t
	return true, nil
}

func (r *TripRepo) Complete(ctx context.Context, tripID, driverID string, commission float64) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[tripID]
	if !ok || t.DriverID != driverID || t.Status != model.StatusEnRoute {
		return 0, false, nil
	}
	balance, err := r.users.AdjustBalance(ctx, driverID, -commission)
	if err != nil {
		return 0, false, err
	}
	delete(r.trips, tripID)
	return balance, true, nil
}

type LocationRepo struct {
	mu       sync.Mutex
	statuses map[string]model.DriverStatus
}

func NewLocationRepo() *LocationRepo {
	return &LocationRepo{statuses: make(map[string]model.DriverStatus)}
}

func (r *LocationRepo) SetStatus(ctx context.Context, driverID, state string, coord *model.Coordinate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.statuses[driverID]
	st.DriverID = driverID
	st.State = state
	if coord != nil {
		c := *coord
		st.Coord = &c
	}
	r.statuses[driverID] = st
	return nil
}

func (r *LocationRepo) GetStatus(ctx context.Context, driverID string) (model.DriverStatus, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.statuses[driverID]
	if !ok {
		return model.DriverStatus{}, false, nil
	}
	return cloneStatus(st), true, nil
}

func (r *LocationRepo) ListAvailable(ctx context.Context) ([]model.DriverStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DriverStatus
	for _, st := range r.statuses {
		if st.State == model.StateAvailable {
			out = append(out, cloneStatus(st))
		}
	}
	return out, nil
}

func (r *LocationRepo) UpdatePositionIfAvailable(ctx context.Context, driverID string, coord model.Coordinate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.statuses[driverID]
	if !ok || st.State != model.StateAvailable {
		return false, nil
	}
	c := coord
	st.Coord = &c
	r.statuses[driverID] = st
	return true, nil
}

// HistoryRepo records appended positions; tests can inspect them.
type HistoryRepo struct {
	mu      sync.Mutex
	entries map[string][]model.Coordinate
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{entries: make(map[string][]model.Coordinate)}
}

func (r *HistoryRepo) Append(ctx context.Context, driverID string, coord model.Coordinate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[driverID] = append(r.entries[driverID], coord)
	return nil
}

func (r *HistoryRepo) Entries(driverID string) []model.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Coordinate(nil), r.entries[driverID]...)
}

func cloneUser(u model.User) model.User {
	u.Ratings = append([]int(nil), u.Ratings...)
	return u
}

func cloneStatus(st model.DriverStatus) model.DriverStatus {
	if st.Coord != nil {
		c := *st.Coord
		st.Coord = &c
	}
	return st
}

var (
	_ ports.IUserRepo            = (*UserRepo)(nil)
	_ ports.ITripRepo            = (*TripRepo)(nil)
	_ ports.ILocationRepo        = (*LocationRepo)(nil)
	_ ports.ILocationHistoryRepo = (*HistoryRepo)(nil)
)
