package services

import (
	"context"
	"errors"
	"math"
	"sort"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

type MatchingService struct {
	mylog    mylogger.Logger
	users    ports.IUserRepo
	trips    ports.ITripRepo
	location ports.ILocationRepo
}

func NewMatchingService(
	mylog mylogger.Logger,
	users ports.IUserRepo,
	trips ports.ITripRepo,
	location ports.ILocationRepo,
) ports.IMatchingService {
	return &MatchingService{
		mylog:    mylog,
		users:    users,
		trips:    trips,
		location: location,
	}
}

type candidate struct {
	driverID string
	distance float64
}

// AssignDriver selects the nearest eligible driver for the trip. Eligibility:
// AVAILABLE with a known position, gender matching the passenger, balance at
// least the commission. Candidates are tried in ascending distance order (ties
// broken by lowest driver id) and the first successful claim wins, so a
// driver lost to a concurrent assignment is simply skipped.
func (ms *MatchingService) AssignDriver(ctx context.Context, trip model.Trip) (string, error) {
	log := ms.mylog.Action("AssignDriver")

	statuses, err := ms.location.ListAvailable(ctx)
	if err != nil {
		return "", err
	}

	candidates := make([]candidate, 0, len(statuses))
	for _, st := range statuses {
		if st.Coord == nil {
			continue
		}
		u, err := ms.users.GetByID(ctx, st.DriverID)
		if err != nil {
			if errors.Is(err, myerrors.ErrUserNotFound) {
				continue
			}
			return "", err
		}
		if u.Role != model.RoleDriver || u.Gender != trip.Gender || u.Balance < model.MinDriverBalance {
			continue
		}
		candidates = append(candidates, candidate{
			driverID: st.DriverID,
			distance: planeDistance(*st.Coord, trip.Start),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].driverID < candidates[j].driverID
	})

	for _, c := range candidates {
		ok, err := ms.trips.ClaimDriver(ctx, trip.ID, c.driverID)
		if err != nil {
			return "", err
		}
		if ok {
			log.Info("driver claimed for trip", "trip_id", trip.ID, "driver_id", c.driverID, "distance", c.distance)
			return c.driverID, nil
		}
	}

	log.Info("no eligible driver for trip", "trip_id", trip.ID, "candidates", len(candidates))
	return "", myerrors.ErrNoDriverAvailable
}

// planeDistance is the plane approximation sqrt(dLat² + dLon²) used for
// ranking drivers at city scale.
func planeDistance(a, b model.Coordinate) float64 {
	dLat := a.Latitude - b.Latitude
	dLon := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
