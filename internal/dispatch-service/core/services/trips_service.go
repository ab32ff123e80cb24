package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"

	messagebrokerdto "taxi-dispatch/internal/dispatch-service/core/domain/message_broker_dto"
	websocketdto "taxi-dispatch/internal/dispatch-service/core/domain/websocket_dto"
)

type TripsService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	users    ports.IUserRepo
	trips    ports.ITripRepo
	matching ports.IMatchingService
	broker   ports.IDispatchBroker
	notify   ports.INotifyWebsocket
}

func NewTripsService(
	ctx context.Context,
	mylog mylogger.Logger,
	users ports.IUserRepo,
	trips ports.ITripRepo,
	matching ports.IMatchingService,
	broker ports.IDispatchBroker,
	notify ports.INotifyWebsocket,
) ports.ITripsService {
	return &TripsService{
		ctx:      ctx,
		mylog:    mylog,
		users:    users,
		trips:    trips,
		matching: matching,
		broker:   broker,
		notify:   notify,
	}
}

func (ts *TripsService) CreateTrip(ctx context.Context, req dto.TripRequestDto) (dto.TripResponseDto, error) {
	log := ts.mylog.Action("CreateTrip")

	if err := validateTripRequest(req); err != nil {
		return dto.TripResponseDto{}, err
	}

	passenger, err := ts.users.GetByID(ctx, *req.PassengerId)
	if err != nil {
		return dto.TripResponseDto{}, err
	}

	trip := model.Trip{
		ID:            uuid.NewString(),
		PassengerID:   passenger.ID,
		PassengerName: *req.PassengerName,
		Gender:        passenger.Gender,
		Start: model.Coordinate{
			Latitude:  *req.StartLatitude,
			Longitude: *req.StartLongitude,
		},
		Destination: *req.Destination,
		Price:       *req.Price,
		Status:      model.StatusRequested,
		CreatedAt:   time.Now(),
	}

	// The repo rejects a second unresolved trip for the same passenger.
	if err := ts.trips.Create(ctx, trip); err != nil {
		return dto.TripResponseDto{}, err
	}
	log.Info("trip created", "trip_id", trip.ID, "passenger_id", trip.PassengerID, "price", trip.Price)

	driverID, err := ts.matching.AssignDriver(ctx, trip)
	if errors.Is(err, myerrors.ErrNoDriverAvailable) {
		ts.notifyPassenger(trip.PassengerID, websocketdto.TypeNoDriverAvailable, websocketdto.TripStatusUpdate{
			TripID: trip.ID,
			Status: model.StatusRequested,
		})
		return dto.TripResponseDto{TripId: trip.ID, Status: model.StatusRequested, DriverFound: false}, nil
	}
	if err != nil {
		return dto.TripResponseDto{}, err
	}

	ts.offerTrip(trip, driverID)
	return dto.TripResponseDto{TripId: trip.ID, Status: model.StatusAssigned, DriverFound: true, DriverId: driverID}, nil
}

func (ts *TripsService) RespondToAssignment(ctx context.Context, driverID string, accept bool) (dto.AssignmentResponseDto, error) {
	log := ts.mylog.Action("RespondToAssignment")

	trip, err := ts.trips.GetByDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, myerrors.ErrTripNotFound) {
			return dto.AssignmentResponseDto{}, myerrors.ErrNoActiveTrip
		}
		return dto.AssignmentResponseDto{}, err
	}
	if trip.Status != model.StatusAssigned {
		return dto.AssignmentResponseDto{}, myerrors.ErrInvalidTransition
	}

	if accept {
		ok, err := ts.trips.SetStatus(ctx, trip.ID, model.StatusAssigned, model.StatusAccepted)
		if err != nil {
			return dto.AssignmentResponseDto{}, err
		}
		if !ok {
			return dto.AssignmentResponseDto{}, myerrors.ErrInvalidTransition
		}
		log.Info("trip accepted", "trip_id", trip.ID, "driver_id", driverID)

		driver, err := ts.users.GetByID(ctx, driverID)
		if err != nil {
			return dto.AssignmentResponseDto{}, err
		}
		ts.notifyPassenger(trip.PassengerID, websocketdto.TypeTripStatusUpdate, websocketdto.TripStatusUpdate{
			TripID:       trip.ID,
			Status:       model.StatusAccepted,
			DriverGender: driver.Gender,
		})
		ts.pushStatus(trip, model.StatusAccepted, driverID)
		return dto.AssignmentResponseDto{TripId: trip.ID, Status: model.StatusAccepted, Accepted: true}, nil
	}

	// Rejection: clear the driver and go straight back to matching. The
	// rejecting driver keeps its AVAILABLE status and may be reselected.
	if err := ts.trips.ReleaseDriver(ctx, trip.ID); err != nil {
		return dto.AssignmentResponseDto{}, err
	}
	log.Info("trip rejected", "trip_id", trip.ID, "driver_id", driverID)
	ts.pushStatus(trip, model.StatusRequested, "")

	trip.DriverID = ""
	trip.Status = model.StatusRequested
	nextDriver, err := ts.matching.AssignDriver(ctx, trip)
	if errors.Is(err, myerrors.ErrNoDriverAvailable) {
		ts.notifyPassenger(trip.PassengerID, websocketdto.TypeNoDriverAvailable, websocketdto.TripStatusUpdate{
			TripID: trip.ID,
			Status: model.StatusRequested,
		})
		return dto.AssignmentResponseDto{TripId: trip.ID, Status: model.StatusRequested, Accepted: false}, nil
	}
	if err != nil {
		return dto.AssignmentResponseDto{}, err
	}

	ts.offerTrip(trip, nextDriver)
	return dto.AssignmentResponseDto{
		TripId:             trip.ID,
		Status:             model.StatusAssigned,
		Accepted:           false,
		ReassignedDriverId: nextDriver,
	}, nil
}

func (ts *TripsService) MarkPickup(ctx context.Context, driverID string) (dto.PickupResponseDto, error) {
	trip, err := ts.activeTrip(ctx, driverID)
	if err != nil {
		return dto.PickupResponseDto{}, err
	}

	ok, err := ts.trips.SetStatus(ctx, trip.ID, model.StatusAccepted, model.StatusEnRoute)
	if err != nil {
		return dto.PickupResponseDto{}, err
	}
	if !ok {
		return dto.PickupResponseDto{}, myerrors.ErrInvalidTransition
	}

	ts.mylog.Action("MarkPickup").Info("passenger picked up", "trip_id", trip.ID, "driver_id", driverID)
	ts.pushStatus(trip, model.StatusEnRoute, driverID)
	return dto.PickupResponseDto{TripId: trip.ID, Status: model.StatusEnRoute}, nil
}

// MarkCompleted settles the trip: debit the commission (the balance may go
// negative) and remove the trip record in one repository step, then prompt the
// passenger for a rating. A storage failure leaves the trip in EN_ROUTE so the
// driver can retry.
func (ts *TripsService) MarkCompleted(ctx context.Context, driverID string) (dto.CompletionResponseDto, error) {
	log := ts.mylog.Action("MarkCompleted")

	trip, err := ts.activeTrip(ctx, driverID)
	if err != nil {
		return dto.CompletionResponseDto{}, err
	}
	if trip.Status != model.StatusEnRoute {
		return dto.CompletionResponseDto{}, myerrors.ErrInvalidTransition
	}

	newBalance, ok, err := ts.trips.Complete(ctx, trip.ID, driverID, model.Commission)
	if err != nil {
		return dto.CompletionResponseDto{}, fmt.Errorf("settle trip: %w", err)
	}
	if !ok {
		return dto.CompletionResponseDto{}, myerrors.ErrInvalidTransition
	}
	log.Info("trip completed", "trip_id", trip.ID, "driver_id", driverID, "new_balance", newBalance)

	ts.notifyPassenger(trip.PassengerID, websocketdto.TypeRatingRequest, websocketdto.RatingRequest{
		TripID:   trip.ID,
		DriverID: driverID,
	})
	if ts.broker != nil {
		if err := ts.broker.PushRatingRequest(ts.ctx, messagebrokerdto.RatingRequest{
			TripID:      trip.ID,
			PassengerID: trip.PassengerID,
			DriverID:    driverID,
		}); err != nil {
			log.Error("failed to publish rating request", err, "trip_id", trip.ID)
		}
	}

	return dto.CompletionResponseDto{
		TripId:            trip.ID,
		PassengerId:       trip.PassengerID,
		CommissionDebited: model.Commission,
		NewBalance:        newBalance,
	}, nil
}

func (ts *TripsService) SubmitRating(ctx context.Context, passengerID, driverID string, rating int) (dto.RatingResponseDto, error) {
	if rating < 1 || rating > 5 {
		return dto.RatingResponseDto{}, myerrors.ErrInvalidInput
	}

	ratings, err := ts.users.AppendRating(ctx, driverID, rating)
	if err != nil {
		return dto.RatingResponseDto{}, err
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	display := FormatAverage(avg)

	ts.mylog.Action("SubmitRating").Info("driver rated",
		"driver_id", driverID, "rating", rating, "average", display)

	if ts.notify != nil {
		ts.notify.WriteToUser(driverID, websocketdto.Marshal(websocketdto.TypeRatingReceived, websocketdto.RatingReceived{
			Rating:         rating,
			AverageDisplay: display,
		}))
	}

	return dto.RatingResponseDto{
		DriverId:       driverID,
		Average:        avg,
		AverageDisplay: display,
		Count:          len(ratings),
	}, nil
}

// activeTrip returns the trip currently bound to the driver.
func (ts *TripsService) activeTrip(ctx context.Context, driverID string) (model.Trip, error) {
	trip, err := ts.trips.GetByDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, myerrors.ErrTripNotFound) {
			return model.Trip{}, myerrors.ErrNoActiveTrip
		}
		return model.Trip{}, err
	}
	return trip, nil
}

func (ts *TripsService) offerTrip(trip model.Trip, driverID string) {
	log := ts.mylog.Action("offerTrip")

	if ts.notify != nil {
		ts.notify.WriteToUser(driverID, websocketdto.Marshal(websocketdto.TypeTripOffer, websocketdto.TripOffer{
			TripID:         trip.ID,
			PassengerName:  trip.PassengerName,
			StartLatitude:  trip.Start.Latitude,
			StartLongitude: trip.Start.Longitude,
			Destination:    trip.Destination,
			Price:          trip.Price,
		}))
	}
	if ts.broker != nil {
		if err := ts.broker.PushTripOffer(ts.ctx, messagebrokerdto.TripOffer{
			TripID:         trip.ID,
			DriverID:       driverID,
			PassengerName:  trip.PassengerName,
			StartLatitude:  trip.Start.Latitude,
			StartLongitude: trip.Start.Longitude,
			Destination:    trip.Destination,
			Price:          trip.Price,
		}); err != nil {
			log.Error("failed to publish trip offer", err, "trip_id", trip.ID, "driver_id", driverID)
		}
	}
}

func (ts *TripsService) pushStatus(trip model.Trip, status, driverID string) {
	if ts.broker == nil {
		return
	}
	if err := ts.broker.PushTripStatus(ts.ctx, messagebrokerdto.TripStatus{
		TripID:      trip.ID,
		PassengerID: trip.PassengerID,
		DriverID:    driverID,
		Status:      status,
	}); err != nil {
		ts.mylog.Action("pushStatus").Error("failed to publish trip status", err, "trip_id", trip.ID)
	}
}

func (ts *TripsService) notifyPassenger(passengerID, eventType string, payload any) {
	if ts.notify == nil {
		return
	}
	ts.notify.WriteToUser(passengerID, websocketdto.Marshal(eventType, payload))
}

func validateTripRequest(req dto.TripRequestDto) error {
	if req.PassengerId == nil || *req.PassengerId == "" {
		return fmt.Errorf("%w: passenger_id is required", myerrors.ErrInvalidInput)
	}
	if req.PassengerName == nil || *req.PassengerName == "" {
		return fmt.Errorf("%w: passenger_name is required", myerrors.ErrInvalidInput)
	}
	if req.StartLatitude == nil || req.StartLongitude == nil {
		return fmt.Errorf("%w: start coordinates are required", myerrors.ErrInvalidInput)
	}
	if req.Destination == nil || *req.Destination == "" {
		return fmt.Errorf("%w: destination is required", myerrors.ErrInvalidInput)
	}
	if req.Price == nil || *req.Price < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", myerrors.ErrInvalidInput)
	}
	return nil
}

// FormatAverage renders a rating average to one decimal place for display.
// The stored value stays unrounded.
func FormatAverage(avg float64) string {
	return strconv.FormatFloat(avg, 'f', 1, 64)
}
