package handle

import (
	"encoding/json"
	"net/http"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

type TripsHandler struct {
	tripsService ports.ITripsService
	log          mylogger.Logger
}

func NewTripsHandler(ts ports.ITripsService, log mylogger.Logger) *TripsHandler {
	return &TripsHandler{
		tripsService: ts,
		log:          log,
	}
}

func (th *TripsHandler) CreateTrip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.TripRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.PassengerId != nil && !callerIs(r, *req.PassengerId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		res, err := th.tripsService.CreateTrip(r.Context(), req)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (th *TripsHandler) Respond() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverId := r.PathValue("driver_id")
		if !callerIs(r, driverId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		req := struct {
			Accept *bool `json:"accept"`
		}{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.Accept == nil {
			JsonError(w, http.StatusBadRequest, myerrors.ErrInvalidInput)
			return
		}

		res, err := th.tripsService.RespondToAssignment(r.Context(), driverId, *req.Accept)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (th *TripsHandler) Pickup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverId := r.PathValue("driver_id")
		if !callerIs(r, driverId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		res, err := th.tripsService.MarkPickup(r.Context(), driverId)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (th *TripsHandler) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverId := r.PathValue("driver_id")
		if !callerIs(r, driverId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		res, err := th.tripsService.MarkCompleted(r.Context(), driverId)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (th *TripsHandler) Rate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.RatingRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.PassengerId == nil || req.DriverId == nil || req.Rating == nil {
			JsonError(w, http.StatusBadRequest, myerrors.ErrInvalidInput)
			return
		}
		if !callerIs(r, *req.PassengerId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		res, err := th.tripsService.SubmitRating(r.Context(), *req.PassengerId, *req.DriverId, *req.Rating)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
