package handle

import (
	"encoding/json"
	"net/http"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

type DriversHandler struct {
	locationService ports.ILocationService
	log             mylogger.Logger
}

func NewDriversHandler(ls ports.ILocationService, log mylogger.Logger) *DriversHandler {
	return &DriversHandler{
		locationService: ls,
		log:             log,
	}
}

func (dh *DriversHandler) SetAvailability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverId := r.PathValue("driver_id")
		if !callerIs(r, driverId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		req := dto.AvailabilityRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.Available == nil {
			JsonError(w, http.StatusBadRequest, myerrors.ErrInvalidInput)
			return
		}

		var coord *model.Coordinate
		if req.Latitude != nil && req.Longitude != nil {
			coord = &model.Coordinate{
				Latitude:  *req.Latitude,
				Longitude: *req.Longitude,
			}
		}

		res, err := dh.locationService.SetAvailability(r.Context(), driverId, *req.Available, coord)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (dh *DriversHandler) GetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverId := r.PathValue("driver_id")
		// Admins may inspect any driver; a driver only itself.
		if r.Header.Get("X-Role") != model.RoleAdmin && !callerIs(r, driverId) {
			JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
			return
		}

		status, ok, err := dh.locationService.GetStatus(r.Context(), driverId)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}
		if !ok {
			JsonError(w, http.StatusNotFound, myerrors.ErrUserNotFound)
			return
		}

		jsonResponse(w, http.StatusOK, status)
	}
}
