package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"taxi-dispatch/internal/dispatch-service/core/myerrors"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// callerIs reports whether the authenticated user the middleware stamped into
// X-UserId matches id.
func callerIs(r *http.Request, id string) bool {
	return r.Header.Get("X-UserId") == id
}

// statusFromError maps domain errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrInvalidInput),
		errors.Is(err, myerrors.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, myerrors.ErrUserNotFound),
		errors.Is(err, myerrors.ErrTripNotFound),
		errors.Is(err, myerrors.ErrNoActiveTrip):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrTripAlreadyActive):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrNoDriverAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
