package handle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/mylogger"
)

// recordingTripsService counts calls so tests can assert a rejected request
// never reached the service.
type recordingTripsService struct {
	calls int
}

func (s *recordingTripsService) CreateTrip(ctx context.Context, req dto.TripRequestDto) (dto.TripResponseDto, error) {
	s.calls++
	return dto.TripResponseDto{}, nil
}

func (s *recordingTripsService) RespondToAssignment(ctx context.Context, driverID string, accept bool) (dto.AssignmentResponseDto, error) {
	s.calls++
	return dto.AssignmentResponseDto{TripId: "t1", Accepted: accept}, nil
}

func (s *recordingTripsService) MarkPickup(ctx context.Context, driverID string) (dto.PickupResponseDto, error) {
	s.calls++
	return dto.PickupResponseDto{TripId: "t1"}, nil
}

func (s *recordingTripsService) MarkCompleted(ctx context.Context, driverID string) (dto.CompletionResponseDto, error) {
	s.calls++
	return dto.CompletionResponseDto{TripId: "t1"}, nil
}

func (s *recordingTripsService) SubmitRating(ctx context.Context, passengerID, driverID string, rating int) (dto.RatingResponseDto, error) {
	s.calls++
	return dto.RatingResponseDto{DriverId: driverID}, nil
}

func driverRequest(method, body, pathDriver, caller string) *http.Request {
	r := httptest.NewRequest(method, "/drivers/"+pathDriver+"/x", strings.NewReader(body))
	r.SetPathValue("driver_id", pathDriver)
	r.Header.Set("X-UserId", caller)
	r.Header.Set("X-Role", model.RoleDriver)
	return r
}

// The path driver id must match the authenticated user; a valid driver token
// must not act on another driver's behalf.
func TestDriverEndpointsRejectImpersonation(t *testing.T) {
	svc := &recordingTripsService{}
	h := NewTripsHandler(svc, mylogger.NewDiscard())

	cases := []struct {
		name    string
		handler http.HandlerFunc
		body    string
	}{
		{"respond", h.Respond(), `{"accept":true}`},
		{"pickup", h.Pickup(), ""},
		{"complete", h.Complete(), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tc.handler(w, driverRequest(http.MethodPost, tc.body, "d2", "d1"))
			if w.Code != http.StatusForbidden {
				t.Fatalf("expected 403 for mismatched caller, got %d", w.Code)
			}
		})
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be reached on rejection, got %d calls", svc.calls)
	}

	// The matching caller goes through.
	w := httptest.NewRecorder()
	h.Respond()(w, driverRequest(http.MethodPost, `{"accept":true}`, "d1", "d1"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for matching caller, got %d", w.Code)
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}
}

func TestRateRejectsForeignPassenger(t *testing.T) {
	svc := &recordingTripsService{}
	h := NewTripsHandler(svc, mylogger.NewDiscard())

	body := `{"passenger_id":"p2","driver_id":"d1","rating":5}`
	r := httptest.NewRequest(http.MethodPost, "/trips/rating", strings.NewReader(body))
	r.Header.Set("X-UserId", "p1")
	r.Header.Set("X-Role", model.RolePassenger)

	w := httptest.NewRecorder()
	h.Rate()(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign passenger, got %d", w.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be reached, got %d calls", svc.calls)
	}
}
