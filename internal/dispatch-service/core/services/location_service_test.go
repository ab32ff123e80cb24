package services

import (
	"context"
	"testing"

	"taxi-dispatch/internal/dispatch-service/adapters/driven/memory"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/mylogger"
)

func TestSetAvailabilityWithPosition(t *testing.T) {
	ctx := context.Background()
	location := memory.NewLocationRepo()
	history := memory.NewHistoryRepo()
	svc := NewLocationService(mylogger.NewDiscard(), location, history, nil)

	coord := &model.Coordinate{Latitude: 32.4, Longitude: 14.2}
	res, err := svc.SetAvailability(ctx, "d1", true, coord)
	if err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if res.Status != model.StateAvailable || res.Latitude != 32.4 || res.Longitude != 14.2 {
		t.Fatalf("unexpected response: %+v", res)
	}

	if entries := history.Entries("d1"); len(entries) != 1 || entries[0] != *coord {
		t.Fatalf("expected initial position in history, got %v", entries)
	}
}

func TestSetAvailabilityAssignsRandomPositionInServiceArea(t *testing.T) {
	ctx := context.Background()
	location := memory.NewLocationRepo()
	svc := NewLocationService(mylogger.NewDiscard(), location, memory.NewHistoryRepo(), nil)

	res, err := svc.SetAvailability(ctx, "d1", true, nil)
	if err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if res.Latitude < serviceAreaLatMin || res.Latitude > serviceAreaLatMax {
		t.Fatalf("latitude %v outside service area", res.Latitude)
	}
	if res.Longitude < serviceAreaLonMin || res.Longitude > serviceAreaLonMax {
		t.Fatalf("longitude %v outside service area", res.Longitude)
	}
}

func TestGoingBusyKeepsLastPosition(t *testing.T) {
	ctx := context.Background()
	location := memory.NewLocationRepo()
	svc := NewLocationService(mylogger.NewDiscard(), location, memory.NewHistoryRepo(), nil)

	coord := &model.Coordinate{Latitude: 32.4, Longitude: 14.2}
	if _, err := svc.SetAvailability(ctx, "d1", true, coord); err != nil {
		t.Fatalf("go available: %v", err)
	}

	res, err := svc.SetAvailability(ctx, "d1", false, nil)
	if err != nil {
		t.Fatalf("go busy: %v", err)
	}
	if res.Status != model.StateBusy {
		t.Fatalf("expected BUSY, got %s", res.Status)
	}

	st, ok, err := svc.GetStatus(ctx, "d1")
	if err != nil || !ok {
		t.Fatalf("get status: %v %v", err, ok)
	}
	if st.State != model.StateBusy || st.Coord == nil || *st.Coord != *coord {
		t.Fatalf("expected busy driver to keep position, got %+v", st)
	}
}

func TestBusyDriverNotListedAvailable(t *testing.T) {
	ctx := context.Background()
	location := memory.NewLocationRepo()
	svc := NewLocationService(mylogger.NewDiscard(), location, memory.NewHistoryRepo(), nil)

	coord := &model.Coordinate{Latitude: 32.4, Longitude: 14.2}
	if _, err := svc.SetAvailability(ctx, "d1", true, coord); err != nil {
		t.Fatalf("go available: %v", err)
	}
	if _, err := svc.SetAvailability(ctx, "d1", false, nil); err != nil {
		t.Fatalf("go busy: %v", err)
	}

	available, err := location.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 0 {
		t.Fatalf("expected no available drivers, got %v", available)
	}
}
