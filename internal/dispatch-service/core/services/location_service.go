package services

import (
	"context"
	"math/rand"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

// Drivers that go available without reporting a position get a random start
// inside the service area.
const (
	serviceAreaLatMin = 32.0
	serviceAreaLatMax = 33.0
	serviceAreaLonMin = 13.0
	serviceAreaLonMax = 15.0
)

type LocationService struct {
	mylog     mylogger.Logger
	location  ports.ILocationRepo
	history   ports.ILocationHistoryRepo
	simulator *Simulator
}

func NewLocationService(
	mylog mylogger.Logger,
	location ports.ILocationRepo,
	history ports.ILocationHistoryRepo,
	simulator *Simulator,
) ports.ILocationService {
	return &LocationService{
		mylog:     mylog,
		location:  location,
		history:   history,
		simulator: simulator,
	}
}

func (ls *LocationService) SetAvailability(ctx context.Context, driverID string, available bool, coord *model.Coordinate) (dto.AvailabilityResponseDto, error) {
	log := ls.mylog.Action("SetAvailability")

	if !available {
		if ls.simulator != nil {
			ls.simulator.Stop(driverID)
		}
		if err := ls.location.SetStatus(ctx, driverID, model.StateBusy, nil); err != nil {
			return dto.AvailabilityResponseDto{}, err
		}
		log.Info("driver went busy", "driver_id", driverID)
		return dto.AvailabilityResponseDto{
			DriverId: driverID,
			Status:   model.StateBusy,
			Message:  "You are now busy",
		}, nil
	}

	if coord == nil {
		coord = &model.Coordinate{
			Latitude:  serviceAreaLatMin + rand.Float64()*(serviceAreaLatMax-serviceAreaLatMin),
			Longitude: serviceAreaLonMin + rand.Float64()*(serviceAreaLonMax-serviceAreaLonMin),
		}
	}

	if err := ls.location.SetStatus(ctx, driverID, model.StateAvailable, coord); err != nil {
		return dto.AvailabilityResponseDto{}, err
	}
	if ls.history != nil {
		if err := ls.history.Append(ctx, driverID, *coord); err != nil {
			log.Warn("location history append failed", "driver_id", driverID, "err", err.Error())
		}
	}
	if ls.simulator != nil {
		ls.simulator.Start(driverID)
	}

	log.Info("driver went available", "driver_id", driverID, "lat", coord.Latitude, "lon", coord.Longitude)
	return dto.AvailabilityResponseDto{
		DriverId:  driverID,
		Status:    model.StateAvailable,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		Message:   "You are now available, your position is updated automatically",
	}, nil
}

func (ls *LocationService) GetStatus(ctx context.Context, driverID string) (model.DriverStatus, bool, error) {
	return ls.location.GetStatus(ctx, driverID)
}
