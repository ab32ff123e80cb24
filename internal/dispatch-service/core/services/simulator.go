package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

const (
	// DefaultSimulatorInterval is how often an available driver's position
	// drifts.
	DefaultSimulatorInterval = 5 * time.Second

	// PositionJitter bounds the uniform per-tick perturbation of each axis.
	PositionJitter = 0.0005
)

// Simulator runs one goroutine per available driver, drifting its position
// every interval until the driver leaves AVAILABLE. Cancellation is explicit:
// Stop (called when the driver goes busy or offline) cancels the goroutine's
// context, and the conditional position write is the backstop against a write
// racing a status change.
type Simulator struct {
	ctx      context.Context
	mylog    mylogger.Logger
	location ports.ILocationRepo
	history  ports.ILocationHistoryRepo
	interval time.Duration

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewSimulator(
	ctx context.Context,
	mylog mylogger.Logger,
	location ports.ILocationRepo,
	history ports.ILocationHistoryRepo,
	interval time.Duration,
) *Simulator {
	if interval <= 0 {
		interval = DefaultSimulatorInterval
	}
	return &Simulator{
		ctx:      ctx,
		mylog:    mylog,
		location: location,
		history:  history,
		interval: interval,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Start launches the drift loop for a driver. A previous loop for the same
// driver is cancelled first, so going available twice never doubles up.
func (s *Simulator) Start(driverID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.cancels[driverID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancels[driverID] = cancel
	go s.run(ctx, driverID)
}

func (s *Simulator) Stop(driverID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.cancels[driverID]; ok {
		cancel()
		delete(s.cancels, driverID)
	}
}

// StopAll cancels every running loop; used on service shutdown.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cancel := range s.cancels {
		cancel()
		delete(s.cancels, id)
	}
}

func (s *Simulator) run(ctx context.Context, driverID string) {
	log := s.mylog.Action("position_simulator").With("driver_id", driverID)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st, ok, err := s.location.GetStatus(ctx, driverID)
			if err != nil {
				log.Warn("status read failed", "err", err.Error())
				continue
			}
			if !ok || st.State != model.StateAvailable || st.Coord == nil {
				return
			}

			next := model.Coordinate{
				Latitude:  st.Coord.Latitude + jitter(),
				Longitude: st.Coord.Longitude + jitter(),
			}
			written, err := s.location.UpdatePositionIfAvailable(ctx, driverID, next)
			if err != nil {
				log.Warn("position write failed", "err", err.Error())
				continue
			}
			if !written {
				// Status flipped between read and write; the loop is done.
				return
			}
			if s.history != nil {
				if err := s.history.Append(ctx, driverID, next); err != nil {
					log.Warn("history append failed", "err", err.Error())
				}
			}
		}
	}
}

// jitter returns a uniform offset in [-PositionJitter, +PositionJitter].
func jitter() float64 {
	return (rand.Float64()*2 - 1) * PositionJitter
}
