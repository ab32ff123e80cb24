package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"taxi-dispatch/internal/config"
	"taxi-dispatch/internal/dispatch-service/adapters/driven/bm"
	"taxi-dispatch/internal/dispatch-service/adapters/driven/cache"
	"taxi-dispatch/internal/dispatch-service/adapters/driven/consumer"
	"taxi-dispatch/internal/dispatch-service/adapters/driven/db"
	"taxi-dispatch/internal/dispatch-service/adapters/driver/myhttp/handle"
	"taxi-dispatch/internal/dispatch-service/adapters/driver/myhttp/middleware"
	"taxi-dispatch/internal/dispatch-service/adapters/driver/myhttp/ws"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/dispatch-service/core/services"
	"taxi-dispatch/internal/mylogger"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

type Server struct {
	mux       *http.ServeMux
	cfg       *config.Config
	srv       *http.Server
	mylog     mylogger.Logger
	db        *db.DB
	cache     *cache.LocationRepo
	mb        ports.IDispatchBroker
	simulator *services.Simulator
	ctx       context.Context
	appCtx    context.Context
	mu        sync.Mutex
	wg        sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	// Initialize Redis connection
	cache, err := cache.New(s.ctx, s.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.cache = cache
	mylog.Info("Successful redis connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	// Configure routes and handlers
	if err := s.Configure(); err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.DispatchServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.DispatchServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.simulator != nil {
		s.simulator.StopAll()
	}

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.mylog.Error("Failed to close redis", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services, handlers and routes.
func (s *Server) Configure() error {
	// Repositories
	userRepo := db.NewUserRepo(s.db)
	tripRepo := db.NewTripRepo(s.db)
	historyRepo := db.NewLocationHistoryRepo(s.db)
	locationRepo := s.cache

	// websocket dispatcher
	dispatcher := ws.NewDispatcher(s.mylog)

	// services
	s.simulator = services.NewSimulator(s.appCtx, s.mylog, locationRepo, historyRepo,
		time.Duration(s.cfg.Dispatch.SimulatorIntervalSeconds)*time.Second)
	locationService := services.NewLocationService(s.mylog, locationRepo, historyRepo, s.simulator)
	matchingService := services.NewMatchingService(s.mylog, userRepo, tripRepo, locationRepo)
	tripsService := services.NewTripsService(s.appCtx, s.mylog, userRepo, tripRepo, matchingService, s.mb, dispatcher)
	usersService := services.NewUsersService(s.mylog, userRepo)
	adminService := services.NewAdminService(s.mylog, userRepo, dispatcher, s.cfg.App.AdminSecretHash)

	// broker consumer for driver responses
	dispatchConsumer := consumer.New(s.appCtx, s.mylog, s.mb, tripsService)
	if err := dispatchConsumer.Run(); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	// handlers
	tripsHandler := handle.NewTripsHandler(tripsService, s.mylog)
	driversHandler := handle.NewDriversHandler(locationService, s.mylog)
	usersHandler := handle.NewUsersHandler(usersService, adminService, s.mylog)
	adminHandler := handle.NewAdminHandler(adminService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// Register routes
	s.mux.Handle("POST /users", usersHandler.Register())
	s.mux.Handle("GET /users/{user_id}", usersHandler.Get())

	s.mux.Handle("POST /trips", authMiddleware.Wrap(tripsHandler.CreateTrip(), model.RolePassenger))
	s.mux.Handle("POST /trips/rating", authMiddleware.Wrap(tripsHandler.Rate(), model.RolePassenger))

	s.mux.Handle("POST /drivers/{driver_id}/availability", authMiddleware.Wrap(driversHandler.SetAvailability(), model.RoleDriver))
	s.mux.Handle("GET /drivers/{driver_id}/status", authMiddleware.Wrap(driversHandler.GetStatus(), model.RoleDriver, model.RoleAdmin))
	s.mux.Handle("POST /drivers/{driver_id}/respond", authMiddleware.Wrap(tripsHandler.Respond(), model.RoleDriver))
	s.mux.Handle("POST /drivers/{driver_id}/pickup", authMiddleware.Wrap(tripsHandler.Pickup(), model.RoleDriver))
	s.mux.Handle("POST /drivers/{driver_id}/complete", authMiddleware.Wrap(tripsHandler.Complete(), model.RoleDriver))

	s.mux.Handle("POST /admin/balance", authMiddleware.Wrap(adminHandler.AdjustBalance(), model.RoleAdmin))
	s.mux.Handle("GET /admin/users/{username}", authMiddleware.Wrap(adminHandler.ShowUser(), model.RoleAdmin))

	// websocket routes
	s.mux.Handle("/ws/drivers/{driver_id}", dispatcher.WsHandler("driver_id"))
	s.mux.Handle("/ws/passengers/{passenger_id}", dispatcher.WsHandler("passenger_id"))

	return nil
}
