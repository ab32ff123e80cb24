package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
)

// Driver helper: connects a simulated driver to the dispatch service, goes
// available and auto-accepts trip offers until interrupted.
func main() {
	driverID := flag.String("driver_id", "", "Driver ID to simulate")
	driverToken := flag.String("token", "", "Driver JWT for authentication")
	lat := flag.Float64("lat", 32.5, "Initial latitude")
	lng := flag.Float64("lng", 14.0, "Initial longitude")
	flag.Parse()

	if *driverID == "" || *driverToken == "" {
		log.Fatal("Driver ID and token are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := &Logger{}
	driver := NewDriverService(ctx, *driverID, *driverToken, *lat, *lng, logger)

	if err := driver.Run(); err != nil {
		logger.Error("Driver helper stopped: %v", err)
	}
}
