package main

import (
	"context"
	"log"
	"os"

	"taxi-dispatch/internal/config"
	dispatchservice "taxi-dispatch/internal/dispatch-service"
	"taxi-dispatch/internal/mylogger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: app dispatch-service")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	switch os.Args[1] {
	case "dispatch-service":
		if err := dispatchservice.Execute(context.Background(), mylog, cfg); err != nil {
			mylog.Error("dispatch service stopped with error", err)
			os.Exit(1)
		}
	default:
		log.Fatalf("unknown service: %s", os.Args[1])
	}
}
