package main

import "time"

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

// Pacing constants so the helper does not hammer the service
const (
	HTTPRequestDelay = 200 * time.Millisecond
	PickupDelay      = 2 * time.Second
	CompleteDelay    = 4 * time.Second
)

// API endpoints
const (
	BaseURL          = "http://localhost:3000"
	WSBaseURL        = "ws://localhost:3000"
	AvailabilityPath = "/drivers/%s/availability"
	RespondPath      = "/drivers/%s/respond"
	PickupPath       = "/drivers/%s/pickup"
	CompletePath     = "/drivers/%s/complete"
	WSDriverPath     = "/ws/drivers/%s"
)
