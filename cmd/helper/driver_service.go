package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	websocketdto "taxi-dispatch/internal/dispatch-service/core/domain/websocket_dto"
)

// DriverService drives one simulated driver through the trip lifecycle:
// go available, wait for an offer, accept, pick up, complete.
type DriverService struct {
	driverID   string
	jwtToken   string
	currentLat float64
	currentLng float64
	httpClient *HTTPClient
	wsClient   *WebSocketClient
	logger     *Logger
	ctx        context.Context
}

func NewDriverService(ctx context.Context, driverID, jwtToken string, initialLat, initialLng float64, logger *Logger) *DriverService {
	return &DriverService{
		driverID:   driverID,
		jwtToken:   jwtToken,
		currentLat: initialLat,
		currentLng: initialLng,
		httpClient: NewHTTPClient(logger),
		wsClient:   NewWebSocketClient(ctx, logger),
		logger:     logger,
		ctx:        ctx,
	}
}

func (d *DriverService) headers() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + d.jwtToken,
	}
}

func (d *DriverService) Connect() error {
	return d.wsClient.Connect(fmt.Sprintf(WSBaseURL+WSDriverPath, d.driverID))
}

func (d *DriverService) GoAvailable() error {
	req := AvailabilityRequest{
		Available: true,
		Latitude:  &d.currentLat,
		Longitude: &d.currentLng,
	}

	url := fmt.Sprintf(BaseURL+AvailabilityPath, d.driverID)
	if _, err := d.httpClient.DoRequest("POST", url, req, d.headers()); err != nil {
		return fmt.Errorf("setting driver available: %w", err)
	}

	d.logger.HTTP("Driver %s is now available", d.driverID)
	return nil
}

func (d *DriverService) GoBusy() error {
	req := AvailabilityRequest{Available: false}

	url := fmt.Sprintf(BaseURL+AvailabilityPath, d.driverID)
	if _, err := d.httpClient.DoRequest("POST", url, req, d.headers()); err != nil {
		return fmt.Errorf("setting driver busy: %w", err)
	}

	d.logger.HTTP("Driver %s is now busy", d.driverID)
	return nil
}

// HandleTripOffer accepts the offer and walks the trip through pickup and
// completion with small delays in between.
func (d *DriverService) HandleTripOffer(offer websocketdto.TripOffer) error {
	d.logger.WebSocket("🚕 Received trip offer: %s → %s (%.2f)", offer.PassengerName, offer.Destination, offer.Price)

	url := fmt.Sprintf(BaseURL+RespondPath, d.driverID)
	if _, err := d.httpClient.DoRequest("POST", url, RespondRequest{Accept: true}, d.headers()); err != nil {
		return fmt.Errorf("accepting trip: %w", err)
	}
	d.logger.HTTP("Accepted trip %s", offer.TripID)

	time.Sleep(PickupDelay)

	url = fmt.Sprintf(BaseURL+PickupPath, d.driverID)
	if _, err := d.httpClient.DoRequest("POST", url, nil, d.headers()); err != nil {
		return fmt.Errorf("marking pickup: %w", err)
	}
	d.logger.HTTP("Picked up passenger for trip %s", offer.TripID)

	time.Sleep(CompleteDelay)

	url = fmt.Sprintf(BaseURL+CompletePath, d.driverID)
	data, err := d.httpClient.DoRequest("POST", url, nil, d.headers())
	if err != nil {
		return fmt.Errorf("completing trip: %w", err)
	}
	d.logger.HTTP("Completed trip %s: %s", offer.TripID, data)

	// back on the road
	return d.GoAvailable()
}

func (d *DriverService) Run() error {
	if err := d.Connect(); err != nil {
		return err
	}
	defer d.wsClient.Close()

	if err := d.GoAvailable(); err != nil {
		return err
	}

	return d.wsClient.ReadMessages(func(messageType int, payload []byte) error {
		var event websocketdto.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}

		switch event.Type {
		case websocketdto.TypeTripOffer:
			var offer websocketdto.TripOffer
			if err := json.Unmarshal(event.Data, &offer); err != nil {
				return err
			}
			return d.HandleTripOffer(offer)
		case websocketdto.TypeRatingReceived:
			var rating websocketdto.RatingReceived
			if err := json.Unmarshal(event.Data, &rating); err != nil {
				return err
			}
			d.logger.WebSocket("⭐ Got rated %d, average now %s", rating.Rating, rating.AverageDisplay)
		default:
			d.logger.WebSocket("Received event: %s %s", event.Type, event.Data)
		}
		return nil
	})
}
