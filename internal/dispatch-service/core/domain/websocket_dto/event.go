package websocketdto

import "encoding/json"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	TypeTripOffer         = "trip_offer"
	TypeTripStatusUpdate  = "trip_status_update"
	TypeNoDriverAvailable = "no_driver_available"
	TypeRatingRequest     = "rating_request"
	TypeRatingReceived    = "rating_received"
	TypeBalanceAdjusted   = "balance_adjusted"
)

// TripOffer goes to the selected driver; the pickup link mirrors what the
// conversational layer renders to the driver.
type TripOffer struct {
	TripID         string  `json:"trip_id"`
	PassengerName  string  `json:"passenger_name"`
	StartLatitude  float64 `json:"start_latitude"`
	StartLongitude float64 `json:"start_longitude"`
	Destination    string  `json:"destination"`
	Price          float64 `json:"price"`
}

// TripStatusUpdate goes to the passenger. The driver identity is anonymized:
// only the gender is exposed.
type TripStatusUpdate struct {
	TripID       string `json:"trip_id"`
	Status       string `json:"status"`
	DriverGender string `json:"driver_gender,omitempty"`
}

type RatingRequest struct {
	TripID   string `json:"trip_id"`
	DriverID string `json:"driver_id"`
}

type RatingReceived struct {
	Rating         int    `json:"rating"`
	AverageDisplay string `json:"average_display"`
}

type BalanceAdjusted struct {
	Delta      float64 `json:"delta"`
	NewBalance float64 `json:"new_balance"`
}

// Marshal wraps a payload into an Event. Payloads here are always
// marshalable; on failure the event carries no data.
func Marshal(eventType string, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{Type: eventType}
	}
	return Event{Type: eventType, Data: raw}
}
