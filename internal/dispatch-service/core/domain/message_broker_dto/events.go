package messagebrokerdto

// Events published on the dispatch_topic exchange for the conversational
// layer, and the driver response consumed back from it.

// TripOffer → dispatch_topic → trip.offer.{driver_id}
type TripOffer struct {
	TripID         string  `json:"trip_id"`
	DriverID       string  `json:"driver_id"`
	PassengerName  string  `json:"passenger_name"`
	StartLatitude  float64 `json:"start_latitude"`
	StartLongitude float64 `json:"start_longitude"`
	Destination    string  `json:"destination"`
	Price          float64 `json:"price"`
}

// TripStatus → dispatch_topic → trip.status.{status}
type TripStatus struct {
	TripID      string `json:"trip_id"`
	PassengerID string `json:"passenger_id"`
	DriverID    string `json:"driver_id,omitempty"`
	Status      string `json:"status"`
}

// RatingRequest → dispatch_topic → rating.request.{passenger_id}
type RatingRequest struct {
	TripID      string `json:"trip_id"`
	PassengerID string `json:"passenger_id"`
	DriverID    string `json:"driver_id"`
}

// DriverResponse ← dispatch_topic ← driver.response.*
type DriverResponse struct {
	DriverID string `json:"driver_id"`
	Accepted bool   `json:"accepted"`
}
