package dto

// API transfer data for the trip lifecycle.

type TripRequestDto struct {
	PassengerId    *string  `json:"passenger_id"`
	PassengerName  *string  `json:"passenger_name"`
	StartLatitude  *float64 `json:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude"`
	Destination    *string  `json:"destination"`
	Price          *float64 `json:"price"`
}

type TripResponseDto struct {
	TripId      string `json:"trip_id"`
	Status      string `json:"status"`
	DriverFound bool   `json:"driver_found"`
	DriverId    string `json:"driver_id,omitempty"`
}

type AssignmentResponseDto struct {
	TripId   string `json:"trip_id"`
	Status   string `json:"status"`
	Accepted bool   `json:"accepted"`
	// ReassignedDriverId is set when a rejection immediately found a replacement.
	ReassignedDriverId string `json:"reassigned_driver_id,omitempty"`
}

type PickupResponseDto struct {
	TripId string `json:"trip_id"`
	Status string `json:"status"`
}

type CompletionResponseDto struct {
	TripId            string  `json:"trip_id"`
	PassengerId       string  `json:"passenger_id"`
	CommissionDebited float64 `json:"commission_debited"`
	NewBalance        float64 `json:"new_balance"`
}

type RatingRequestDto struct {
	PassengerId *string `json:"passenger_id"`
	DriverId    *string `json:"driver_id"`
	Rating      *int    `json:"rating"`
}

type RatingResponseDto struct {
	DriverId       string  `json:"driver_id"`
	Average        float64 `json:"average"`
	AverageDisplay string  `json:"average_display"`
	Count          int     `json:"count"`
}
