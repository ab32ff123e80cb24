package dto

type AvailabilityRequestDto struct {
	Available *bool    `json:"available"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type AvailabilityResponseDto struct {
	DriverId  string  `json:"driver_id"`
	Status    string  `json:"status"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Message   string  `json:"message"`
}
