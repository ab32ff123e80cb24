package model

const (
	StateAvailable = "AVAILABLE"
	StateBusy      = "BUSY"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DriverStatus is the live availability record, one per driver that has ever
// gone available. Coord is nil until the first position write.
type DriverStatus struct {
	DriverID string      `json:"driver_id"`
	State    string      `json:"status"`
	Coord    *Coordinate `json:"coord,omitempty"`
}
