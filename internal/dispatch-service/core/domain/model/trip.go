package model

import "time"

const (
	StatusRequested = "REQUESTED"
	StatusAssigned  = "ASSIGNED"
	StatusAccepted  = "ACCEPTED"
	StatusEnRoute   = "EN_ROUTE"
	StatusCompleted = "COMPLETED"
)

const (
	// Commission is debited from the driver on every completed trip.
	Commission = 2.0

	// MinDriverBalance is the eligibility floor for matching: a driver must
	// be able to afford the completion debit.
	MinDriverBalance = Commission
)

// allowedTransitions encodes the trip state flow. COMPLETED is terminal and
// the row is removed rather than kept.
var allowedTransitions = map[string][]string{
	StatusRequested: {StatusAssigned},
	StatusAssigned:  {StatusAccepted, StatusRequested},
	StatusAccepted:  {StatusEnRoute},
	StatusEnRoute:   {StatusCompleted},
}

func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Trip struct {
	ID            string
	PassengerID   string
	PassengerName string
	Gender        string
	Start         Coordinate
	Destination   string
	Price         float64
	DriverID      string // empty while unassigned
	Status        string
	CreatedAt     time.Time
}
