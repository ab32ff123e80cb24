package model

const (
	RoleDriver    = "DRIVER"
	RolePassenger = "PASSENGER"
	RoleAdmin     = "ADMIN"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

const (
	// DriverInitialBalance is the signup bonus granted to a new driver.
	DriverInitialBalance = 10.0

	PassengerInitialBalance = 0.0
)

type User struct {
	ID       string
	Username string
	Role     string
	Gender   string
	Balance  float64
	Ratings  []int
	Admin    bool
}

// RatingAverage returns the unrounded mean of the rating sequence, 0 when empty.
func (u User) RatingAverage() float64 {
	if len(u.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range u.Ratings {
		sum += r
	}
	return float64(sum) / float64(len(u.Ratings))
}
