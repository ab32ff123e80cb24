package dto

type RegisterUserDto struct {
	UserId   *string `json:"user_id"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
	Gender   *string `json:"gender"`
	// Secret must match the admin enrollment secret when Role is ADMIN.
	Secret *string `json:"secret,omitempty"`
}

type UserDto struct {
	UserId        string  `json:"user_id"`
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	Gender        string  `json:"gender"`
	Balance       float64 `json:"balance"`
	RatingAverage float64 `json:"rating_average"`
	RatingsCount  int     `json:"ratings_count"`
}

type AdminBalanceRequestDto struct {
	Username *string  `json:"username"`
	Delta    *float64 `json:"delta"`
}

type AdminBalanceResponseDto struct {
	Username   string  `json:"username"`
	NewBalance float64 `json:"new_balance"`
}

type AdminUserViewDto struct {
	Username      string  `json:"username"`
	Role          string  `json:"role"`
	Gender        string  `json:"gender"`
	Balance       float64 `json:"balance"`
	RatingDisplay string  `json:"rating_display"`
}
