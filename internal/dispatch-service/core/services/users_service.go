package services

import (
	"context"
	"fmt"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

var AllowedRoles = map[string]bool{
	model.RoleDriver:    true,
	model.RolePassenger: true,
	model.RoleAdmin:     true,
}

var AllowedGenders = map[string]bool{
	model.GenderMale:   true,
	model.GenderFemale: true,
}

type UsersService struct {
	mylog mylogger.Logger
	users ports.IUserRepo
}

func NewUsersService(mylog mylogger.Logger, users ports.IUserRepo) ports.IUsersService {
	return &UsersService{mylog: mylog, users: users}
}

// Register creates a user on first role selection. Drivers start with the
// signup bonus, passengers with zero.
func (us *UsersService) Register(ctx context.Context, req dto.RegisterUserDto) (dto.UserDto, error) {
	log := us.mylog.Action("Register")

	if err := validateRegistration(req); err != nil {
		return dto.UserDto{}, err
	}

	balance := model.PassengerInitialBalance
	if *req.Role == model.RoleDriver {
		balance = model.DriverInitialBalance
	}

	gender := ""
	if req.Gender != nil {
		gender = *req.Gender
	}

	u := model.User{
		ID:       *req.UserId,
		Username: *req.Username,
		Role:     *req.Role,
		Gender:   gender,
		Balance:  balance,
		Admin:    *req.Role == model.RoleAdmin,
	}
	if err := us.users.Create(ctx, u); err != nil {
		return dto.UserDto{}, err
	}

	log.Info("user registered", "user_id", u.ID, "role", u.Role, "balance", u.Balance)
	return toUserDto(u), nil
}

func (us *UsersService) Get(ctx context.Context, id string) (dto.UserDto, error) {
	u, err := us.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserDto{}, err
	}
	return toUserDto(u), nil
}

func toUserDto(u model.User) dto.UserDto {
	return dto.UserDto{
		UserId:        u.ID,
		Username:      u.Username,
		Role:          u.Role,
		Gender:        u.Gender,
		Balance:       u.Balance,
		RatingAverage: u.RatingAverage(),
		RatingsCount:  len(u.Ratings),
	}
}

func validateRegistration(req dto.RegisterUserDto) error {
	if req.UserId == nil || *req.UserId == "" {
		return fmt.Errorf("%w: user_id is required", myerrors.ErrInvalidInput)
	}
	if req.Username == nil || *req.Username == "" {
		return fmt.Errorf("%w: username is required", myerrors.ErrInvalidInput)
	}
	if req.Role == nil || !AllowedRoles[*req.Role] {
		return fmt.Errorf("%w: unknown role", myerrors.ErrInvalidInput)
	}
	// Admins carry no gender; drivers and passengers must declare one.
	if *req.Role != model.RoleAdmin {
		if req.Gender == nil || !AllowedGenders[*req.Gender] {
			return fmt.Errorf("%w: unknown gender", myerrors.ErrInvalidInput)
		}
	}
	return nil
}
