package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"

	websocketdto "taxi-dispatch/internal/dispatch-service/core/domain/websocket_dto"
)

type AdminService struct {
	mylog      mylogger.Logger
	users      ports.IUserRepo
	notify     ports.INotifyWebsocket
	secretHash []byte
}

func NewAdminService(mylog mylogger.Logger, users ports.IUserRepo, notify ports.INotifyWebsocket, secretHash string) ports.IAdminService {
	return &AdminService{
		mylog:      mylog,
		users:      users,
		notify:     notify,
		secretHash: []byte(secretHash),
	}
}

// VerifySecret checks an enrollment secret against the bcrypt hash from
// config. The plaintext is never stored.
func (as *AdminService) VerifySecret(secret string) bool {
	return bcrypt.CompareHashAndPassword(as.secretHash, []byte(secret)) == nil
}

func (as *AdminService) AdjustBalance(ctx context.Context, adminID, username string, delta float64) (dto.AdminBalanceResponseDto, error) {
	log := as.mylog.Action("AdminAdjustBalance")

	if err := as.requireAdmin(ctx, adminID); err != nil {
		return dto.AdminBalanceResponseDto{}, err
	}

	target, err := as.users.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return dto.AdminBalanceResponseDto{}, err
	}

	newBalance, err := as.users.AdjustBalance(ctx, target.ID, delta)
	if err != nil {
		return dto.AdminBalanceResponseDto{}, err
	}
	log.Info("balance adjusted", "admin_id", adminID, "username", target.Username, "delta", delta, "new_balance", newBalance)

	if as.notify != nil {
		as.notify.WriteToUser(target.ID, websocketdto.Marshal(websocketdto.TypeBalanceAdjusted, websocketdto.BalanceAdjusted{
			Delta:      delta,
			NewBalance: newBalance,
		}))
	}

	return dto.AdminBalanceResponseDto{Username: target.Username, NewBalance: newBalance}, nil
}

func (as *AdminService) ShowUser(ctx context.Context, adminID, username string) (dto.AdminUserViewDto, error) {
	if err := as.requireAdmin(ctx, adminID); err != nil {
		return dto.AdminUserViewDto{}, err
	}

	u, err := as.users.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return dto.AdminUserViewDto{}, err
	}

	return dto.AdminUserViewDto{
		Username:      u.Username,
		Role:          u.Role,
		Gender:        u.Gender,
		Balance:       u.Balance,
		RatingDisplay: FormatAverage(u.RatingAverage()),
	}, nil
}

func (as *AdminService) requireAdmin(ctx context.Context, adminID string) error {
	u, err := as.users.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !u.Admin {
		return myerrors.ErrNotAuthorized
	}
	return nil
}

// NormalizeUsername strips the @ prefix and folds case, matching how the
// conversational layer hands usernames over.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
