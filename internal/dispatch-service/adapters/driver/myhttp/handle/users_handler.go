package handle

import (
	"encoding/json"
	"net/http"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

type UsersHandler struct {
	usersService ports.IUsersService
	adminService ports.IAdminService
	log          mylogger.Logger
}

func NewUsersHandler(us ports.IUsersService, as ports.IAdminService, log mylogger.Logger) *UsersHandler {
	return &UsersHandler{
		usersService: us,
		adminService: as,
		log:          log,
	}
}

func (uh *UsersHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.RegisterUserDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		// Admin enrollment is gated by the shared secret.
		if req.Role != nil && *req.Role == model.RoleAdmin {
			if req.Secret == nil || !uh.adminService.VerifySecret(*req.Secret) {
				JsonError(w, http.StatusForbidden, myerrors.ErrNotAuthorized)
				return
			}
		}

		res, err := uh.usersService.Register(r.Context(), req)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (uh *UsersHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId := r.PathValue("user_id")

		res, err := uh.usersService.Get(r.Context(), userId)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
