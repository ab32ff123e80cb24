package handle

import (
	"encoding/json"
	"net/http"

	"taxi-dispatch/internal/dispatch-service/core/domain/dto"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"
	"taxi-dispatch/internal/mylogger"
)

type AdminHandler struct {
	adminService ports.IAdminService
	log          mylogger.Logger
}

func NewAdminHandler(as ports.IAdminService, log mylogger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: as,
		log:          log,
	}
}

func (ah *AdminHandler) AdjustBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminId := r.Header.Get("X-UserId")

		req := dto.AdminBalanceRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.Username == nil || req.Delta == nil {
			JsonError(w, http.StatusBadRequest, myerrors.ErrInvalidInput)
			return
		}

		res, err := ah.adminService.AdjustBalance(r.Context(), adminId, *req.Username, *req.Delta)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AdminHandler) ShowUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminId := r.Header.Get("X-UserId")
		username := r.PathValue("username")

		res, err := ah.adminService.ShowUser(r.Context(), adminId, username)
		if err != nil {
			JsonError(w, statusFromError(err), err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
