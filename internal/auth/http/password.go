package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lanternsec/lantern/internal/auth/service"
	"github.com/lanternsec/lantern/pkg/authapi"
	"github.com/lanternsec/lantern/pkg/httpx"
	"github.com/lanternsec/lantern/pkg/slogx"
)

// ChangePasswordHandler serves POST /v1/password. The current password must
// be re-verified; strength policy for the new one is a caller concern.
type ChangePasswordHandler struct {
	UserService *service.UserService
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req authapi.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.CurrentPassword == "" || req.NewPassword == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.UserService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authapi.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("failed to change password", "user_id", userID, "err", err)
		authapi.ErrServiceUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.SuccessResponse{
		Message: "Password changed",
	})
}
