package http

import (
	"net/http"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/service"
	"github.com/lanternsec/lantern/pkg/authapi"
	"github.com/lanternsec/lantern/pkg/httpx"
	"github.com/lanternsec/lantern/pkg/slogx"
)

// MeHandler serves GET /v1/me for the authenticated user. The password hash
// never leaves the core; authapi.UserResponse has no field for it.
type MeHandler struct {
	UserService *service.UserService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		authapi.ErrServiceUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		TOTPEnabled: user.TOTPState() == domain.TOTPEnabled,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}
