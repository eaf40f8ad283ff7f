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

// TwoFactorHandler handles the TOTP lifecycle endpoints.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandleSetup handles POST /v1/2fa/setup. Returns a fresh secret and
// provisioning URI; a repeat call before enabling replaces the pending
// secret.
func (h *TwoFactorHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	setup, err := h.TwoFactorService.Setup(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrTwoFactorAlreadyEnabled) {
			authapi.ErrTwoFactorAlreadyEnabled.WriteError(w)
			return
		}
		log.Error("failed to provision TOTP", "user_id", userID, "err", err)
		authapi.ErrServiceUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.TOTPSetupResponse{
		Secret: setup.Secret,
		URI:    setup.URI,
	})
}

// HandleEnable handles POST /v1/2fa/enable. Verifies the submitted code
// against the pending secret and turns two-factor login on.
func (h *TwoFactorHandler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req authapi.TOTPEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TwoFactorService.Enable(ctx, userID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTwoFactorCode):
			authapi.ErrInvalidTwoFactorCode.WriteError(w)
		case errors.Is(err, service.ErrTwoFactorAlreadyEnabled):
			authapi.ErrTwoFactorAlreadyEnabled.WriteError(w)
		case errors.Is(err, service.ErrTwoFactorNotProvisioned):
			authapi.ErrTwoFactorNotProvisioned.WriteError(w)
		default:
			log.Error("failed to enable 2FA", "user_id", userID, "err", err)
			authapi.ErrServiceUnavailable.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.SuccessResponse{
		Message: "Two-factor authentication enabled",
	})
}

// HandleDisable handles POST /v1/2fa/disable. Requires the account password
// so a hijacked session cannot silently strip the second factor.
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req authapi.TOTPDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TwoFactorService.Disable(ctx, userID, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authapi.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("failed to disable 2FA", "user_id", userID, "err", err)
		authapi.ErrServiceUnavailable.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.SuccessResponse{
		Message: "Two-factor authentication disabled",
	})
}
