package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/service"
	"github.com/lanternsec/lantern/pkg/authapi"
	"github.com/lanternsec/lantern/pkg/httpx"
	"github.com/lanternsec/lantern/pkg/slogx"
)

// LoginHandler serves POST /v1/login. Accepts a JSON body with username,
// password, and an optional TOTP code.
type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	origin := httpx.ClientOrigin(r)

	token, err := h.AuthService.Authenticate(ctx, domain.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		TOTPCode: req.TOTPCode,
	}, origin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			authapi.ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, service.ErrTwoFactorRequired):
			authapi.ErrTwoFactorRequired.WriteError(w)
		case errors.Is(err, service.ErrInvalidTwoFactorCode):
			authapi.ErrInvalidTwoFactorCode.WriteError(w)
		default:
			log.Error("login failed", "username", req.Username, "err", err)
			authapi.ErrServiceUnavailable.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.TokenResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(token.ExpiresIn.Seconds()),
	})
}
