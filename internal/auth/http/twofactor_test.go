package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/lanternsec/lantern/pkg/authapi"
	"github.com/lanternsec/lantern/pkg/otpx"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorLifecycleEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Secret1")
	token := env.tokenFor(t, user)
	addr := "203.0.113.1:1"

	t.Run("enable before setup", func(t *testing.T) {
		w := env.do(t, "POST", "/v1/2fa/enable", token, addr, authapi.TOTPEnableRequest{Code: "123456"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, authapi.CodeTwoFactorNotProvision, errorCode(t, w))
	})

	w := env.do(t, "POST", "/v1/2fa/setup", token, addr, nil)
	require.Equal(t, http.StatusOK, w.Code)
	setup := decodeJSON[authapi.TOTPSetupResponse](t, w)
	require.NotEmpty(t, setup.Secret)
	require.NotEmpty(t, setup.URI)

	t.Run("enable with wrong code", func(t *testing.T) {
		w := env.do(t, "POST", "/v1/2fa/enable", token, addr, authapi.TOTPEnableRequest{Code: "000000"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, authapi.CodeInvalidTwoFactorCode, errorCode(t, w))
	})

	t.Run("enable with missing code", func(t *testing.T) {
		w := env.do(t, "POST", "/v1/2fa/enable", token, addr, authapi.TOTPEnableRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("enable with valid code", func(t *testing.T) {
		code, err := otpx.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)

		w := env.do(t, "POST", "/v1/2fa/enable", token, addr, authapi.TOTPEnableRequest{Code: code})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("setup refused once enabled", func(t *testing.T) {
		w := env.do(t, "POST", "/v1/2fa/setup", token, addr, nil)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, authapi.CodeTwoFactorEnabled, errorCode(t, w))
	})

	t.Run("disable needs the password", func(t *testing.T) {
		w := env.do(t, "POST", "/v1/2fa/disable", token, addr, authapi.TOTPDisableRequest{Password: "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, authapi.CodeInvalidCredentials, errorCode(t, w))
	})

	t.Run("disable with password", func(t *testing.T) {
		w := env.do(t, "POST", "/v1/2fa/disable", token, addr, authapi.TOTPDisableRequest{Password: "Secret1"})
		require.Equal(t, http.StatusOK, w.Code)

		// Idempotent: disabling again still succeeds.
		w = env.do(t, "POST", "/v1/2fa/disable", token, addr, authapi.TOTPDisableRequest{Password: "Secret1"})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("all lifecycle endpoints require authentication", func(t *testing.T) {
		for _, path := range []string{"/v1/2fa/setup", "/v1/2fa/enable", "/v1/2fa/disable"} {
			w := env.do(t, "POST", path, "", addr, nil)
			require.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})
}
