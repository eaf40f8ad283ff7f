package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddlewareEnforcesLimit(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	handler := Chain(okHandler(), RateLimitMiddleware(cfg, IPKeyExtractor))

	do := func() int {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusOK, do())

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
	require.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitMiddlewareSeparateBuckets(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	handler := Chain(okHandler(), RateLimitMiddleware(cfg, IPKeyExtractor))

	do := func(addr string) int {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do("192.0.2.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, do("192.0.2.1:1234"))
	require.Equal(t, http.StatusOK, do("192.0.2.2:1234"))
}

func TestRateLimitByUserKeying(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	handler := Chain(okHandler(), RateLimitByUser(cfg))

	do := func(userID, addr string) int {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = addr
		if userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), CtxKeyUserID, userID))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	// Same user from the same address shares a bucket.
	require.Equal(t, http.StatusOK, do("user-a", "192.0.2.1:1"))
	require.Equal(t, http.StatusTooManyRequests, do("user-a", "192.0.2.1:2"))

	// A different user from the same address gets its own bucket.
	require.Equal(t, http.StatusOK, do("user-b", "192.0.2.1:1"))

	// Unauthenticated requests bucket by address alone.
	require.Equal(t, http.StatusOK, do("", "192.0.2.50:1"))
	require.Equal(t, http.StatusTooManyRequests, do("", "192.0.2.50:2"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(okHandler(), mw("first"), mw("second"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	require.Equal(t, []string{"first", "second"}, order)
}
