package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/api/shared"
)

func testCookieConfig() middleware.CookieConfig {
	return middleware.CookieConfig{
		TTL:    6000 * time.Second,
		Secure: true,
	}
}

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthCookieAttachesDepositedToken(t *testing.T) {
	t.Parallel()

	handler := middleware.AuthCookie(testCookieConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			carrier := shared.TokenCarrierFromContext(r.Context())
			require.NotNil(t, carrier)
			carrier.Set("issued-token")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"authenticated":true}`))
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	cookie := findCookie(t, res, middleware.AccessTokenCookie)
	require.NotNil(t, cookie, "Set-Cookie must be present")
	assert.Equal(t, "issued-token", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 6000, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestAuthCookieNoTokenNoCookie(t *testing.T) {
	t.Parallel()

	handler := middleware.AuthCookie(testCookieConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	assert.Nil(t, findCookie(t, res, middleware.AccessTokenCookie))
}

func TestAuthCookieAttachesBeforeExplicitStatus(t *testing.T) {
	t.Parallel()

	// The cookie must make it out even when the handler writes a status
	// with no body at all.
	handler := middleware.AuthCookie(testCookieConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shared.TokenCarrierFromContext(r.Context()).Set("issued-token")
			w.WriteHeader(http.StatusNoContent)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	require.NotNil(t, findCookie(t, res, middleware.AccessTokenCookie))
}

func TestAuthCookieCarrierClearedAfterRequest(t *testing.T) {
	t.Parallel()

	var carrier *shared.TokenCarrier
	handler := middleware.AuthCookie(testCookieConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			carrier = shared.TokenCarrierFromContext(r.Context())
			carrier.Set("issued-token")
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	require.NotNil(t, carrier)
	assert.Empty(t, carrier.Get(), "no token may survive the request")
}

func TestAuthCookieCarrierClearedOnPanic(t *testing.T) {
	t.Parallel()

	var carrier *shared.TokenCarrier
	handler := middleware.AuthCookie(testCookieConfig())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			carrier = shared.TokenCarrierFromContext(r.Context())
			carrier.Set("issued-token")
			panic("handler blew up")
		}))

	rec := httptest.NewRecorder()
	assert.Panics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	})

	require.NotNil(t, carrier)
	assert.Empty(t, carrier.Get())
}

func TestAuthCookieNoLeakageAcrossRequests(t *testing.T) {
	t.Parallel()

	cfg := testCookieConfig()
	deposit := true
	handler := middleware.AuthCookie(cfg)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if deposit {
				shared.TokenCarrierFromContext(r.Context()).Set("issued-token")
			}
			w.WriteHeader(http.StatusOK)
		}))

	// First request deposits a token.
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	res1 := rec1.Result()
	defer func() { _ = res1.Body.Close() }()
	require.NotNil(t, findCookie(t, res1, middleware.AccessTokenCookie))

	// Second request through the same handler chain must not see it.
	deposit = false
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	res2 := rec2.Result()
	defer func() { _ = res2.Body.Close() }()
	assert.Nil(t, findCookie(t, res2, middleware.AccessTokenCookie))
}

func TestClearAuthCookie(t *testing.T) {
	t.Parallel()

	cookie := middleware.ClearAuthCookie(testCookieConfig())
	assert.Equal(t, middleware.AccessTokenCookie, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}
