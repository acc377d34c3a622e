package middleware

import (
	"net/http"
	"time"

	"github.com/taskboard/taskboard-api/internal/api/shared"
)

// AccessTokenCookie is the name of the cookie carrying the auth token.
const AccessTokenCookie = "ACCESS_TOKEN"

// CookieConfig controls the attributes of the auth cookie.
type CookieConfig struct {
	// TTL becomes the cookie's Max-Age; it matches the token lifetime.
	TTL time.Duration

	// Secure toggles the Secure attribute. Off only for plain-HTTP
	// local development.
	Secure bool
}

// AuthCookie installs a TokenCarrier into every request's context and,
// when the login path deposits a freshly issued token there, appends a
// Set-Cookie header for it just before the first byte of the response is
// written. The side effect is strictly additive: the response body is
// never touched.
//
// The carrier is cleared on every exit path, including panics unwinding
// through this middleware, so an issued token can never survive into a
// pooled connection's next request. SameSite is Strict: the cookie is
// only ever sent back by the first-party frontend.
func AuthCookie(cfg CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			carrier := &shared.TokenCarrier{}
			defer carrier.Clear()

			cw := &cookieWriter{
				ResponseWriter: w,
				carrier:        carrier,
				cfg:            cfg,
			}

			ctx := shared.WithTokenCarrier(r.Context(), carrier)
			next.ServeHTTP(cw, r.WithContext(ctx))
		})
	}
}

// BuildAuthCookie builds the ACCESS_TOKEN cookie for an issued token.
func BuildAuthCookie(token string, cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearAuthCookie builds the expired ACCESS_TOKEN cookie used by logout.
func ClearAuthCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // serialized as Max-Age=0
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// cookieWriter wraps the ResponseWriter and attaches the pending token as
// a cookie at the last moment headers can still be written: immediately
// before the status line goes out.
type cookieWriter struct {
	http.ResponseWriter
	carrier     *shared.TokenCarrier
	cfg         CookieConfig
	wroteHeader bool
}

func (cw *cookieWriter) WriteHeader(status int) {
	if !cw.wroteHeader {
		cw.wroteHeader = true
		cw.attachPending()
	}
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *cookieWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

// Unwrap supports http.ResponseController.
func (cw *cookieWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// attachPending reads the carrier exactly once; if a token is pending it
// is emitted as a Set-Cookie header and the carrier is cleared.
func (cw *cookieWriter) attachPending() {
	token := cw.carrier.Get()
	if token == "" {
		return
	}
	http.SetCookie(cw.ResponseWriter, BuildAuthCookie(token, cw.cfg))
	cw.carrier.Clear()
}
