package api

import (
	"log/slog"
	"net/http"

	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/service"
)

// AuthHandler serves the registration, login, and logout endpoints.
type AuthHandler struct {
	userService service.UserService
	cookieCfg   middleware.CookieConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	userService service.UserService,
	cookieCfg middleware.CookieConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		userService: userService,
		cookieCfg:   cookieCfg,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"invalid request body", CodeValidation)
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"invalid registration request", CodeValidation, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Username: user.Username,
		Message:  "User created",
	})
}

// Login handles POST /auth/login. On success the issued token is already
// deposited in the request's TokenCarrier by the service layer, so the
// cookie middleware attaches it as Set-Cookie; the body only confirms the
// authenticated username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"invalid request body", CodeValidation)
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			"invalid login request", CodeValidation, err)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), MapErrorToCode(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Username:      result.Username,
		Authenticated: result.Authenticated,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so logout only
// instructs the browser to drop the cookie. Succeeds whether or not a
// session existed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	http.SetCookie(w, middleware.ClearAuthCookie(h.cookieCfg))
	w.WriteHeader(http.StatusNoContent)

	log.Debug("logout processed")
}
