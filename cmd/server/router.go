package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// routerDeps collects everything the router needs; main wires it up.
type routerDeps struct {
	userService  service.UserService
	taskService  service.TaskService
	tokenService auth.TokenService
	users        store.UserStore
	cookieCfg    middleware.CookieConfig
	logger       *slog.Logger
}

// newRouter assembles the middleware chain and routes. Order matters:
// tracing first so every later log line carries the trace ID, then the
// cookie writer so any handler's deposited token gets attached, then
// authentication.
func newRouter(deps routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace)
	r.Use(middleware.AuthCookie(deps.cookieCfg))

	authMiddleware := middleware.NewAuthMiddleware(deps.tokenService, deps.users)
	r.Use(authMiddleware.Authenticate)

	authHandler := api.NewAuthHandler(deps.userService, deps.cookieCfg, deps.logger)
	taskHandler := api.NewTaskHandler(deps.taskService, deps.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Patch("/{id}/status", taskHandler.UpdateStatus)
		r.Delete("/{id}", taskHandler.Delete)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
