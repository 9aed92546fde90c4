// Package api wires the HTTP tier's chi router.
package api

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/userhub/internal/common"
	"github.com/dmitrijs2005/userhub/internal/server/api/handler"
	"github.com/dmitrijs2005/userhub/internal/server/api/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig controls route protection. TokenAuth must be set when
// RequireAuth is true.
type RouterConfig struct {
	RequireAuth    bool
	TokenAuth      *jwtauth.JWTAuth
	RequestTimeout time.Duration
}

func NewRouter(users *handler.UserHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(public chi.Router) {
		if cfg.RequireAuth {
			// no rejection here; register reads the caller's role when a token is present
			public.Use(jwtauth.Verifier(cfg.TokenAuth))
		}
		users.RegisterPublicRoutes(public)
	})

	r.Group(func(protected chi.Router) {
		if cfg.RequireAuth {
			protected.Use(jwtauth.Verifier(cfg.TokenAuth))
			protected.Use(middleware.Authenticator)
		}
		users.RegisterUserRoutes(protected)

		protected.Group(func(admin chi.Router) {
			if cfg.RequireAuth {
				admin.Use(middleware.AdminOnly)
			}
			users.RegisterAdminRoutes(admin)
		})
	})

	return r
}
