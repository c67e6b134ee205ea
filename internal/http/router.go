package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nrchamb/QBDTestTool/internal/http/maintenance"
	"github.com/nrchamb/QBDTestTool/internal/http/monitor"
	"github.com/nrchamb/QBDTestTool/internal/http/session"
	"github.com/nrchamb/QBDTestTool/internal/http/state"
	"github.com/nrchamb/QBDTestTool/internal/http/verify"
)

func New(
	stateV1 *state.Handler,
	sessionV1 *session.Handler,
	verifyV1 *verify.Handler,
	maintenanceV1 *maintenance.Handler,
	monitorV1 *monitor.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/state", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			stateV1.Routes(r)
		})

		r.Route("/session", sessionV1.Routes)

		r.Route("/verify", verifyV1.Routes)

		r.Route("/maintenance", maintenanceV1.Routes)

		r.Route("/monitor", monitorV1.Routes)
	})

	return router
}
