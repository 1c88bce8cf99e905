package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pulse/internal/auth"
	"github.com/MrJamesThe3rd/pulse/internal/http/call"
	"github.com/MrJamesThe3rd/pulse/internal/http/dashboard"
	"github.com/MrJamesThe3rd/pulse/internal/http/export"
	"github.com/MrJamesThe3rd/pulse/internal/http/goal"
	"github.com/MrJamesThe3rd/pulse/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pulse/internal/http/insight"
	"github.com/MrJamesThe3rd/pulse/internal/http/sale"
)

type Handlers struct {
	Dashboard *dashboard.Handler
	Sales     *sale.Handler
	Goals     *goal.Handler
	Calls     *call.Handler
	Insights  *insight.Handler
	Import    *importcsv.Handler
	Export    *export.Handler
}

func New(h Handlers, authenticator *auth.Authenticator, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Middleware)

		r.Route("/dashboard", h.Dashboard.Routes)

		r.Route("/sales", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Sales.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Goals.Routes(r)
		})

		r.Route("/calls", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Calls.Routes(r)
		})

		r.Route("/insights", h.Insights.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
