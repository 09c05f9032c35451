package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pricewatch/internal/http/alias"
	"github.com/MrJamesThe3rd/pricewatch/internal/http/auth"
	"github.com/MrJamesThe3rd/pricewatch/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pricewatch/internal/http/observation"
	"github.com/MrJamesThe3rd/pricewatch/internal/http/price"
	"github.com/MrJamesThe3rd/pricewatch/internal/http/report"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func New(
	opts Options,
	pricesV1 *price.Handler,
	observationsV1 *observation.Handler,
	importV1 *importcsv.Handler,
	aliasesV1 *alias.Handler,
	reportV1 *report.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		// Parsing stores nothing and stays open.
		r.Route("/prices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			pricesV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.WritesOnly(auth.Middleware(opts.JWTSecret)))

			r.Route("/observations", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				observationsV1.Routes(r)
			})

			r.Route("/import", importV1.Routes)

			r.Route("/aliases", func(r chi.Router) {
				aliasesV1.Routes(r)
			})

			r.Route("/report", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				reportV1.Routes(r)
			})
		})
	})

	return router
}
