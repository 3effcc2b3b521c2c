package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/timepulse/internal/http/directory"
	"github.com/MrJamesThe3rd/timepulse/internal/http/invoice"
	tpmiddleware "github.com/MrJamesThe3rd/timepulse/internal/http/middleware"
	"github.com/MrJamesThe3rd/timepulse/internal/http/timesheet"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

func New(
	opts Options,
	timesheetsV1 *timesheet.Handler,
	invoicesV1 *invoice.Handler,
	directoryV1 *directory.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(tpmiddleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/public/invoices", invoicesV1.PublicRoutes)

		r.Group(func(r chi.Router) {
			r.Use(tpmiddleware.Auth(opts.JWTSecret))
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/timesheets", timesheetsV1.Routes)
			r.Route("/invoices", invoicesV1.Routes)
			r.Route("/employees", directoryV1.EmployeeRoutes)
			r.Route("/clients", directoryV1.ClientRoutes)
			r.Route("/vendors", directoryV1.VendorRoutes)
			r.Route("/partners", directoryV1.PartnerRoutes)
		})
	})

	return router
}
