package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/blogem/contact-importer/middleware"
)

// NewRouter configures all routes
func NewRouter(ctrl *Controllers, logger glog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second)) // covers token exchange plus feed download

	r.Get("/login", ctrl.Auth.Login)
	r.Get("/callback", ctrl.Auth.Callback)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "contact-importer"}`)
	})

	r.Route("/imports", func(r chi.Router) {
		r.Get("/latest", ctrl.Imports.Latest)
		r.Get("/{id}", ctrl.Imports.Show)
	})

	return r
}
