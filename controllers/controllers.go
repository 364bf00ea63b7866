package controllers

import (
	"encoding/json"
	"net/http"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/blogem/contact-importer/logging"
	"github.com/blogem/contact-importer/models"
	"github.com/blogem/contact-importer/repositories"
	"github.com/blogem/contact-importer/services"
)

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// renderJSON writes data as JSON with the given status code
func renderJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
	}
}

// renderError writes err with the status carried by its envelope
func renderError(w http.ResponseWriter, err error) {
	renderJSON(w, models.StatusCode(err), errorResponse{Error: err.Error()})
}

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Imports *ImportsController
}

// NewControllers creates and initializes all controller instances.
// repos may be nil, in which case the imports routes report 404.
func NewControllers(services *services.Services, repos *repositories.Repositories, logger glog.Logger) *Controllers {
	logger = logging.Resolve(logger)

	var store repositories.ContactRepository
	if repos != nil {
		store = repos.Contacts
	}

	return &Controllers{
		Auth:    NewAuthController(services.Import, logger),
		Imports: NewImportsController(store),
	}
}
