package controllers

import (
	"net/http"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/blogem/contact-importer/services"
)

// AuthController drives the authorization-code flow
type AuthController struct {
	service services.ImportService
	logger  glog.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(service services.ImportService, logger glog.Logger) *AuthController {
	return &AuthController{
		service: service,
		logger:  logger,
	}
}

// Login redirects to the provider consent page
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, ac.service.AuthorizationURL(), http.StatusTemporaryRedirect)
}

// Callback handles the redirect back from the provider and returns the imported contacts
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// The provider reports a denied consent through the error parameter
	if reason := query.Get("error"); reason != "" {
		ac.logger.WithContext(r.Context()).Warn("authorization denied", "reason", reason)
		renderJSON(w, http.StatusBadRequest, errorResponse{Error: "authorization denied: " + reason})
		return
	}

	code := query.Get("code")
	if code == "" {
		renderJSON(w, http.StatusBadRequest, errorResponse{Error: "missing authorization code"})
		return
	}

	result, err := ac.service.CompleteImport(r.Context(), code)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}
