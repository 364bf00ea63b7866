package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/contact-importer/repositories"
)

// ImportsController exposes stored import snapshots
type ImportsController struct {
	store repositories.ContactRepository
}

// NewImportsController creates a new imports controller; store may be nil
func NewImportsController(store repositories.ContactRepository) *ImportsController {
	return &ImportsController{store: store}
}

type importSnapshot struct {
	Import   *repositories.ImportRun `json:"import"`
	Contacts interface{}             `json:"contacts"`
}

// Latest handles GET /imports/latest
func (c *ImportsController) Latest(w http.ResponseWriter, r *http.Request) {
	if c.store == nil {
		renderJSON(w, http.StatusNotFound, errorResponse{Error: "snapshot storage is not configured"})
		return
	}

	run, err := c.store.LatestImport(r.Context())
	if err != nil {
		renderLookupError(w, err)
		return
	}

	c.render(w, r, run)
}

// Show handles GET /imports/{id}
func (c *ImportsController) Show(w http.ResponseWriter, r *http.Request) {
	if c.store == nil {
		renderJSON(w, http.StatusNotFound, errorResponse{Error: "snapshot storage is not configured"})
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		renderJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid import ID"})
		return
	}

	run, err := c.store.GetImport(r.Context(), id)
	if err != nil {
		renderLookupError(w, err)
		return
	}

	c.render(w, r, run)
}

func renderLookupError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, repositories.ErrImportNotFound) {
		status = http.StatusNotFound
	}
	renderJSON(w, status, errorResponse{Error: err.Error()})
}

func (c *ImportsController) render(w http.ResponseWriter, r *http.Request, run *repositories.ImportRun) {
	contacts, err := c.store.GetContacts(r.Context(), run.ID)
	if err != nil {
		renderJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	renderJSON(w, http.StatusOK, importSnapshot{Import: run, Contacts: contacts})
}
