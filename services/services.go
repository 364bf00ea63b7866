package services

import (
	glog "github.com/goliatone/go-logger/glog"

	"github.com/blogem/contact-importer/authenticator"
	"github.com/blogem/contact-importer/repositories"
)

// Services holds all service instances
type Services struct {
	Import ImportService
}

// NewServices creates and initializes all service instances.
// repos may be nil when no snapshot database is configured.
func NewServices(auth authenticator.Provider, source ContactSource, repos *repositories.Repositories, logger glog.Logger) *Services {
	var store repositories.ContactRepository
	if repos != nil {
		store = repos.Contacts
	}
	return &Services{
		Import: NewImportService(auth, source, store, logger),
	}
}
