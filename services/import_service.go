package services

import (
	"context"
	"fmt"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/blogem/contact-importer/authenticator"
	"github.com/blogem/contact-importer/logging"
	"github.com/blogem/contact-importer/models"
	"github.com/blogem/contact-importer/repositories"
)

// ContactSource fetches and normalizes a user's contacts
type ContactSource interface {
	ImportContacts(ctx context.Context, token models.AccessToken) ([]models.Contact, error)
}

// ImportResult is the outcome of an import
type ImportResult struct {
	Contacts []models.Contact         `json:"contacts"`
	Import   *repositories.ImportRun `json:"import,omitempty"`
}

// ImportService interface defines the contact import flow
type ImportService interface {
	AuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) (models.AccessToken, error)
	Import(ctx context.Context, token models.AccessToken) (*ImportResult, error)
	CompleteImport(ctx context.Context, code string) (*ImportResult, error)
}

// importService implements ImportService interface
type importService struct {
	auth   authenticator.Provider
	source ContactSource
	store  repositories.ContactRepository
	logger glog.Logger
}

// NewImportService creates a new import service. store may be nil.
func NewImportService(auth authenticator.Provider, source ContactSource, store repositories.ContactRepository, logger glog.Logger) ImportService {
	return &importService{
		auth:   auth,
		source: source,
		store:  store,
		logger: logging.Resolve(logger),
	}
}

// AuthorizationURL returns the provider consent URL
func (s *importService) AuthorizationURL() string {
	return s.auth.GetAuthURL()
}

// ExchangeCode trades an authorization code for an access token
func (s *importService) ExchangeCode(ctx context.Context, code string) (models.AccessToken, error) {
	logger := s.logger.WithContext(ctx)

	token, err := s.auth.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("token exchange failed", "error", err)
		return "", err
	}

	logger.Debug("token exchange succeeded")
	return token, nil
}

// Import fetches and normalizes the contacts of the token's owner, storing a snapshot when a store is configured
func (s *importService) Import(ctx context.Context, token models.AccessToken) (*ImportResult, error) {
	logger := s.logger.WithContext(ctx)
	started := time.Now()

	contacts, err := s.source.ImportContacts(ctx, token)
	if err != nil {
		logger.Error("contact import failed", "error", err)
		return nil, err
	}

	result := &ImportResult{Contacts: contacts}
	logger.Info("contacts imported", "count", len(contacts), "duration", time.Since(started))

	if s.store == nil {
		return result, nil
	}

	run, err := s.store.SaveImport(ctx, contacts)
	if err != nil {
		logger.Error("failed to store import snapshot", "error", err)
		return nil, fmt.Errorf("failed to store import snapshot: %w", err)
	}
	result.Import = run
	logger.Debug("import snapshot stored", "import_id", run.ID)

	return result, nil
}

// CompleteImport exchanges the code and imports the contacts in one call
func (s *importService) CompleteImport(ctx context.Context, code string) (*ImportResult, error) {
	token, err := s.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, token)
}
