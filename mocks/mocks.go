// Package mocks holds testify mocks for the importer interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blogem/contact-importer/models"
	"github.com/blogem/contact-importer/repositories"
)

// MockProvider is a mock of authenticator.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetAuthURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) ExchangeCode(ctx context.Context, code string) (models.AccessToken, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(models.AccessToken), args.Error(1)
}

// MockContactSource is a mock of services.ContactSource
type MockContactSource struct {
	mock.Mock
}

func (m *MockContactSource) ImportContacts(ctx context.Context, token models.AccessToken) ([]models.Contact, error) {
	args := m.Called(ctx, token)
	contacts, _ := args.Get(0).([]models.Contact)
	return contacts, args.Error(1)
}

// MockContactRepository is a mock of repositories.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) SaveImport(ctx context.Context, contacts []models.Contact) (*repositories.ImportRun, error) {
	args := m.Called(ctx, contacts)
	run, _ := args.Get(0).(*repositories.ImportRun)
	return run, args.Error(1)
}

func (m *MockContactRepository) GetImport(ctx context.Context, id int64) (*repositories.ImportRun, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*repositories.ImportRun)
	return run, args.Error(1)
}

func (m *MockContactRepository) GetContacts(ctx context.Context, importID int64) ([]models.Contact, error) {
	args := m.Called(ctx, importID)
	contacts, _ := args.Get(0).([]models.Contact)
	return contacts, args.Error(1)
}

func (m *MockContactRepository) LatestImport(ctx context.Context) (*repositories.ImportRun, error) {
	args := m.Called(ctx)
	run, _ := args.Get(0).(*repositories.ImportRun)
	return run, args.Error(1)
}
