package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blogem/contact-importer/models"
)

// ErrImportNotFound is returned when no import run matches the lookup
var ErrImportNotFound = errors.New("import not found")

// ImportRun describes one stored import snapshot
type ImportRun struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	ImportedAt   time.Time `json:"imported_at"`
	ContactCount int       `json:"contact_count"`
}

// ContactRepository defines snapshot storage for imported contacts
type ContactRepository interface {
	SaveImport(ctx context.Context, contacts []models.Contact) (*ImportRun, error)
	GetImport(ctx context.Context, id int64) (*ImportRun, error)
	GetContacts(ctx context.Context, importID int64) ([]models.Contact, error)
	LatestImport(ctx context.Context) (*ImportRun, error)
}

// contactRepository implements ContactRepository on SQLite
type contactRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db, now: time.Now}
}

// SaveImport stores the contacts of one import run in a single transaction
func (r *contactRepository) SaveImport(ctx context.Context, contacts []models.Contact) (*ImportRun, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	run := &ImportRun{
		RunID:        uuid.NewString(),
		ImportedAt:   r.now().UTC(),
		ContactCount: len(contacts),
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO imports (run_id, imported_at, contact_count) VALUES (?, ?, ?)`,
		run.RunID, run.ImportedAt, run.ContactCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create import: %w", err)
	}
	if run.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}

	for position, contact := range contacts {
		if err := insertContact(ctx, tx, run.ID, position, contact); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	return run, nil
}

func insertContact(ctx context.Context, tx *sql.Tx, importID int64, position int, contact models.Contact) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO contacts (import_id, position, external_id, full_name) VALUES (?, ?, ?, ?)`,
		importID, position, nullString(contact.ID), contact.FullName,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	contactID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	for i, email := range contact.EmailAddresses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO contact_emails (contact_id, position, email_address, type) VALUES (?, ?, ?, ?)`,
			contactID, i, email.EmailAddress, string(email.Type),
		)
		if err != nil {
			return fmt.Errorf("failed to create contact email: %w", err)
		}
	}

	for i, phone := range contact.PhoneNumbers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO contact_phones (contact_id, position, phone_number, type) VALUES (?, ?, ?, ?)`,
			contactID, i, nullString(phone.PhoneNumber), nullString(phone.Type),
		)
		if err != nil {
			return fmt.Errorf("failed to create contact phone: %w", err)
		}
	}

	return nil
}

// GetImport retrieves an import run by ID
func (r *contactRepository) GetImport(ctx context.Context, id int64) (*ImportRun, error) {
	query := `SELECT id, run_id, imported_at, contact_count FROM imports WHERE id = ?`

	var run ImportRun
	err := r.db.QueryRowContext(ctx, query, id).Scan(&run.ID, &run.RunID, &run.ImportedAt, &run.ContactCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import with ID %d: %w", id, ErrImportNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import: %w", err)
	}

	return &run, nil
}

// LatestImport retrieves the most recent import run
func (r *contactRepository) LatestImport(ctx context.Context) (*ImportRun, error) {
	query := `SELECT id, run_id, imported_at, contact_count FROM imports ORDER BY id DESC LIMIT 1`

	var run ImportRun
	err := r.db.QueryRowContext(ctx, query).Scan(&run.ID, &run.RunID, &run.ImportedAt, &run.ContactCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest import: %w", err)
	}

	return &run, nil
}

// GetContacts retrieves the contacts of an import run in their original order
func (r *contactRepository) GetContacts(ctx context.Context, importID int64) ([]models.Contact, error) {
	query := `
		SELECT id, external_id, full_name
		FROM contacts
		WHERE import_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	contacts := []models.Contact{}
	for rows.Next() {
		var rowID int64
		var externalID sql.NullString
		contact := models.NewContact()

		if err := rows.Scan(&rowID, &externalID, &contact.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		if externalID.Valid {
			contact.ID = &externalID.String
		}

		ids = append(ids, rowID)
		contacts = append(contacts, contact)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	rows.Close()

	for i, rowID := range ids {
		if contacts[i].EmailAddresses, err = r.getEmails(ctx, rowID); err != nil {
			return nil, err
		}
		if contacts[i].PhoneNumbers, err = r.getPhones(ctx, rowID); err != nil {
			return nil, err
		}
	}

	return contacts, nil
}

func (r *contactRepository) getEmails(ctx context.Context, contactID int64) ([]models.EmailAddress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email_address, type FROM contact_emails WHERE contact_id = ? ORDER BY position ASC`,
		contactID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact emails: %w", err)
	}
	defer rows.Close()

	emails := []models.EmailAddress{}
	for rows.Next() {
		var email models.EmailAddress
		var emailType string
		if err := rows.Scan(&email.EmailAddress, &emailType); err != nil {
			return nil, fmt.Errorf("failed to scan contact email: %w", err)
		}
		email.Type = models.EmailType(emailType)
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

func (r *contactRepository) getPhones(ctx context.Context, contactID int64) ([]models.PhoneNumber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT phone_number, type FROM contact_phones WHERE contact_id = ? ORDER BY position ASC`,
		contactID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact phones: %w", err)
	}
	defer rows.Close()

	phones := []models.PhoneNumber{}
	for rows.Next() {
		var number, phoneType sql.NullString
		if err := rows.Scan(&number, &phoneType); err != nil {
			return nil, fmt.Errorf("failed to scan contact phone: %w", err)
		}
		// Convert NULL values to nil
		var phone models.PhoneNumber
		if number.Valid {
			phone.PhoneNumber = &number.String
		}
		if phoneType.Valid {
			phone.Type = &phoneType.String
		}
		phones = append(phones, phone)
	}

	return phones, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
