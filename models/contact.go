package models

// EmailType classifies an email address on a contact
type EmailType string

// EmailTypeUnknown is used while the provider's email typing is not mapped
const EmailTypeUnknown EmailType = "unknown"

// EmailAddress represents a single email entry of a contact
type EmailAddress struct {
	EmailAddress string    `json:"email_address"`
	Type         EmailType `json:"type"`
}

// PhoneNumber represents a single phone entry of a contact.
// Both fields are nil when the feed omitted the matching attribute.
type PhoneNumber struct {
	PhoneNumber *string `json:"phone_number"`
	Type        *string `json:"type"`
}

// Contact represents a normalized address-book entry
type Contact struct {
	ID             *string        `json:"id"`
	FullName       string         `json:"full_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	PhoneNumbers   []PhoneNumber  `json:"phone_numbers"`
}

// NewContact returns an empty contact with non-nil slices so it serializes as [] instead of null
func NewContact() Contact {
	return Contact{
		EmailAddresses: []EmailAddress{},
		PhoneNumbers:   []PhoneNumber{},
	}
}

// HasName reports whether the contact may be emitted
func (c Contact) HasName() bool {
	return c.FullName != ""
}
