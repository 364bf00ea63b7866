package models

import "errors"

// Credentials holds the OAuth client registration used for every request
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Validate checks that every credential field is present
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return errors.New("client ID is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client secret is required")
	}
	if c.RedirectURL == "" {
		return errors.New("redirect URL is required")
	}
	return nil
}

// AccessToken is the opaque bearer credential returned by the token endpoint
type AccessToken string

func (t AccessToken) String() string {
	return string(t)
}
