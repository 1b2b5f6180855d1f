package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	dErrors "linkshelf/pkg/domain-errors"
)

// HashPassword creates a bcrypt hash suitable for the admin password setting.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Credentials is the single admin identity.
type Credentials struct {
	email        string
	passwordHash []byte
}

// NewCredentials accepts either a bcrypt hash or a plaintext password. The
// hash wins when both are set.
func NewCredentials(email, password, passwordHash string) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("admin email is required")
	}
	if passwordHash == "" {
		hashed, err := HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("admin password: %w", err)
		}
		passwordHash = hashed
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &Credentials{email: email, passwordHash: []byte(passwordHash)}, nil
}

// Check reports whether email and password match. The email comparison runs
// in constant time and the hash is always checked.
func (c *Credentials) Check(email, password string) bool {
	given := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(given), []byte(c.email)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
	return emailOK && passwordOK
}
