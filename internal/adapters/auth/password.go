package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"noshowblocklist/internal/domain"
)

type basicCredentials struct {
	username string
	password string
	hashed   bool
}

// NewBasicCredentials returns a CredentialChecker for webhook basic auth.
// password may be plain text or a bcrypt hash ("$2a$", "$2b$" or "$2y$" prefix).
func NewBasicCredentials(username, password string) domain.CredentialChecker {
	return &basicCredentials{
		username: username,
		password: password,
		hashed:   isBcryptHash(password),
	}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func (c *basicCredentials) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	var passOK bool
	if c.hashed {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	}
	if !userOK || !passOK {
		return fmt.Errorf("%w: bad webhook credentials", domain.ErrUnauthorized)
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for WEBHOOK_PASS.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
