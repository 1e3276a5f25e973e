package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "studyhub"
	user    = "record-store"
)

var (
	// ErrNotFound is returned when no connection string is stored.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable wraps any other keyring failure.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString returns the remote record store connection string.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(service, user, connStr); err != nil {
		return fmt.Errorf("store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	if err := keyring.Delete(service, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete credentials from keyring: %w", err)
	}
	return nil
}
