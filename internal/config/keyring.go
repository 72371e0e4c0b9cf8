// internal/config/keyring.go
package config

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "litequery"

// SecretStore holds profile passwords outside the config file.
type SecretStore interface {
	SetPassword(profileName, password string) error
	GetPassword(profileName string) (string, error)
	DeletePassword(profileName string) error
}

// ErrNoPassword is returned when a profile has no stored password.
var ErrNoPassword = errors.New("no password stored")

// KeyringStore manages password storage in system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the OS keyring
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// NewKeyringStoreWith wraps an already opened keyring.
func NewKeyringStoreWith(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// SetPassword stores a password for a profile
func (k *KeyringStore) SetPassword(profileName, password string) error {
	return k.ring.Set(keyring.Item{
		Key:  profileName,
		Data: []byte(password),
	})
}

// GetPassword retrieves a password for a profile
func (k *KeyringStore) GetPassword(profileName string) (string, error) {
	item, err := k.ring.Get(profileName)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoPassword
	}
	if err != nil {
		return "", fmt.Errorf("keyring lookup for %s: %w", profileName, err)
	}
	return string(item.Data), nil
}

// DeletePassword removes a password for a profile
func (k *KeyringStore) DeletePassword(profileName string) error {
	err := k.ring.Remove(profileName)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

// ResolveDSN returns the connect target of the named profile with its
// password filled in from secrets. A missing password is not an error.
func (c *Config) ResolveDSN(name string, secrets SecretStore) (string, error) {
	p, err := c.GetProfile(name)
	if err != nil {
		return "", err
	}
	if p.Type == "sqlite" || secrets == nil {
		return p.DSN(""), nil
	}
	password, err := secrets.GetPassword(name)
	if err != nil && !errors.Is(err, ErrNoPassword) {
		return "", err
	}
	return p.DSN(password), nil
}
