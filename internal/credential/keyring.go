package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/project-dashboard/internal/api"
)

const serviceName = "projectdashboard"

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// ErrNoToken is returned when no access token has been stored.
var ErrNoToken = errors.New("not logged in")

// Keyring stores credentials in the system keyring.
type Keyring struct {
	ring keyring.Keyring
}

// Open returns a Keyring backed by the first available system backend.
// fileDir is used by the encrypted file fallback.
func Open(fileDir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("projectdashboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return New(ring), nil
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// Get retrieves a credential value by key.
func (k *Keyring) Get(key string) (string, error) {
	item, err := k.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func (k *Keyring) Set(key string, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key. Deleting a missing key is not an error.
func (k *Keyring) Delete(key string) error {
	err := k.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// SaveToken stores both halves of a login token.
func (k *Keyring) SaveToken(token api.Token) error {
	if err := k.Set(accessTokenKey, token.Access); err != nil {
		return err
	}
	if token.Refresh == "" {
		return k.Delete(refreshTokenKey)
	}
	return k.Set(refreshTokenKey, token.Refresh)
}

// LoadToken returns the stored token, or ErrNoToken if none is saved.
func (k *Keyring) LoadToken() (*api.Token, error) {
	access, err := k.Get(accessTokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}

	refresh, err := k.Get(refreshTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, err
	}

	return &api.Token{Access: access, Refresh: refresh}, nil
}

// ClearToken removes any stored token.
func (k *Keyring) ClearToken() error {
	if err := k.Delete(accessTokenKey); err != nil {
		return err
	}
	return k.Delete(refreshTokenKey)
}
