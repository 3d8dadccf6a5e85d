// Package storage persists the site session credential across CLI runs.
//
// The browser keeps the session in a cookie; a standalone client has to carry
// it explicitly. Backends: file (XDG-compliant path), OS keyring, and memory.
package storage

import (
	"context"
	"fmt"
	"time"
)

// Credential is the persisted session secret.
type Credential struct {
	// Session is the opaque session/refresh cookie value.
	Session string `json:"session"`
	// Email identifies the account the credential belongs to.
	Email string `json:"email,omitempty"`
	// CreatedAt is when the credential was stored.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CredentialStorage stores and retrieves the session credential.
type CredentialStorage interface {
	// Save stores a credential.
	Save(ctx context.Context, cred *Credential) error
	// Load retrieves the stored credential.
	Load(ctx context.Context) (*Credential, error)
	// Delete removes the stored credential.
	Delete(ctx context.Context) error
}

// Type selects the storage backend.
type Type string

const (
	// TypeFile uses file-based storage.
	TypeFile Type = "file"
	// TypeKeyring uses OS keyring storage.
	TypeKeyring Type = "keyring"
	// TypeMemory uses in-memory storage.
	TypeMemory Type = "memory"
)

// Config configures a storage backend.
type Config struct {
	// Type is the storage backend type.
	Type Type `yaml:"type" mapstructure:"type"`
	// Path is the file path for file-based storage.
	Path string `yaml:"path,omitempty" mapstructure:"path"`
	// KeyringService is the service name for keyring storage.
	KeyringService string `yaml:"keyring_service,omitempty" mapstructure:"keyring_service"`
	// KeyringUser is the user name for keyring storage.
	KeyringUser string `yaml:"keyring_user,omitempty" mapstructure:"keyring_user"`
}

// New creates a storage backend from configuration. appName scopes default
// file paths and keyring service names.
func New(config *Config, appName string) (CredentialStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	switch config.Type {
	case TypeFile:
		return NewFileStorage(config, appName)
	case TypeKeyring:
		return NewKeyringStorage(config, appName)
	case TypeMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
