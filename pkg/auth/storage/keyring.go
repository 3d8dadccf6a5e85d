package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStorage implements OS keyring-based credential storage.
type KeyringStorage struct {
	service string
	user    string
}

// NewKeyringStorage creates a new keyring-based storage.
func NewKeyringStorage(config *Config, appName string) (*KeyringStorage, error) {
	service := config.KeyringService
	if service == "" {
		service = appName
	}
	if service == "" {
		return nil, fmt.Errorf("keyring_service is required for keyring storage")
	}

	user := config.KeyringUser
	if user == "" {
		user = "default"
	}

	return &KeyringStorage{
		service: service,
		user:    user,
	}, nil
}

// Save saves a credential to the OS keyring.
func (k *KeyringStorage) Save(ctx context.Context, cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("credential is nil")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return fmt.Errorf("failed to store credential in keyring: %w", err)
	}

	return nil
}

// Load loads a credential from the OS keyring.
func (k *KeyringStorage) Load(ctx context.Context) (*Credential, error) {
	data, err := keyring.Get(k.service, k.user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, fmt.Errorf("credential not found in keyring")
		}
		return nil, fmt.Errorf("failed to retrieve credential from keyring: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return &cred, nil
}

// Delete deletes the credential from the OS keyring.
func (k *KeyringStorage) Delete(ctx context.Context) error {
	if err := keyring.Delete(k.service, k.user); err != nil {
		if err == keyring.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete credential from keyring: %w", err)
	}
	return nil
}
