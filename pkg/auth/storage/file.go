package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// FileStorage implements file-based credential storage.
type FileStorage struct {
	path string
}

// NewFileStorage creates a new file-based storage.
func NewFileStorage(config *Config, appName string) (*FileStorage, error) {
	path := config.Path
	if path == "" {
		// Use XDG-compliant default path
		stateDir := filepath.Join(xdg.StateHome, appName)
		path = filepath.Join(stateDir, "credential.json")
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	return &FileStorage{
		path: path,
	}, nil
}

// Save saves a credential to a file.
func (f *FileStorage) Save(ctx context.Context, cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("credential is nil")
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	// Write to file with restricted permissions
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	return nil
}

// Load loads a credential from a file.
func (f *FileStorage) Load(ctx context.Context) (*Credential, error) {
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("credential file not found")
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return &cred, nil
}

// Delete deletes the credential file.
func (f *FileStorage) Delete(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

// Path returns the path to the credential file.
func (f *FileStorage) Path() string {
	return f.path
}
