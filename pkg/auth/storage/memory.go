package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStorage implements in-memory credential storage.
// This storage is ephemeral and the credential is lost when the process exits.
type MemoryStorage struct {
	mu   sync.RWMutex
	cred *Credential
}

// NewMemoryStorage creates a new in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Save saves a credential to memory.
func (m *MemoryStorage) Save(ctx context.Context, cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("credential is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Create a copy to avoid external modifications
	credCopy := *cred
	m.cred = &credCopy
	return nil
}

// Load loads a credential from memory.
func (m *MemoryStorage) Load(ctx context.Context) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cred == nil {
		return nil, fmt.Errorf("credential not found in memory")
	}

	credCopy := *m.cred
	return &credCopy, nil
}

// Delete deletes the credential from memory.
func (m *MemoryStorage) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cred = nil
	return nil
}
