package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_RoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.Error(t, err)

	cred := &Credential{Session: "sess-abc", Email: "me@example.com", CreatedAt: time.Now()}
	require.NoError(t, s.Save(ctx, cred))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-abc", got.Session)
	assert.Equal(t, "me@example.com", got.Email)

	// Returned value is a copy.
	got.Session = "mutated"
	reloaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-abc", reloaded.Session)

	require.NoError(t, s.Delete(ctx))
	_, err = s.Load(ctx)
	assert.Error(t, err)
}

func TestMemoryStorage_NilCredential(t *testing.T) {
	s := NewMemoryStorage()
	assert.Error(t, s.Save(context.Background(), nil))
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.json")
	s, err := NewFileStorage(&Config{Type: TypeFile, Path: path}, "sitectl")
	require.NoError(t, err)
	ctx := context.Background()

	cred := &Credential{Session: "sess-file", Email: "me@example.com"}
	require.NoError(t, s.Save(ctx, cred))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-file", got.Session)

	require.NoError(t, s.Delete(ctx))
	_, err = s.Load(ctx)
	assert.Error(t, err)

	// Deleting a missing file is not an error.
	assert.NoError(t, s.Delete(ctx))
}

func TestFileStorage_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "credential.json")
	s, err := NewFileStorage(&Config{Type: TypeFile, Path: path}, "sitectl")
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), &Credential{Session: "x"}))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", got.Session)
}

func TestNew_Factory(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"memory", &Config{Type: TypeMemory}, false},
		{"file", &Config{Type: TypeFile, Path: filepath.Join(t.TempDir(), "c.json")}, false},
		{"keyring", &Config{Type: TypeKeyring, KeyringService: "sitectl-test"}, false},
		{"unknown", &Config{Type: "vault"}, true},
		{"nil config", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.config, "sitectl")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}
