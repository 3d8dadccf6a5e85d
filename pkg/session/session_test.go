package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_UpdatesState(t *testing.T) {
	s := New()
	s.Bind(func(ctx context.Context) (*User, error) {
		return &User{ID: "u1", Email: "me@example.com", Admin: true}, nil
	})

	require.NoError(t, s.Fetch(context.Background()))
	assert.True(t, s.LoggedIn())

	user := s.User()
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, user.Admin)
}

func TestFetch_AnonymousSession(t *testing.T) {
	s := New()
	s.Bind(func(ctx context.Context) (*User, error) {
		return nil, nil
	})

	require.NoError(t, s.Fetch(context.Background()))
	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.User())
}

func TestFetch_ErrorLeavesStateUntouched(t *testing.T) {
	s := New()
	s.Set(&User{ID: "u1"})
	s.Bind(func(ctx context.Context) (*User, error) {
		return nil, fmt.Errorf("network down")
	})

	err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, s.LoggedIn())
}

func TestFetch_Unbound(t *testing.T) {
	s := New()
	assert.Error(t, s.Fetch(context.Background()))
}

func TestClear_Idempotent(t *testing.T) {
	s := New()
	s.Set(&User{ID: "u1"})
	require.True(t, s.LoggedIn())

	s.Clear()
	s.Clear()
	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.User())
}

func TestRedirectToLogin_InvokesHook(t *testing.T) {
	calls := 0
	s := New(WithRedirect(func() { calls++ }))

	s.RedirectToLogin()
	assert.Equal(t, 1, calls)

	// No hook configured is a no-op, not a panic.
	New().RedirectToLogin()
}

func TestUser_ReturnsCopy(t *testing.T) {
	s := New()
	s.Set(&User{ID: "u1", Name: "orig"})

	u := s.User()
	u.Name = "mutated"
	assert.Equal(t, "orig", s.User().Name)
}
