package sessions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlashesAreOneShot(t *testing.T) {
	s := &Session{}
	require.False(t, s.Changed())

	s.SetError("first")
	s.SetError("second")
	require.Equal(t, "second", s.PeekError(), "last write wins")
	require.Equal(t, "second", s.PopError())
	require.Empty(t, s.PopError())

	s.SetSuccess("ok")
	require.Equal(t, "ok", s.PeekSuccess())
	require.Equal(t, "ok", s.PopSuccess())
	require.Empty(t, s.PeekSuccess())
	require.True(t, s.Changed())
}

func TestPopOnCleanSessionIsNotAChange(t *testing.T) {
	s := &Session{Username: "admin"}
	require.Empty(t, s.PopError())
	require.Empty(t, s.PopSuccess())
	require.False(t, s.Changed())
}

func TestSignInSignOut(t *testing.T) {
	s := &Session{}
	require.False(t, s.IsAuthenticated())
	require.True(t, s.Empty())

	s.SignIn("admin")
	require.True(t, s.IsAuthenticated())
	require.False(t, s.Empty())

	s.SignOut()
	require.False(t, s.IsAuthenticated())
	require.True(t, s.Empty())
}
