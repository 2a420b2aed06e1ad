package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Empty(t, u.AssessmentID)
}

func TestUser_AwaitedView(t *testing.T) {
	u := NewUser(1, 10)
	_, ok := u.AwaitedView()
	require.False(t, ok)

	u.SetState(StateAwaitingFrontPhoto)
	view, ok := u.AwaitedView()
	require.True(t, ok)
	require.Equal(t, ViewFront, view)

	u.SetState(StateAwaitingRightPhoto)
	view, ok = u.AwaitedView()
	require.True(t, ok)
	require.Equal(t, ViewRight, view)
}
