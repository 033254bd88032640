package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifiedOnCreate(t *testing.T) {
	require.True(t, VerifiedOnCreate(true))
	require.False(t, VerifiedOnCreate(false))
}

func TestVerifiedAfterEdit(t *testing.T) {
	// Admin edits preserve the current state.
	require.True(t, VerifiedAfterEdit(true, true))
	require.False(t, VerifiedAfterEdit(false, true))

	// Non-admin edits always send the record back to moderation.
	require.False(t, VerifiedAfterEdit(true, false))
	require.False(t, VerifiedAfterEdit(false, false))
}
