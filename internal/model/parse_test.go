package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstallMode(t *testing.T) {
	mode, err := ParseInstallMode("")
	require.NoError(t, err)
	assert.Equal(t, InstallModeUpgrade, mode)

	for _, m := range []InstallMode{InstallModeInstall, InstallModeReinstall, InstallModeUpgrade} {
		got, err := ParseInstallMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err = ParseInstallMode("Upgrade")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestParseKnownPrincipalType(t *testing.T) {
	tag, err := ParseKnownPrincipalType("CanisterIdDataBackup")
	require.NoError(t, err)
	assert.Equal(t, KnownCanisterIDDataBackup, tag)

	_, err = ParseKnownPrincipalType("CanisterIdNope")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("CanisterAdmin")
	require.NoError(t, err)
	assert.Equal(t, RoleCanisterAdmin, role)

	_, err = ParseRole("Root")
	assert.Error(t, err)
}
