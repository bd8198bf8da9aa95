package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/userindex/internal/mocks"
	"github.com/dtroode/userindex/internal/model"
)

func TestAuthority_Roles(t *testing.T) {
	a := NewAuthority(
		model.KnownPrincipalMap{model.KnownUserIDGlobalSuperAdmin: "root-admin"},
		model.AccessControlMap{
			"ops":       {model.RoleCanisterAdmin},
			"profile-1": {model.RoleProfileOwner},
		},
	)

	assert.True(t, a.HasRole("ops", model.RoleCanisterAdmin))
	assert.False(t, a.HasRole("profile-1", model.RoleCanisterAdmin))
	assert.True(t, a.HasRole("root-admin", model.RoleCanisterAdmin))
	assert.True(t, a.HasRole("root-admin", model.RoleCanisterController))
	assert.False(t, a.HasRole("stranger", model.RoleProfileOwner))

	assert.NoError(t, a.Require("ops", model.RoleCanisterAdmin))
	assert.ErrorIs(t, a.Require("profile-1", model.RoleCanisterAdmin), model.ErrPermissionDenied)
}

func TestAuthority_ExplicitSuperAdminEntryWins(t *testing.T) {
	a := NewAuthority(
		model.KnownPrincipalMap{model.KnownUserIDGlobalSuperAdmin: "root-admin"},
		model.AccessControlMap{"root-admin": {model.RoleProfileOwner}},
	)

	assert.False(t, a.HasRole("root-admin", model.RoleCanisterAdmin))
}

func TestAuthority_KnownPrincipals(t *testing.T) {
	known := model.KnownPrincipalMap{model.KnownCanisterIDDataBackup: "backup-svc"}
	a := NewAuthority(known, nil)
	known[model.KnownCanisterIDDataBackup] = "changed"

	p, ok := a.KnownPrincipal(model.KnownCanisterIDDataBackup)
	assert.True(t, ok)
	assert.Equal(t, model.Principal("backup-svc"), p)

	copied := a.KnownPrincipals()
	copied[model.KnownCanisterIDDataBackup] = "changed"
	p, _ = a.KnownPrincipal(model.KnownCanisterIDDataBackup)
	assert.Equal(t, model.Principal("backup-svc"), p)

	_, err := a.RequireKnown(model.KnownCanisterIDPostCache)
	assert.ErrorIs(t, err, model.ErrKnownPrincipalMissing)
}

func TestCycles_Balance(t *testing.T) {
	ctx := context.Background()
	accountant := mocks.NewResourceAccountant(t)
	accountant.On("Balance", mock.Anything, model.Principal("user-index")).Return(big.NewInt(1_000_000), nil).Once()

	balance, err := NewCycles(accountant, testAuthority()).Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000000", balance.String())

	_, err = NewCycles(accountant, NewAuthority(nil, nil)).Balance(ctx)
	assert.ErrorIs(t, err, model.ErrKnownPrincipalMissing)

	failing := mocks.NewResourceAccountant(t)
	failing.On("Balance", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))
	_, err = NewCycles(failing, testAuthority()).Balance(ctx)
	assert.ErrorContains(t, err, "unavailable")
}
