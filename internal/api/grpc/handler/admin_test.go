package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/model"
)

func TestIndex_AdminRequiresRole(t *testing.T) {
	h, deps, manager := newTestIndex(t)
	deps.access.On("Require", model.Principal("mallory"), model.RoleCanisterAdmin).Return(model.ErrPermissionDenied)

	ctx := manager.SetPrincipalToContext(context.Background(), "mallory")

	_, err := h.UpgradeAll(ctx, &indexrpc.UpgradeAllRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.UpgradeOne(ctx, &indexrpc.UpgradeOneRequest{Owner: "user-1", Handle: "inst-1"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.BackupAll(ctx, &indexrpc.Empty{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.RestoreFromArchive(ctx, &indexrpc.RestoreFromArchiveRequest{Owner: "user-1", RunID: "r"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestIndex_AdminUnauthenticated(t *testing.T) {
	h, _, _ := newTestIndex(t)

	_, err := h.BackupAll(context.Background(), &indexrpc.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestIndex_UpgradeAll(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantMode model.InstallMode
		startErr error
		wantCode codes.Code
	}{
		{name: "default mode", wantMode: model.InstallModeUpgrade, wantCode: codes.OK},
		{name: "reinstall", mode: "reinstall", wantMode: model.InstallModeReinstall, wantCode: codes.OK},
		{name: "already running", wantMode: model.InstallModeUpgrade, startErr: model.ErrUpgradeInProgress, wantCode: codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, deps, manager := newTestIndex(t)
			deps.access.On("Require", model.Principal("admin"), model.RoleCanisterAdmin).Return(nil).Once()
			deps.upgrades.On("Start", tt.wantMode).Return(tt.startErr).Once()

			ctx := manager.SetPrincipalToContext(context.Background(), "admin")
			_, err := h.UpgradeAll(ctx, &indexrpc.UpgradeAllRequest{Mode: tt.mode})
			assert.Equal(t, tt.wantCode, status.Code(err))
		})
	}

	t.Run("invalid mode", func(t *testing.T) {
		h, deps, manager := newTestIndex(t)
		deps.access.On("Require", model.Principal("admin"), model.RoleCanisterAdmin).Return(nil).Once()

		ctx := manager.SetPrincipalToContext(context.Background(), "admin")
		_, err := h.UpgradeAll(ctx, &indexrpc.UpgradeAllRequest{Mode: "sideways"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestIndex_UpgradeOne(t *testing.T) {
	h, deps, manager := newTestIndex(t)
	deps.access.On("Require", model.Principal("admin"), model.RoleCanisterAdmin).Return(nil)
	deps.upgrades.On("UpgradeOne", mock.Anything, model.Principal("user-1"), model.InstanceHandle("inst-1"), model.InstallModeUpgrade).
		Return("Success").Once()
	deps.upgrades.On("UpgradeOne", mock.Anything, model.Principal("user-2"), model.InstanceHandle("inst-2"), model.InstallModeUpgrade).
		Return("failed to install code: out of cycles").Once()

	ctx := manager.SetPrincipalToContext(context.Background(), "admin")

	resp, err := h.UpgradeOne(ctx, &indexrpc.UpgradeOneRequest{Owner: "user-1", Handle: "inst-1"})
	require.NoError(t, err)
	assert.Equal(t, "Success", resp.Outcome)

	resp, err = h.UpgradeOne(ctx, &indexrpc.UpgradeOneRequest{Owner: "user-2", Handle: "inst-2"})
	require.NoError(t, err)
	assert.Equal(t, "failed to install code: out of cycles", resp.Outcome)
}

func TestIndex_BackupAll(t *testing.T) {
	h, deps, manager := newTestIndex(t)
	deps.access.On("Require", model.Principal("admin"), model.RoleCanisterAdmin).Return(nil)
	deps.backups.On("Start").Return(nil).Once()
	deps.backups.On("Start").Return(model.ErrBackupInProgress).Once()

	ctx := manager.SetPrincipalToContext(context.Background(), "admin")

	_, err := h.BackupAll(ctx, &indexrpc.Empty{})
	require.NoError(t, err)

	_, err = h.BackupAll(ctx, &indexrpc.Empty{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestIndex_RestoreFromArchive(t *testing.T) {
	h, deps, manager := newTestIndex(t)
	deps.access.On("Require", model.Principal("admin"), model.RoleCanisterAdmin).Return(nil)
	deps.backups.On("RestoreFromArchive", mock.Anything, model.Principal("user-1"), "bad").
		Return(model.ErrInvalidRunID).Once()
	deps.backups.On("RestoreFromArchive", mock.Anything, model.Principal("user-1"), "0b8f3c4e-1d2a-4c5b-9e6f-7a8b9c0d1e2f").
		Return(model.ErrNotFound).Once()

	ctx := manager.SetPrincipalToContext(context.Background(), "admin")

	_, err := h.RestoreFromArchive(ctx, &indexrpc.RestoreFromArchiveRequest{Owner: "user-1", RunID: "bad"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.RestoreFromArchive(ctx, &indexrpc.RestoreFromArchiveRequest{Owner: "user-1", RunID: "0b8f3c4e-1d2a-4c5b-9e6f-7a8b9c0d1e2f"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
