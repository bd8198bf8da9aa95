package handler

import (
	"context"

	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/model"
)

// admin returns the caller if it holds CanisterAdmin.
func (h *Index) admin(ctx context.Context, method string) (model.Principal, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return "", err
	}
	if err := h.services.Access.Require(caller, model.RoleCanisterAdmin); err != nil {
		h.logger.Warn("Index handler: privileged call rejected", "method", method, "caller", caller)
		return "", handleError(err)
	}
	return caller, nil
}

func (h *Index) UpgradeOne(ctx context.Context, req *indexrpc.UpgradeOneRequest) (*indexrpc.UpgradeOneResponse, error) {
	caller, err := h.admin(ctx, "UpgradeOne")
	if err != nil {
		return nil, err
	}

	owner, err := model.ParsePrincipal(req.Owner)
	if err != nil {
		return nil, handleError(err)
	}
	handle, err := model.ParsePrincipal(req.Handle)
	if err != nil {
		return nil, handleError(err)
	}
	mode, err := model.ParseInstallMode(req.Mode)
	if err != nil {
		return nil, handleError(err)
	}

	outcome := h.services.Upgrades.UpgradeOne(ctx, owner, handle, mode)
	h.logger.Info("Index handler: single instance upgrade finished",
		"caller", caller, "owner", owner, "handle", handle, "mode", mode, "outcome", outcome)

	return &indexrpc.UpgradeOneResponse{Outcome: outcome}, nil
}

func (h *Index) UpgradeAll(ctx context.Context, req *indexrpc.UpgradeAllRequest) (*indexrpc.Empty, error) {
	caller, err := h.admin(ctx, "UpgradeAll")
	if err != nil {
		return nil, err
	}

	mode, err := model.ParseInstallMode(req.Mode)
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.services.Upgrades.Start(mode); err != nil {
		h.logger.Error("Index handler: upgrade run not started", "caller", caller, "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Index handler: upgrade run started", "caller", caller, "mode", mode)
	return &indexrpc.Empty{}, nil
}

func (h *Index) BackupAll(ctx context.Context, _ *indexrpc.Empty) (*indexrpc.Empty, error) {
	caller, err := h.admin(ctx, "BackupAll")
	if err != nil {
		return nil, err
	}

	if err := h.services.Backups.Start(); err != nil {
		h.logger.Error("Index handler: backup run not started", "caller", caller, "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Index handler: backup run started", "caller", caller)
	return &indexrpc.Empty{}, nil
}

func (h *Index) RestoreFromArchive(ctx context.Context, req *indexrpc.RestoreFromArchiveRequest) (*indexrpc.Empty, error) {
	caller, err := h.admin(ctx, "RestoreFromArchive")
	if err != nil {
		return nil, err
	}

	owner, err := model.ParsePrincipal(req.Owner)
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.services.Backups.RestoreFromArchive(ctx, owner, req.RunID); err != nil {
		h.logger.Error("Index handler: restore from archive failed",
			"caller", caller, "owner", owner, "run_id", req.RunID, "error", err.Error())
		return nil, handleError(err)
	}

	return &indexrpc.Empty{}, nil
}
