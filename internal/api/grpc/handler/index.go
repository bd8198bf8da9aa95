package handler

import (
	"context"
	"math/big"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// RegistryService resolves and provisions instances.
type RegistryService interface {
	Lookup(ctx context.Context, principal model.Principal) (model.InstanceHandle, bool, error)
	GetOrCreate(ctx context.Context, principal model.Principal, referrer *model.Principal) (model.InstanceHandle, error)
	Count(ctx context.Context) (uint64, error)
}

// UsernameService reads and assigns usernames.
type UsernameService interface {
	IsTaken(ctx context.Context, name string) (bool, error)
	ResolveHandle(ctx context.Context, name string) (model.InstanceHandle, bool, error)
	Assign(ctx context.Context, name string, principal model.Principal, caller model.Principal) error
}

// UpgradeService drives fleet upgrades.
type UpgradeService interface {
	Start(mode model.InstallMode) error
	UpgradeOne(ctx context.Context, owner model.Principal, handle model.InstanceHandle, mode model.InstallMode) string
	Status(ctx context.Context) (model.UpgradeStatus, error)
}

// BackupService drives backups and restores.
type BackupService interface {
	Start() error
	ReceiveAndRestore(ctx context.Context, source model.Principal, owner model.Principal, payload []byte) error
	RestoreFromArchive(ctx context.Context, owner model.Principal, runID string) error
	Status(ctx context.Context) (model.BackupStatus, error)
}

// AccessService answers known-principal and role queries.
type AccessService interface {
	KnownPrincipal(tag model.KnownPrincipalType) (model.Principal, bool)
	Require(principal model.Principal, role model.Role) error
}

// CycleService reports the index's resource balance.
type CycleService interface {
	Balance(ctx context.Context) (*big.Int, error)
}

// Services groups the dependencies of Index.
type Services struct {
	Registry  RegistryService
	Usernames UsernameService
	Upgrades  UpgradeService
	Backups   BackupService
	Access    AccessService
	Cycles    CycleService
}

// Index handles gRPC endpoints of the user index.
type Index struct {
	services       Services
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ indexrpc.UserIndexServer = (*Index)(nil)

// NewIndex creates a new Index handler.
func NewIndex(services Services, contextManager model.ContextManager, logger *logger.Logger) *Index {
	return &Index{
		services:       services,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Index) IsUsernameTaken(ctx context.Context, req *indexrpc.IsUsernameTakenRequest) (*indexrpc.IsUsernameTakenResponse, error) {
	taken, err := h.services.Usernames.IsTaken(ctx, req.Name)
	if err != nil {
		h.logger.Error("Index handler: username lookup failed", "name", req.Name, "error", err.Error())
		return nil, handleError(err)
	}
	return &indexrpc.IsUsernameTakenResponse{Taken: taken}, nil
}

func (h *Index) GetUpgradeStatus(ctx context.Context, _ *indexrpc.Empty) (*indexrpc.UpgradeStatus, error) {
	st, err := h.services.Upgrades.Status(ctx)
	if err != nil {
		h.logger.Error("Index handler: get upgrade status failed", "error", err.Error())
		return nil, handleError(err)
	}
	return convertUpgradeStatus(st), nil
}

func (h *Index) GetBackupStatus(ctx context.Context, _ *indexrpc.Empty) (*indexrpc.BackupStatus, error) {
	st, err := h.services.Backups.Status(ctx)
	if err != nil {
		h.logger.Error("Index handler: get backup status failed", "error", err.Error())
		return nil, handleError(err)
	}
	return convertBackupStatus(st), nil
}

// GetOrCreateInstance provisions an instance for the authenticated caller.
// The target principal never comes from the request.
func (h *Index) GetOrCreateInstance(ctx context.Context, req *indexrpc.GetOrCreateInstanceRequest) (*indexrpc.InstanceResponse, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	referrer, err := model.ParseOptionalPrincipal(req.Referrer)
	if err != nil {
		return nil, handleError(err)
	}

	h.logger.Debug("Index handler: processing get or create instance request", "principal", caller)

	handle, err := h.services.Registry.GetOrCreate(ctx, caller, referrer)
	if err != nil {
		h.logger.Error("Index handler: get or create instance failed", "principal", caller, "error", err.Error())
		return nil, handleError(err)
	}

	return &indexrpc.InstanceResponse{Handle: handle.String()}, nil
}

func (h *Index) ResolveByUsername(ctx context.Context, req *indexrpc.ResolveByUsernameRequest) (*indexrpc.OptionalInstanceResponse, error) {
	handle, ok, err := h.services.Usernames.ResolveHandle(ctx, req.Name)
	if err != nil {
		h.logger.Error("Index handler: resolve by username failed", "name", req.Name, "error", err.Error())
		return nil, handleError(err)
	}
	return optionalInstance(handle, ok), nil
}

func (h *Index) ResolveByPrincipal(ctx context.Context, req *indexrpc.ResolveByPrincipalRequest) (*indexrpc.OptionalInstanceResponse, error) {
	principal, err := model.ParsePrincipal(req.Principal)
	if err != nil {
		return nil, handleError(err)
	}

	handle, ok, err := h.services.Registry.Lookup(ctx, principal)
	if err != nil {
		h.logger.Error("Index handler: resolve by principal failed", "principal", principal, "error", err.Error())
		return nil, handleError(err)
	}
	return optionalInstance(handle, ok), nil
}

func (h *Index) FleetSize(ctx context.Context, _ *indexrpc.Empty) (*indexrpc.FleetSizeResponse, error) {
	size, err := h.services.Registry.Count(ctx)
	if err != nil {
		h.logger.Error("Index handler: fleet size failed", "error", err.Error())
		return nil, handleError(err)
	}
	return &indexrpc.FleetSizeResponse{Size: size}, nil
}

func (h *Index) CycleBalance(ctx context.Context, _ *indexrpc.Empty) (*indexrpc.CycleBalanceResponse, error) {
	balance, err := h.services.Cycles.Balance(ctx)
	if err != nil {
		h.logger.Error("Index handler: cycle balance failed", "error", err.Error())
		return nil, handleError(err)
	}
	return &indexrpc.CycleBalanceResponse{Balance: balance.String()}, nil
}

func (h *Index) KnownPrincipal(_ context.Context, req *indexrpc.KnownPrincipalRequest) (*indexrpc.KnownPrincipalResponse, error) {
	tag, err := model.ParseKnownPrincipalType(req.Tag)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	principal, ok := h.services.Access.KnownPrincipal(tag)
	if !ok {
		return &indexrpc.KnownPrincipalResponse{}, nil
	}
	return &indexrpc.KnownPrincipalResponse{Found: true, Principal: principal.String()}, nil
}

// AssignUsername reports business-rule rejections in the response body and
// everything else as a status error.
func (h *Index) AssignUsername(ctx context.Context, req *indexrpc.AssignUsernameRequest) (*indexrpc.AssignUsernameResponse, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	principal, err := model.ParsePrincipal(req.Principal)
	if err != nil {
		return nil, handleError(err)
	}

	err = h.services.Usernames.Assign(ctx, req.Name, principal, caller)
	if rejection, ok := assignRejection(err); ok {
		h.logger.Info("Index handler: username assignment rejected",
			"principal", principal, "caller", caller, "reason", rejection)
		return &indexrpc.AssignUsernameResponse{Error: rejection}, nil
	}
	if err != nil {
		h.logger.Error("Index handler: assign username failed", "principal", principal, "error", err.Error())
		return nil, handleError(err)
	}

	return &indexrpc.AssignUsernameResponse{Ok: true}, nil
}

// RestoreFromBackup accepts a payload only from the backup service itself.
func (h *Index) RestoreFromBackup(ctx context.Context, req *indexrpc.RestoreFromBackupRequest) (*indexrpc.Empty, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	source, err := model.ParsePrincipal(req.Source)
	if err != nil {
		return nil, handleError(err)
	}
	owner, err := model.ParsePrincipal(req.Owner)
	if err != nil {
		return nil, handleError(err)
	}

	if caller != source {
		h.logger.Warn("Index handler: restore claimed a source other than the caller",
			"caller", caller, "source", source, "owner", owner)
		return nil, handleError(model.ErrBackupSourceMismatch)
	}

	if err := h.services.Backups.ReceiveAndRestore(ctx, source, owner, req.Payload); err != nil {
		h.logger.Error("Index handler: restore from backup failed", "owner", owner, "error", err.Error())
		return nil, handleError(err)
	}

	return &indexrpc.Empty{}, nil
}

func (h *Index) caller(ctx context.Context) (model.Principal, error) {
	principal, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "caller principal not found in context")
	}
	return principal, nil
}
