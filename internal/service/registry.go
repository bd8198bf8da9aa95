package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// Registry owns the principal to instance mapping and provisions instances
// on first contact.
type Registry struct {
	identities model.IdentityStore
	statuses   model.StatusStore
	deployer   model.Deployer
	authority  *Authority
	logger     *logger.Logger

	inflight singleflight.Group
}

func NewRegistry(
	identities model.IdentityStore,
	statuses model.StatusStore,
	deployer model.Deployer,
	authority *Authority,
	logger *logger.Logger,
) *Registry {
	return &Registry{
		identities: identities,
		statuses:   statuses,
		deployer:   deployer,
		authority:  authority,
		logger:     logger,
	}
}

// Lookup returns the instance registered for principal.
func (r *Registry) Lookup(ctx context.Context, principal model.Principal) (model.InstanceHandle, bool, error) {
	entry, err := r.identities.GetByPrincipal(ctx, principal)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get identity: %w", err)
	}
	return entry.Handle, true, nil
}

// GetOrCreate returns principal's instance, provisioning it when none is
// registered. Concurrent calls for one principal share a single
// provisioning attempt; a conflicting insert from another process resolves
// to the entry that won.
func (r *Registry) GetOrCreate(ctx context.Context, principal model.Principal, referrer *model.Principal) (model.InstanceHandle, error) {
	handle, ok, err := r.Lookup(ctx, principal)
	if err != nil {
		return "", err
	}
	if ok {
		return handle, nil
	}

	if referrer != nil && *referrer == principal {
		referrer = nil
	}

	// provisioning continues if the caller goes away, so a created instance
	// always ends up registered
	provisionCtx := context.WithoutCancel(ctx)
	v, err, _ := r.inflight.Do(principal.String(), func() (any, error) {
		return r.provision(provisionCtx, principal, referrer)
	})
	if err != nil {
		return "", err
	}
	return v.(model.InstanceHandle), nil
}

func (r *Registry) provision(ctx context.Context, principal model.Principal, referrer *model.Principal) (model.InstanceHandle, error) {
	// a flight that finished just before this one started already inserted
	if handle, ok, err := r.Lookup(ctx, principal); err != nil || ok {
		return handle, err
	}

	current, err := r.statuses.GetUpgradeStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get upgrade status: %w", err)
	}

	handle, err := r.pendingOrCreate(ctx, principal)
	if err != nil {
		return "", err
	}

	err = r.deployer.InstallCode(ctx, model.InstallRequest{
		Handle:          handle,
		Owner:           principal,
		Mode:            model.InstallModeInstall,
		Version:         current.Version,
		KnownPrincipals: r.authority.KnownPrincipals(),
	})
	if err != nil {
		r.logger.Warn("install failed, instance kept pending",
			"principal", principal, "handle", handle, "error", err)
		return "", fmt.Errorf("failed to install code: %w", err)
	}

	saved, err := r.identities.Create(ctx, model.IdentityEntry{
		Principal: principal,
		Handle:    handle,
		Referrer:  referrer,
	})
	if errors.Is(err, model.ErrAlreadyExists) && saved.Principal == principal {
		r.logger.Warn("lost provisioning race, instance is orphaned",
			"principal", principal, "orphan", handle, "handle", saved.Handle)
		return saved.Handle, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to register identity: %w", err)
	}

	r.logger.Info("instance provisioned", "principal", principal, "handle", saved.Handle, "version", current.Version)
	return saved.Handle, nil
}

// pendingOrCreate returns the instance left by an earlier failed install or
// creates a new one and records it as pending before any code is installed.
func (r *Registry) pendingOrCreate(ctx context.Context, principal model.Principal) (model.InstanceHandle, error) {
	handle, err := r.identities.GetPending(ctx, principal)
	if err == nil {
		r.logger.Info("resuming provisioning of pending instance", "principal", principal, "handle", handle)
		return handle, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return "", fmt.Errorf("failed to get pending instance: %w", err)
	}

	handle, err = r.deployer.CreateInstance(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to create instance: %w", err)
	}

	if err := r.identities.SavePending(ctx, principal, handle); err != nil {
		r.logger.Error("created instance could not be recorded",
			"principal", principal, "handle", handle, "error", err)
		return "", fmt.Errorf("failed to record pending instance: %w", err)
	}
	return handle, nil
}

func (r *Registry) Count(ctx context.Context) (uint64, error) {
	count, err := r.identities.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count identities: %w", err)
	}
	return count, nil
}

// Snapshot lists every registered identity at one point in time.
func (r *Registry) Snapshot(ctx context.Context) ([]model.IdentityEntry, error) {
	entries, err := r.identities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	return entries, nil
}
