package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// Usernames maintains the unique username to principal mapping.
type Usernames struct {
	usernames  model.UsernameStore
	identities model.IdentityStore
	logger     *logger.Logger
}

func NewUsernames(usernames model.UsernameStore, identities model.IdentityStore, logger *logger.Logger) *Usernames {
	return &Usernames{
		usernames:  usernames,
		identities: identities,
		logger:     logger,
	}
}

// IsTaken reports whether name is held by anyone. Names that can never be
// assigned are never taken.
func (s *Usernames) IsTaken(ctx context.Context, name string) (bool, error) {
	_, ok, err := s.Resolve(ctx, name)
	return ok, err
}

// Resolve returns the principal holding name.
func (s *Usernames) Resolve(ctx context.Context, name string) (model.Principal, bool, error) {
	canonical, err := model.NormalizeUsername(name)
	if err != nil {
		return "", false, nil
	}

	entry, err := s.usernames.GetByUsername(ctx, canonical)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get username: %w", err)
	}
	return entry.Principal, true, nil
}

// ResolveHandle returns the instance of the principal holding name.
func (s *Usernames) ResolveHandle(ctx context.Context, name string) (model.InstanceHandle, bool, error) {
	principal, ok, err := s.Resolve(ctx, name)
	if err != nil || !ok {
		return "", false, err
	}

	entry, err := s.identities.GetByPrincipal(ctx, principal)
	if errors.Is(err, model.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get identity: %w", err)
	}
	return entry.Handle, true, nil
}

// Assign binds name to principal on behalf of caller, which must be the
// principal's own instance. Any name principal held before is released.
func (s *Usernames) Assign(ctx context.Context, name string, principal model.Principal, caller model.Principal) error {
	canonical, err := model.NormalizeUsername(name)
	if err != nil {
		return err
	}

	entry, err := s.identities.GetByPrincipal(ctx, principal)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrUserCanisterEntryDoesNotExist
	}
	if err != nil {
		return fmt.Errorf("failed to get identity: %w", err)
	}

	if entry.Handle != caller {
		s.logger.Warn("username assignment from foreign caller rejected",
			"principal", principal, "caller", caller, "handle", entry.Handle, "username", canonical)
		return model.ErrSendingCanisterDoesNotMatchUserCanisterID
	}

	previous, err := s.usernames.GetByOwner(ctx, principal)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get current username: %w", err)
	}
	if previous.Username == canonical {
		return nil
	}

	err = s.usernames.Claim(ctx, model.UsernameEntry{Username: canonical, Principal: principal})
	if errors.Is(err, model.ErrUsernameAlreadyTaken) {
		return model.ErrUsernameAlreadyTaken
	}
	if err != nil {
		return fmt.Errorf("failed to claim username: %w", err)
	}

	if previous.Username != "" {
		s.logger.Info("username assigned", "principal", principal, "username", canonical, "released", previous.Username)
	} else {
		s.logger.Info("username assigned", "principal", principal, "username", canonical)
	}
	return nil
}
