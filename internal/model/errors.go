package model

import "errors"

var (
	// ErrNotFound is returned by stores when an entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by stores on a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")

	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidMode      = errors.New("invalid install mode")
	ErrInvalidRunID     = errors.New("invalid backup run id")

	ErrUsernameAlreadyTaken                      = errors.New("username already taken")
	ErrUserCanisterEntryDoesNotExist             = errors.New("user canister entry does not exist")
	ErrSendingCanisterDoesNotMatchUserCanisterID = errors.New("sending canister does not match user canister id")

	// ErrKnownPrincipalMissing means a required known principal is not configured.
	ErrKnownPrincipalMissing = errors.New("known principal not configured")
	ErrBackupSourceMismatch  = errors.New("backup source does not match the configured backup service")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrUpgradeInProgress     = errors.New("upgrade already in progress")
	ErrBackupInProgress      = errors.New("backup already in progress")
	ErrHandleMismatch        = errors.New("instance handle does not belong to owner")
	// ErrFleetUnavailable marks a transient refusal by the fleet controller.
	ErrFleetUnavailable = errors.New("fleet controller unavailable")
)
