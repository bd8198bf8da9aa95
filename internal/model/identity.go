package model

import (
	"context"
	"time"
)

// IdentityStore persists the principal to instance mapping. Entries are
// never deleted.
type IdentityStore interface {
	GetByPrincipal(ctx context.Context, principal Principal) (IdentityEntry, error)
	// Create inserts entry unless the principal or handle is already
	// registered, in which case it returns the stored entry for the
	// principal and ErrAlreadyExists. A successful insert clears the
	// principal's pending handle.
	Create(ctx context.Context, entry IdentityEntry) (IdentityEntry, error)
	// SavePending records an instance created for principal whose code is
	// not installed yet.
	SavePending(ctx context.Context, principal Principal, handle InstanceHandle) error
	// GetPending returns the handle saved by SavePending or ErrNotFound.
	GetPending(ctx context.Context, principal Principal) (InstanceHandle, error)
	Count(ctx context.Context) (uint64, error)
	List(ctx context.Context) ([]IdentityEntry, error)
}

// IdentityEntry binds a principal to its instance.
type IdentityEntry struct {
	Principal Principal
	Handle    InstanceHandle
	Referrer  *Principal
	CreatedAt time.Time
}
