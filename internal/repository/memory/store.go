// Package memory provides mutex-guarded in-process implementations of the
// registry stores. They back the index when no database is configured and
// are used by service tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dtroode/userindex/internal/model"
)

var (
	_ model.IdentityStore = (*Store)(nil)
	_ model.UsernameStore = (*Store)(nil)
	_ model.StatusStore   = (*Store)(nil)
)

// Store keeps identities, usernames and sweep statuses in memory. Every
// method runs to completion under one lock, so no partial write is ever
// observable.
type Store struct {
	mu sync.RWMutex

	identities map[model.Principal]model.IdentityEntry
	handles    map[model.InstanceHandle]model.Principal
	order      []model.Principal
	pending    map[model.Principal]model.InstanceHandle

	usernames map[string]model.UsernameEntry
	owners    map[model.Principal]string

	upgrade *model.UpgradeStatus
	backup  *model.BackupStatus

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		identities: map[model.Principal]model.IdentityEntry{},
		handles:    map[model.InstanceHandle]model.Principal{},
		pending:    map[model.Principal]model.InstanceHandle{},
		usernames:  map[string]model.UsernameEntry{},
		owners:     map[model.Principal]string{},
		now:        time.Now,
	}
}

func (s *Store) GetByPrincipal(_ context.Context, principal model.Principal) (model.IdentityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.identities[principal]
	if !ok {
		return model.IdentityEntry{}, model.ErrNotFound
	}
	return cloneIdentity(entry), nil
}

func (s *Store) Create(_ context.Context, entry model.IdentityEntry) (model.IdentityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.identities[entry.Principal]; ok {
		return cloneIdentity(existing), model.ErrAlreadyExists
	}
	if _, ok := s.handles[entry.Handle]; ok {
		return model.IdentityEntry{}, model.ErrAlreadyExists
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	entry = cloneIdentity(entry)
	s.identities[entry.Principal] = entry
	s.handles[entry.Handle] = entry.Principal
	s.order = append(s.order, entry.Principal)
	delete(s.pending, entry.Principal)

	return cloneIdentity(entry), nil
}

func (s *Store) SavePending(_ context.Context, principal model.Principal, handle model.InstanceHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[principal] = handle
	return nil
}

func (s *Store) GetPending(_ context.Context, principal model.Principal) (model.InstanceHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handle, ok := s.pending[principal]
	if !ok {
		return "", model.ErrNotFound
	}
	return handle, nil
}

func (s *Store) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.identities)), nil
}

// List returns entries in insertion order.
func (s *Store) List(_ context.Context) ([]model.IdentityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.IdentityEntry, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, cloneIdentity(s.identities[p]))
	}
	return out, nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (model.UsernameEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.usernames[username]
	if !ok {
		return model.UsernameEntry{}, model.ErrNotFound
	}
	return entry, nil
}

func (s *Store) GetByOwner(_ context.Context, owner model.Principal) (model.UsernameEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.owners[owner]
	if !ok {
		return model.UsernameEntry{}, model.ErrNotFound
	}
	return s.usernames[name], nil
}

func (s *Store) Claim(_ context.Context, entry model.UsernameEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if holder, ok := s.usernames[entry.Username]; ok && holder.Principal != entry.Principal {
		return model.ErrUsernameAlreadyTaken
	}

	if previous, ok := s.owners[entry.Principal]; ok && previous != entry.Username {
		delete(s.usernames, previous)
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = s.now().UTC()
	}
	s.usernames[entry.Username] = entry
	s.owners[entry.Principal] = entry.Username

	return nil
}

func (s *Store) GetUpgradeStatus(_ context.Context) (model.UpgradeStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.upgrade == nil {
		return model.UpgradeStatus{}, nil
	}
	status := *s.upgrade
	status.Failed = slices.Clone(s.upgrade.Failed)
	return status, nil
}

func (s *Store) SaveUpgradeStatus(_ context.Context, status model.UpgradeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status.Failed = slices.Clone(status.Failed)
	s.upgrade = &status
	return nil
}

func (s *Store) GetBackupStatus(_ context.Context) (model.BackupStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.backup == nil {
		return model.BackupStatus{}, nil
	}
	status := *s.backup
	status.Failed = slices.Clone(s.backup.Failed)
	return status, nil
}

func (s *Store) SaveBackupStatus(_ context.Context, status model.BackupStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status.Failed = slices.Clone(status.Failed)
	s.backup = &status
	return nil
}

func cloneIdentity(entry model.IdentityEntry) model.IdentityEntry {
	if entry.Referrer != nil {
		referrer := *entry.Referrer
		entry.Referrer = &referrer
	}
	return entry
}
