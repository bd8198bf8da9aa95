package service

import (
	"fmt"
	"maps"

	"github.com/dtroode/userindex/internal/model"
)

// Authority answers who the system principals are and what each caller may
// do. It is built once at startup and never mutated.
type Authority struct {
	known model.KnownPrincipalMap
	roles map[model.Principal]map[model.Role]struct{}
}

// NewAuthority copies the bootstrap tables. The global super admin is
// granted CanisterAdmin and CanisterController unless it has an explicit
// access-control entry.
func NewAuthority(known model.KnownPrincipalMap, acl model.AccessControlMap) *Authority {
	a := &Authority{
		known: maps.Clone(known),
		roles: make(map[model.Principal]map[model.Role]struct{}, len(acl)+1),
	}
	if a.known == nil {
		a.known = model.KnownPrincipalMap{}
	}

	for principal, roles := range acl {
		set := make(map[model.Role]struct{}, len(roles))
		for _, role := range roles {
			set[role] = struct{}{}
		}
		a.roles[principal] = set
	}

	if admin, ok := a.known[model.KnownUserIDGlobalSuperAdmin]; ok {
		if _, listed := a.roles[admin]; !listed {
			a.roles[admin] = map[model.Role]struct{}{
				model.RoleCanisterAdmin:      {},
				model.RoleCanisterController: {},
			}
		}
	}

	return a
}

// KnownPrincipal returns the principal configured for tag.
func (a *Authority) KnownPrincipal(tag model.KnownPrincipalType) (model.Principal, bool) {
	p, ok := a.known[tag]
	return p, ok
}

// KnownPrincipals returns a copy of the whole table.
func (a *Authority) KnownPrincipals() model.KnownPrincipalMap {
	return maps.Clone(a.known)
}

// RequireKnown is KnownPrincipal that fails closed.
func (a *Authority) RequireKnown(tag model.KnownPrincipalType) (model.Principal, error) {
	p, ok := a.known[tag]
	if !ok {
		return "", fmt.Errorf("%w: %s", model.ErrKnownPrincipalMissing, tag)
	}
	return p, nil
}

func (a *Authority) HasRole(principal model.Principal, role model.Role) bool {
	_, ok := a.roles[principal][role]
	return ok
}

// Require returns ErrPermissionDenied unless principal holds role.
func (a *Authority) Require(principal model.Principal, role model.Role) error {
	if !a.HasRole(principal, role) {
		return fmt.Errorf("%w: %s lacks %s", model.ErrPermissionDenied, principal, role)
	}
	return nil
}
