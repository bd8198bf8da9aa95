package model

import "fmt"

// KnownPrincipalType tags a system role whose principal is fixed at startup.
type KnownPrincipalType string

const (
	KnownUserIDGlobalSuperAdmin       KnownPrincipalType = "UserIdGlobalSuperAdmin"
	KnownCanisterIDConfiguration      KnownPrincipalType = "CanisterIdConfiguration"
	KnownCanisterIDDataBackup         KnownPrincipalType = "CanisterIdDataBackup"
	KnownCanisterIDPostCache          KnownPrincipalType = "CanisterIdPostCache"
	KnownCanisterIDUserIndex          KnownPrincipalType = "CanisterIdUserIndex"
	KnownCanisterIDRootCanister       KnownPrincipalType = "CanisterIdRootCanister"
	KnownCanisterIDProjectMemberIndex KnownPrincipalType = "CanisterIdProjectMemberIndex"
	KnownCanisterIDTopicCacheIndex    KnownPrincipalType = "CanisterIdTopicCacheIndex"
)

var knownPrincipalTypes = map[KnownPrincipalType]struct{}{
	KnownUserIDGlobalSuperAdmin:       {},
	KnownCanisterIDConfiguration:      {},
	KnownCanisterIDDataBackup:         {},
	KnownCanisterIDPostCache:          {},
	KnownCanisterIDUserIndex:          {},
	KnownCanisterIDRootCanister:       {},
	KnownCanisterIDProjectMemberIndex: {},
	KnownCanisterIDTopicCacheIndex:    {},
}

// ParseKnownPrincipalType validates a known-principal tag.
func ParseKnownPrincipalType(s string) (KnownPrincipalType, error) {
	t := KnownPrincipalType(s)
	if _, ok := knownPrincipalTypes[t]; !ok {
		return "", fmt.Errorf("unknown known principal type %q", s)
	}
	return t, nil
}

// KnownPrincipalMap maps system-role tags to principals.
type KnownPrincipalMap map[KnownPrincipalType]Principal

// Role is a capability granted to a principal.
type Role string

const (
	RoleCanisterAdmin      Role = "CanisterAdmin"
	RoleCanisterController Role = "CanisterController"
	RoleProfileOwner       Role = "ProfileOwner"
	RoleProjectCanister    Role = "ProjectCanister"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCanisterAdmin, RoleCanisterController, RoleProfileOwner, RoleProjectCanister:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// AccessControlMap maps principals to the roles they hold.
type AccessControlMap map[Principal][]Role
