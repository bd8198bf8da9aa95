package context

import (
	"context"

	"github.com/dtroode/userindex/internal/model"
)

// principalKey is the context key under which the authenticated caller is
// stored. It is unexported so request metadata cannot forge it.
type principalKey struct{}

// Manager carries the authenticated caller principal through a request
// context.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext returns a context carrying principal as the
// authenticated caller.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext returns the authenticated caller, if any.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok || principal.IsZero() {
		return "", false
	}
	return principal, true
}
