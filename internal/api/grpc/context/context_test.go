package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/userindex/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	ctx := m.SetPrincipalToContext(stdctx.Background(), "alice")

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.Principal("alice"), got)
}

func TestManager_GetPrincipal_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetPrincipalFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_GetPrincipal_EmptyPrincipal(t *testing.T) {
	m := NewManager()
	ctx := m.SetPrincipalToContext(stdctx.Background(), "")
	_, ok := m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_IgnoresIncomingMetadata(t *testing.T) {
	m := NewManager()
	md := metadata.New(map[string]string{"principal": "mallory"})
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)

	_, ok := m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_OverridesEarlierPrincipal(t *testing.T) {
	m := NewManager()
	ctx := m.SetPrincipalToContext(stdctx.Background(), "alice")
	ctx = m.SetPrincipalToContext(ctx, "bob")

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.Principal("bob"), got)
}
