package router

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcctx "github.com/dtroode/userindex/internal/api/grpc/context"
	"github.com/dtroode/userindex/internal/api/grpc/handler"
	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/mocks"
	"github.com/dtroode/userindex/internal/model"
	"github.com/dtroode/userindex/internal/testutil"
)

type routerDeps struct {
	registry *mocks.RegistryService
	tokens   *mocks.TokenManager
}

func startRouter(t *testing.T) (*indexrpc.Client, routerDeps) {
	t.Helper()

	deps := routerDeps{
		registry: mocks.NewRegistryService(t),
		tokens:   mocks.NewTokenManager(t),
	}
	services := handler.Services{
		Registry:  deps.registry,
		Usernames: mocks.NewUsernameService(t),
		Upgrades:  mocks.NewUpgradeService(t),
		Backups:   mocks.NewBackupService(t),
		Access:    mocks.NewAccessService(t),
		Cycles:    mocks.NewCycleService(t),
	}

	s := New(services, deps.tokens, grpcctx.NewManager(), testutil.MakeNoopLogger()).Register()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return indexrpc.NewClient(conn), deps
}

func TestRouter_PublicMethodWithoutToken(t *testing.T) {
	client, deps := startRouter(t)
	deps.registry.On("Count", mock.Anything).Return(uint64(3), nil).Once()

	resp, err := client.FleetSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), resp.Size)
}

func TestRouter_ProtectedMethodRequiresToken(t *testing.T) {
	client, _ := startRouter(t)

	_, err := client.GetOrCreateInstance(context.Background(), &indexrpc.GetOrCreateInstanceRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_TokenCarriesCaller(t *testing.T) {
	client, deps := startRouter(t)
	deps.tokens.On("Parse", "good-token").Return(model.Principal("alice"), nil).Once()
	deps.registry.On("GetOrCreate", mock.Anything, model.Principal("alice"), (*model.Principal)(nil)).
		Return(model.InstanceHandle("inst-1"), nil).Once()

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer good-token")
	resp, err := client.GetOrCreateInstance(ctx, &indexrpc.GetOrCreateInstanceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "inst-1", resp.Handle)
}

func TestRouter_PanicBecomesInternal(t *testing.T) {
	client, deps := startRouter(t)
	deps.registry.On("Count", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Return(uint64(0), nil).Once()

	_, err := client.FleetSize(context.Background())
	assert.Equal(t, codes.Internal, status.Code(err))
}
