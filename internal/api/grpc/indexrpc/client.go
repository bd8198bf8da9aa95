package indexrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/userindex/internal/grpcx"
)

// Client is the typed client of UserIndexServer.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) IsUsernameTaken(ctx context.Context, req *IsUsernameTakenRequest, opts ...grpc.CallOption) (*IsUsernameTakenResponse, error) {
	return grpcx.Invoke[IsUsernameTakenResponse](ctx, c.conn, MethodIsUsernameTaken, req, opts...)
}

func (c *Client) GetUpgradeStatus(ctx context.Context, opts ...grpc.CallOption) (*UpgradeStatus, error) {
	return grpcx.Invoke[UpgradeStatus](ctx, c.conn, MethodGetUpgradeStatus, &Empty{}, opts...)
}

func (c *Client) GetBackupStatus(ctx context.Context, opts ...grpc.CallOption) (*BackupStatus, error) {
	return grpcx.Invoke[BackupStatus](ctx, c.conn, MethodGetBackupStatus, &Empty{}, opts...)
}

func (c *Client) GetOrCreateInstance(ctx context.Context, req *GetOrCreateInstanceRequest, opts ...grpc.CallOption) (*InstanceResponse, error) {
	return grpcx.Invoke[InstanceResponse](ctx, c.conn, MethodGetOrCreateInstance, req, opts...)
}

func (c *Client) ResolveByUsername(ctx context.Context, req *ResolveByUsernameRequest, opts ...grpc.CallOption) (*OptionalInstanceResponse, error) {
	return grpcx.Invoke[OptionalInstanceResponse](ctx, c.conn, MethodResolveByUsername, req, opts...)
}

func (c *Client) ResolveByPrincipal(ctx context.Context, req *ResolveByPrincipalRequest, opts ...grpc.CallOption) (*OptionalInstanceResponse, error) {
	return grpcx.Invoke[OptionalInstanceResponse](ctx, c.conn, MethodResolveByPrincipal, req, opts...)
}

func (c *Client) FleetSize(ctx context.Context, opts ...grpc.CallOption) (*FleetSizeResponse, error) {
	return grpcx.Invoke[FleetSizeResponse](ctx, c.conn, MethodFleetSize, &Empty{}, opts...)
}

func (c *Client) CycleBalance(ctx context.Context, opts ...grpc.CallOption) (*CycleBalanceResponse, error) {
	return grpcx.Invoke[CycleBalanceResponse](ctx, c.conn, MethodCycleBalance, &Empty{}, opts...)
}

func (c *Client) KnownPrincipal(ctx context.Context, req *KnownPrincipalRequest, opts ...grpc.CallOption) (*KnownPrincipalResponse, error) {
	return grpcx.Invoke[KnownPrincipalResponse](ctx, c.conn, MethodKnownPrincipal, req, opts...)
}

func (c *Client) RestoreFromBackup(ctx context.Context, req *RestoreFromBackupRequest, opts ...grpc.CallOption) error {
	_, err := grpcx.Invoke[Empty](ctx, c.conn, MethodRestoreFromBackup, req, opts...)
	return err
}

func (c *Client) AssignUsername(ctx context.Context, req *AssignUsernameRequest, opts ...grpc.CallOption) (*AssignUsernameResponse, error) {
	return grpcx.Invoke[AssignUsernameResponse](ctx, c.conn, MethodAssignUsername, req, opts...)
}

func (c *Client) UpgradeOne(ctx context.Context, req *UpgradeOneRequest, opts ...grpc.CallOption) (*UpgradeOneResponse, error) {
	return grpcx.Invoke[UpgradeOneResponse](ctx, c.conn, MethodUpgradeOne, req, opts...)
}

func (c *Client) UpgradeAll(ctx context.Context, req *UpgradeAllRequest, opts ...grpc.CallOption) error {
	_, err := grpcx.Invoke[Empty](ctx, c.conn, MethodUpgradeAll, req, opts...)
	return err
}

func (c *Client) BackupAll(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := grpcx.Invoke[Empty](ctx, c.conn, MethodBackupAll, &Empty{}, opts...)
	return err
}

func (c *Client) RestoreFromArchive(ctx context.Context, req *RestoreFromArchiveRequest, opts ...grpc.CallOption) error {
	_, err := grpcx.Invoke[Empty](ctx, c.conn, MethodRestoreFromArchive, req, opts...)
	return err
}
