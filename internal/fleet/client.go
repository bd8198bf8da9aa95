// Package fleet is the client of the external fleet controller that creates
// per-user instances, installs code on them and moves their state.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/codec"
	"github.com/dtroode/userindex/internal/grpcx"
	"github.com/dtroode/userindex/internal/model"
)

// CallerHeader carries the index's own principal on every call.
const CallerHeader = "x-userindex-principal"

// DefaultCallTimeout applies when no timeout is configured.
const DefaultCallTimeout = 30 * time.Second

var (
	_ model.Deployer           = (*Client)(nil)
	_ model.InstanceClient     = (*Client)(nil)
	_ model.ResourceAccountant = (*Client)(nil)
)

// Client talks to the fleet controller over gRPC.
type Client struct {
	conn    grpc.ClientConnInterface
	self    model.Principal
	timeout time.Duration
}

// Dial opens a connection to the fleet controller using the CBOR codec.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codec.Name)))
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial fleet controller %s: %w", addr, err)
	}
	return conn, nil
}

// NewClient creates a Client. self may be empty when the index does not
// know its own principal yet.
func NewClient(conn grpc.ClientConnInterface, self model.Principal, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Client{conn: conn, self: self, timeout: timeout}
}

func (c *Client) CreateInstance(ctx context.Context, owner model.Principal) (model.InstanceHandle, error) {
	resp, err := call[CreateInstanceResponse](ctx, c, "CreateInstance", &CreateInstanceRequest{Owner: owner.String()})
	if err != nil {
		return "", wrapError("create instance", err)
	}

	handle, err := model.ParsePrincipal(resp.Handle)
	if err != nil {
		return "", fmt.Errorf("fleet controller returned bad handle: %w", err)
	}
	return handle, nil
}

func (c *Client) InstallCode(ctx context.Context, req model.InstallRequest) error {
	known := make(map[string]string, len(req.KnownPrincipals))
	for tag, principal := range req.KnownPrincipals {
		known[string(tag)] = principal.String()
	}

	_, err := call[Empty](ctx, c, "InstallCode", &InstallCodeRequest{
		Handle:          req.Handle.String(),
		Owner:           req.Owner.String(),
		Mode:            string(req.Mode),
		Version:         req.Version,
		KnownPrincipals: known,
	})
	if err != nil {
		return wrapError("install code", err)
	}
	return nil
}

func (c *Client) ExportState(ctx context.Context, handle model.InstanceHandle) ([]byte, error) {
	resp, err := call[ExportStateResponse](ctx, c, "ExportState", &ExportStateRequest{Handle: handle.String()})
	if err != nil {
		return nil, wrapError("export state", err)
	}
	return resp.State, nil
}

func (c *Client) RestoreState(ctx context.Context, handle model.InstanceHandle, payload []byte) error {
	_, err := call[Empty](ctx, c, "RestoreState", &RestoreStateRequest{Handle: handle.String(), State: payload})
	if err != nil {
		return wrapError("restore state", err)
	}
	return nil
}

func (c *Client) Balance(ctx context.Context, principal model.Principal) (*big.Int, error) {
	resp, err := call[BalanceResponse](ctx, c, "Balance", &BalanceRequest{Principal: principal.String()})
	if err != nil {
		return nil, wrapError("query balance", err)
	}

	balance, ok := new(big.Int).SetString(resp.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("fleet controller returned bad balance %q", resp.Balance)
	}
	return balance, nil
}

func call[Resp any](ctx context.Context, c *Client, method string, req any) (*Resp, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if !c.self.IsZero() {
		ctx = metadata.AppendToOutgoingContext(ctx, CallerHeader, c.self.String())
	}
	return grpcx.Invoke[Resp](ctx, c.conn, grpcx.FullMethod(ServiceName, method), req)
}

// wrapError keeps the controller's message and maps the codes callers
// branch on to sentinel errors.
func wrapError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("failed to %s: %s: %w", op, st.Message(), model.ErrNotFound)
	case codes.Unavailable, codes.ResourceExhausted:
		return fmt.Errorf("failed to %s: %s: %w", op, st.Message(), model.ErrFleetUnavailable)
	case codes.DeadlineExceeded:
		return fmt.Errorf("failed to %s: %w", op, context.DeadlineExceeded)
	case codes.Canceled:
		return fmt.Errorf("failed to %s: %w", op, context.Canceled)
	default:
		return fmt.Errorf("failed to %s: %w", op, errors.New(st.Message()))
	}
}
