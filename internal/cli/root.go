// Package cli implements indexctl, the operator command line of the index.
package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/codec"
)

// Dialer opens a connection to the index.
type Dialer func(addr string, useTLS bool) (grpc.ClientConnInterface, func() error, error)

type options struct {
	addr    string
	token   string
	useTLS  bool
	timeout time.Duration
	dial    Dialer
}

// NewRootCommand builds the indexctl command tree.
func NewRootCommand(dial Dialer) *cobra.Command {
	if dial == nil {
		dial = DialGRPC
	}
	opts := &options{dial: dial}

	root := &cobra.Command{
		Use:           "indexctl",
		Short:         "Operate a user index",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.addr, "addr", envOr("INDEXCTL_ADDR", "localhost:50051"), "index gRPC address")
	flags.StringVar(&opts.token, "token", os.Getenv("INDEXCTL_TOKEN"), "bearer token for privileged calls")
	flags.BoolVar(&opts.useTLS, "tls", false, "connect over TLS")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-command deadline")

	root.AddCommand(
		newTokenCommand(),
		newStatusCommand(opts),
		newUpgradeAllCommand(opts),
		newUpgradeOneCommand(opts),
		newBackupAllCommand(opts),
		newRestoreArchiveCommand(opts),
		newResolveCommand(opts),
	)

	return root
}

// DialGRPC connects with the CBOR codec, over TLS when requested.
func DialGRPC(addr string, useTLS bool) (grpc.ClientConnInterface, func() error, error) {
	creds := insecure.NewCredentials()
	if useTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codec.Name)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return conn, conn.Close, nil
}

// withClient runs fn against a connected client under the command deadline.
func (o *options) withClient(cmd *cobra.Command, fn func(ctx context.Context, client *indexrpc.Client) error) error {
	conn, closeConn, err := o.dial(o.addr, o.useTLS)
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()
	if o.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+o.token)
	}

	return fn(ctx, indexrpc.NewClient(conn))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
