package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/model"
	"github.com/dtroode/userindex/internal/token"
)

func newTokenCommand() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <principal>",
		Short: "Issue a bearer token for a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := model.ParsePrincipal(args[0])
			if err != nil {
				return err
			}
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			signed, err := token.NewJWT(secret).Generate(principal, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "signing secret shared with the index")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")

	return cmd
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last upgrade and backup runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd, func(ctx context.Context, client *indexrpc.Client) error {
				upgrade, err := client.GetUpgradeStatus(ctx)
				if err != nil {
					return fmt.Errorf("failed to get upgrade status: %w", err)
				}
				backup, err := client.GetBackupStatus(ctx)
				if err != nil {
					return fmt.Errorf("failed to get backup status: %w", err)
				}
				size, err := client.FleetSize(ctx)
				if err != nil {
					return fmt.Errorf("failed to get fleet size: %w", err)
				}
				return printJSON(cmd, map[string]any{
					"fleet_size": size.Size,
					"upgrade":    upgrade,
					"backup":     backup,
				})
			})
		},
	}
}

func newUpgradeAllCommand(opts *options) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "upgrade-all",
		Short: "Start an upgrade run over the whole fleet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd, func(ctx context.Context, client *indexrpc.Client) error {
				if err := client.UpgradeAll(ctx, &indexrpc.UpgradeAllRequest{Mode: mode}); err != nil {
					return fmt.Errorf("failed to start upgrade: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "upgrade started")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(model.InstallModeUpgrade), "install mode: install, reinstall or upgrade")

	return cmd
}

func newUpgradeOneCommand(opts *options) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "upgrade-one <owner> <handle>",
		Short: "Upgrade a single instance and print the outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, client *indexrpc.Client) error {
				resp, err := client.UpgradeOne(ctx, &indexrpc.UpgradeOneRequest{Owner: args[0], Handle: args[1], Mode: mode})
				if err != nil {
					return fmt.Errorf("failed to upgrade instance: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Outcome)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(model.InstallModeUpgrade), "install mode: install, reinstall or upgrade")

	return cmd
}

func newBackupAllCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup-all",
		Short: "Start a backup run over the whole fleet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withClient(cmd, func(ctx context.Context, client *indexrpc.Client) error {
				if err := client.BackupAll(ctx); err != nil {
					return fmt.Errorf("failed to start backup: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "backup started")
				return nil
			})
		},
	}
}

func newRestoreArchiveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-archive <owner> <run-id>",
		Short: "Restore an instance from an archived backup run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, client *indexrpc.Client) error {
				err := client.RestoreFromArchive(ctx, &indexrpc.RestoreFromArchiveRequest{Owner: args[0], RunID: args[1]})
				if err != nil {
					return fmt.Errorf("failed to restore archive: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s from run %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newResolveCommand(opts *options) *cobra.Command {
	var byPrincipal bool

	cmd := &cobra.Command{
		Use:   "resolve <username>",
		Short: "Resolve a username, or a principal with --principal, to its instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, client *indexrpc.Client) error {
				var (
					resp *indexrpc.OptionalInstanceResponse
					err  error
				)
				if byPrincipal {
					resp, err = client.ResolveByPrincipal(ctx, &indexrpc.ResolveByPrincipalRequest{Principal: args[0]})
				} else {
					resp, err = client.ResolveByUsername(ctx, &indexrpc.ResolveByUsernameRequest{Name: args[0]})
				}
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", args[0], err)
				}
				if !resp.Found {
					return fmt.Errorf("%s: %w", args[0], model.ErrNotFound)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Handle)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&byPrincipal, "principal", false, "treat the argument as a principal")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
