package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/playforge/dinomine/internal/catalog"
	"github.com/playforge/dinomine/internal/client"
	"github.com/playforge/dinomine/internal/recon"
	"github.com/playforge/dinomine/internal/sim"
)

// SessionOptions holds flags for the session command.
type SessionOptions struct {
	*RootOptions
	Server  string
	Token   string
	Account string
	Cache   string
}

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a live client session against a checkpoint server",
		Long: `Run a live mining session: reconcile local progress with the server,
then accrue income and push checkpoints on a schedule until interrupted.

Example:
  dinomine session --server http://localhost:8080 --token tok-1 --account acct-1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Server, "server", "http://localhost:8080", "checkpoint server base URL")
	cmd.Flags().StringVar(&opts.Token, "token", "", "account bearer token")
	cmd.Flags().StringVar(&opts.Account, "account", "", "account id for cache ownership")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to local progress cache (default: ~/.dinomine/progress.json)")

	return cmd
}

func runSession(opts *SessionOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	if opts.Token == "" {
		return NewExitError(ExitCommandError, "--token is required")
	}
	if opts.Account == "" {
		return NewExitError(ExitCommandError, "--account is required")
	}

	cachePath := opts.Cache
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to resolve home directory", err)
		}
		cachePath = filepath.Join(home, ".dinomine", "progress.json")
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create cache directory", err)
	}

	store := sim.New(catalog.Default())
	remote := client.New(opts.Server, opts.Token)
	cache := recon.NewCache(cachePath)

	session := recon.NewSession(opts.Account, store, remote, cache,
		recon.WithLogger(slog.Default()))

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, ending session", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// A failed load leaves the session running offline on local state.
	if err := session.Load(ctx); err != nil {
		slog.Warn("initial reconciliation failed, continuing offline", "error", err)
	}
	slog.Info("session started",
		"account", opts.Account,
		"state", session.State().String(),
		"balance", store.Balance())

	if err := session.Run(ctx); err != nil && err != context.Canceled {
		return WrapExitError(ExitFailure, "session error", err)
	}
	return nil
}
