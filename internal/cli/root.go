// Package cli implements engagectl, the operator command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/internal/app"
	"github.com/tropicaldog17/engage/internal/config"
	"github.com/tropicaldog17/engage/internal/db"
	"github.com/tropicaldog17/engage/internal/logger"
)

// Opener builds the application for one command invocation. The returned
// func releases everything it opened.
type Opener func(ctx context.Context) (*app.App, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Open    Opener
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates engagectl. A nil open uses the environment.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{Open: open}

	cmd := &cobra.Command{
		Use:   "engagectl",
		Short: "Operate the engagement queue and reward ledger",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Open == nil {
				opts.Open = envOpener(opts.Verbose)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewDrainCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewLeaderboardCommand(opts))
	cmd.AddCommand(NewCancelCommand(opts))
	cmd.AddCommand(NewReenqueueCommand(opts))
	cmd.AddCommand(NewResetBalanceCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// envOpener connects using the same environment as the server.
func envOpener(verbose bool) Opener {
	return func(ctx context.Context) (*app.App, func(), error) {
		_ = godotenv.Load()

		zl := zap.NewNop()
		if verbose {
			var err error
			if zl, err = logger.NewForEnv(os.Getenv("APP_ENV")); err != nil {
				return nil, nil, err
			}
		}

		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		dbConfig := db.NewConfig()
		database, err := db.Connect(dbConfig)
		if err != nil {
			return nil, nil, err
		}
		if dbConfig.Driver == db.DriverSQLite {
			if err := db.AutoMigrate(database); err != nil {
				database.Close()
				return nil, nil, err
			}
		}
		a, err := app.New(ctx, cfg, database, zl)
		if err != nil {
			database.Close()
			return nil, nil, err
		}
		return a, func() {
			a.Close()
			database.Close()
			zl.Sync()
		}, nil
	}
}

// withApp opens the application, runs fn and closes it again.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, closeFn, err := opts.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer closeFn()
	return fn(ctx, a)
}

// output writes v as JSON or, in text mode, runs text.
func output(w io.Writer, opts *RootOptions, v any, text func(w io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
