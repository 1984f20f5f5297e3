// Package cli wires the cobra commands of the reservations binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservations/internal/config"
	"github.com/iliyamo/restaurant-reservations/internal/logger"
)

const serviceName = "restaurant-reservations"

// loadFunc reads the configuration; tests replace it.
type loadFunc func() (*config.Config, error)

// NewRootCommand builds the command tree. Running the binary without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	return newRootCommand(config.Load)
}

func newRootCommand(load loadFunc) *cobra.Command {
	serve := newServeCommand(load)
	cmd := &cobra.Command{
		Use:           "reservations",
		Short:         "Restaurant table reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCommand(load))
	cmd.AddCommand(newSeedCommand(load))
	cmd.AddCommand(newHashPasswordCommand())
	return cmd
}

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// bootstrap loads the configuration and builds the logger it describes.
func bootstrap(load loadFunc) (*config.Config, *logger.Logger, error) {
	cfg, err := load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		Output:      os.Stdout,
	})
	return cfg, log, nil
}
