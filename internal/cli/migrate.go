package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservations/internal/database"
)

func newMigrateCommand(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [" + strings.Join(database.MigrateCommands, "|") + "] [args]",
		Short: "Run database migrations",
		Long: `Run goose against the embedded SQL migrations. Without a command the
pending migrations are applied.

Example:
  reservations migrate
  reservations migrate down
  reservations migrate status`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
				args = args[1:]
			}
			if !slices.Contains(database.MigrateCommands, command) {
				return fmt.Errorf("unknown migrate command %q: must be one of %v", command, database.MigrateCommands)
			}

			cfg, log, err := bootstrap(load)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := database.Open(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(ctx, db, command, args...); err != nil {
				return err
			}
			log.Info(log.WithField(ctx, "command", command), "migrate finished")
			return nil
		},
	}
}
