package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservations/internal/database"
)

func newSeedCommand(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all reservations and tables with the sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			res, err := database.Seed(ctx, db, database.SeedFS())
			if err != nil {
				return err
			}
			log.Info(log.WithFields(ctx, map[string]any{
				"reservations": res.Reservations,
				"tables":       res.Tables,
			}), "seed finished")
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d reservations and %d tables\n", res.Reservations, res.Tables)
			return nil
		},
	}
}
