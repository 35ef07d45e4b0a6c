package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
	"github.com/pratik-mahalle/cloudlens/internal/worker"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate thresholds once for every account",
		Long: `Runs one threshold sweep: for each account, reduce the trailing 24h of
samples to the latest value per provider and metric type, compare them
against the account's thresholds, and record any new breaches in the
alert ledger. Existing unresolved alerts are not duplicated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			sweeper := worker.NewSweeper(
				postgres.NewUserRepository(db),
				postgres.NewMetricRepository(db),
				postgres.NewAlertRepository(db),
				cfg.Sweep.Schedule,
				log,
			)
			sweeper.RunOnce(cmd.Context())
			return nil
		},
	}
}
