package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
	"github.com/pratik-mahalle/cloudlens/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
				return err
			}

			fmt.Println("All migrations completed successfully")
			return nil
		},
	}
}
