package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
	"github.com/pratik-mahalle/cloudlens/internal/services"
)

func newSeedCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed a week of demo metrics for an account",
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

			userRepo := postgres.NewUserRepository(db)
			u, err := userRepo.GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("look up user %s: %w", email, err)
			}

			seeder := services.NewSeedService(postgres.NewMetricRepository(db), log)
			count, err := seeder.Seed(cmd.Context(), u.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Seeded %d samples for %s\n", count, email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email to seed (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
