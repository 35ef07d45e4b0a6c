package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/cloudlens/internal/repository/postgres"
	"github.com/pratik-mahalle/cloudlens/internal/services"
)

func newClearCmd() *cobra.Command {
	var (
		email string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every metric sample an account owns",
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

			if !yes {
				fmt.Printf("Delete ALL metric samples for %s? [y/N]: ", email)
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if strings.ToLower(strings.TrimSpace(answer)) != "y" {
					fmt.Println("Aborted")
					return nil
				}
			}

			metricSvc := services.NewMetricService(
				postgres.NewMetricRepository(db),
				postgres.NewAlertRepository(db),
				log,
			)
			deleted, err := metricSvc.Clear(cmd.Context(), u.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Deleted %d samples for %s\n", deleted, email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email to clear (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
