package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Axel-LeBlanc/Eatmands/internal/config"
	"github.com/Axel-LeBlanc/Eatmands/internal/db"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			gdb, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to MySQL: %w", err)
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrating schema: %w", err)
			}
			fmt.Println("schema up to date")
			return nil
		},
	}
}
