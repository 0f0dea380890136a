package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Axel-LeBlanc/Eatmands/internal/config"
	"github.com/Axel-LeBlanc/Eatmands/internal/db"
	"github.com/Axel-LeBlanc/Eatmands/internal/seed"
)

func newSeedCmd(configPath *string) *cobra.Command {
	var (
		products  int
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo staff, categories and products",
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

			start := time.Now()
			err = seed.Dataset(cmd.Context(), gdb, seed.Config{
				Products:  products,
				BatchSize: batchSize,
			})
			if err != nil {
				return fmt.Errorf("seeding dataset: %w", err)
			}
			fmt.Printf("dataset ready in %s\n", time.Since(start))
			return nil
		},
	}
	cmd.Flags().IntVar(&products, "products", 0, "number of products to insert (default: the demo menu)")
	cmd.Flags().IntVar(&batchSize, "batch", 100, "batch size for bulk inserts")
	return cmd
}
