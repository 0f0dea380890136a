package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
	"github.com/Axel-LeBlanc/Eatmands/internal/config"
	"github.com/Axel-LeBlanc/Eatmands/internal/db"
	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

func newReportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print stock and order summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			gdb, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to MySQL: %w", err)
			}

			if err := printLowStock(gdb); err != nil {
				return err
			}
			return printOrdersByStatus(gdb)
		},
	}
}

func printLowStock(gdb *gorm.DB) error {
	var products []models.Product
	err := gdb.Where("stock < ?", catalog.LowStockThreshold).
		Order("stock").
		Find(&products).Error
	if err != nil {
		return err
	}

	fmt.Printf("low stock (below %d units):\n", catalog.LowStockThreshold)
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"ID", "Product", "Stock", "Price"})
	for _, p := range products {
		table.Append([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			strconv.Itoa(p.Stock),
			p.Price.StringFixed(2),
		})
	}
	return table.Render()
}

func printOrdersByStatus(gdb *gorm.DB) error {
	type statusCount struct {
		Status models.OrderStatus
		Count  int64
	}
	var rows []statusCount
	err := gdb.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	fmt.Println("orders by status:")
	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Status", "Orders"})
	for _, r := range rows {
		table.Append([]string{string(r.Status), strconv.FormatInt(r.Count, 10)})
	}
	return table.Render()
}
