package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/auth"
	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// Config controls how much demo data is inserted.
type Config struct {
	Products  int
	BatchSize int
}

// Dataset populates the database with demo staff, categories and products.
// Seeding is idempotent per table: a non-empty table is left alone.
func Dataset(ctx context.Context, db *gorm.DB, cfg Config) error {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Products <= 0 {
		cfg.Products = len(menuProducts)
	}
	if err := seedUsers(ctx, db); err != nil {
		return err
	}
	if err := seedCategories(ctx, db); err != nil {
		return err
	}
	return seedProducts(ctx, db, cfg)
}

var demoUsers = []struct {
	Name  string
	Email string
	Role  models.Role
}{
	{"Alba Torres", "alba@eatmands.local", models.RoleAdmin},
	{"Marco Reyes", "marco@eatmands.local", models.RoleManager},
	{"Lucia Vidal", "lucia@eatmands.local", models.RoleSupervisor},
	{"Pedro Salas", "pedro@eatmands.local", models.RoleWaiter},
	{"Irene Bosch", "irene@eatmands.local", models.RoleCashier},
	{"Tomas Ferrer", "tomas@eatmands.local", models.RoleCook},
}

func seedUsers(ctx context.Context, db *gorm.DB) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	users := make([]models.User, 0, len(demoUsers))
	for _, du := range demoUsers {
		hash, err := auth.HashPassword("changeme")
		if err != nil {
			return err
		}
		users = append(users, models.User{
			Name:         du.Name,
			Email:        du.Email,
			PasswordHash: hash,
			Role:         du.Role,
		})
	}
	return db.WithContext(ctx).Create(&users).Error
}

var categoryNames = []string{"Starters", "Mains", "Desserts", "Drinks", "Sides"}

func seedCategories(ctx context.Context, db *gorm.DB) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category{Name: name})
	}
	return db.WithContext(ctx).Create(&categories).Error
}

var menuProducts = []struct {
	Name     string
	Price    string
	Stock    int
	Category uint
}{
	{"Tomato Bruschetta", "6.50", 40, 1},
	{"Garlic Prawns", "9.00", 25, 1},
	{"Grilled Chicken", "14.50", 30, 2},
	{"Seafood Paella", "18.00", 12, 2},
	{"Mushroom Risotto", "13.00", 20, 2},
	{"Cheesecake", "5.50", 18, 3},
	{"Chocolate Fondant", "6.00", 15, 3},
	{"House Lemonade", "3.00", 60, 4},
	{"Espresso", "1.80", 100, 4},
	{"Patatas Bravas", "4.50", 35, 5},
}

func seedProducts(ctx context.Context, db *gorm.DB, cfg Config) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		return err
	}
	if int(existing) >= cfg.Products {
		return nil
	}

	products := make([]models.Product, 0, cfg.Products)
	for i := 0; i < cfg.Products; i++ {
		tpl := menuProducts[i%len(menuProducts)]
		name := tpl.Name
		if i >= len(menuProducts) {
			name = fmt.Sprintf("%s %d", tpl.Name, i/len(menuProducts)+1)
		}
		catID := tpl.Category
		products = append(products, models.Product{
			Name:       name,
			Price:      decimal.RequireFromString(tpl.Price),
			Stock:      tpl.Stock,
			CategoryID: &catID,
			Available:  true,
		})
	}
	return db.WithContext(ctx).CreateInBatches(&products, cfg.BatchSize).Error
}
