package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return New(gdb)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Burger", Price: dec("8.50"), Stock: 12, Available: true})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", got.Name)
	assert.True(t, got.Price.Equal(dec("8.50")))

	p, err = svc.UpdateProduct(ctx, p.ID, ProductInput{Name: "Double Burger", Price: dec("11.00"), Stock: 6, Available: true})
	require.NoError(t, err)
	assert.Equal(t, "Double Burger", p.Name)
	assert.Equal(t, 6, p.Stock)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.Product(ctx, p.ID)
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), ErrProductNotFound)
}

func TestProductValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   ProductInput
	}{
		{"missing name", ProductInput{Price: dec("1.00")}},
		{"negative price", ProductInput{Name: "x", Price: dec("-1.00")}},
		{"negative stock", ProductInput{Name: "x", Price: dec("1.00"), Stock: -1}},
		{"negative discount", ProductInput{Name: "x", Price: dec("1.00"), Discount: dec("-0.50")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLowStockFlag(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{Name: "Plenty", Price: dec("2.00"), Stock: 5, Available: true})
	require.NoError(t, err)
	scarce, err := svc.CreateProduct(ctx, ProductInput{Name: "Scarce", Price: dec("2.00"), Stock: 4, Available: true})
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].LowStock, "stock at the threshold is not low")
	assert.True(t, all[1].LowStock)

	low, err := svc.LowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, scarce.ID, low[0].ID)
}

func TestCreateProductPersistsUnavailability(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Seasonal", Price: dec("7.00"), Stock: 3, Available: false})
	require.NoError(t, err)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Available, "explicit false must survive the insert")
}

func TestMenuAppliesActiveDiscount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{
		Name: "Tacos", Price: dec("6.00"), Stock: 10, Available: true,
		Discount: dec("1.50"), DiscountActive: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductInput{
		Name: "Soda", Price: dec("2.00"), Stock: 10, Available: true,
		Discount: dec("0.50"), DiscountActive: false,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, ProductInput{
		Name: "Hidden", Price: dec("9.00"), Stock: 10, Available: false,
	})
	require.NoError(t, err)

	menu, err := svc.Menu(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2, "unavailable products stay off the menu")

	assert.True(t, menu[0].FinalPrice.Equal(dec("4.50")), "final = %s", menu[0].FinalPrice)
	assert.True(t, menu[0].Discount.Equal(dec("1.50")))

	// inactive discount is neither shown nor applied
	assert.True(t, menu[1].FinalPrice.Equal(dec("2.00")))
	assert.True(t, menu[1].Discount.IsZero())
}

func TestProductsByIDsSkipsMissing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductInput{Name: "Only", Price: dec("1.00"), Stock: 1, Available: true})
	require.NoError(t, err)

	found, err := svc.ProductsByIDs(ctx, []uint{p.ID, p.ID + 42})
	require.NoError(t, err)
	require.Len(t, found, 1)
	_, ok := found[p.ID]
	assert.True(t, ok)
}

func TestCategoryLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, "Drinks")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.UpdateCategory(ctx, c.ID, "Beverages"))
	got, err := svc.Category(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Name)

	all, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	require.ErrorIs(t, svc.UpdateCategory(ctx, c.ID, "Gone"), ErrCategoryNotFound)
	require.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), ErrCategoryNotFound)
}
