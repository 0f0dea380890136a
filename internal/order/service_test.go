package order

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Axel-LeBlanc/Eatmands/internal/activity"
	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(gdb, catalog.New(gdb), activity.NewLog(gdb, quiet), quiet)
	return svc, gdb
}

func seedUser(t *testing.T, gdb *gorm.DB) models.User {
	t.Helper()
	u := models.User{Name: "Pedro", Email: "pedro@test.local", PasswordHash: "x", Role: models.RoleWaiter}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedProduct(t *testing.T, gdb *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: dec(price), Stock: stock, Available: true}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func productStock(t *testing.T, gdb *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, gdb.First(&p, id).Error)
	return p.Stock
}

func TestCreateOrderTotalsAndStock(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)
	b := seedProduct(t, gdb, "B", "5.00", 10)

	ord, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "table 4",
		Discount:  dec("3.00"),
		Lines: []LineRequest{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, ord.Total.Equal(dec("22.00")), "total = %s", ord.Total)
	assert.Equal(t, models.StatusPending, ord.Status)
	assert.NotEmpty(t, ord.Reference)
	assert.Equal(t, 8, productStock(t, gdb, a.ID))
	assert.Equal(t, 9, productStock(t, gdb, b.ID))

	// one audit entry for the creation
	var count int64
	require.NoError(t, gdb.Model(&models.ActivityRecord{}).
		Where("entity = ? AND action = ?", "order", "created").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrderAggregatesBeforeStockCheck(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 5)

	_, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "table 1",
		Lines: []LineRequest{
			{ProductID: a.ID, Quantity: 3},
			{ProductID: a.ID, Quantity: 3},
		},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, a.ID, stockErr.ProductID)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// no partial state: no order, no lines, stock untouched
	var orders int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
	assert.Equal(t, 5, productStock(t, gdb, a.ID))
}

func TestCreateOrderRejectionLeavesNothingBehind(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)

	_, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "table 2",
		Lines: []LineRequest{
			{ProductID: a.ID, Quantity: 1},
			{ProductID: a.ID + 100, Quantity: 1},
		},
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	var lines int64
	require.NoError(t, gdb.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, lines)
	assert.Equal(t, 10, productStock(t, gdb, a.ID))
}

func TestCreateOrderValidatesInput(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)

	var vErr *ValidationError

	_, err := svc.Create(ctx, CreateRequest{Recipient: "x", Lines: []LineRequest{{ProductID: a.ID, Quantity: 1}}})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ctx, CreateRequest{CreatorID: u.ID, Lines: []LineRequest{{ProductID: a.ID, Quantity: 1}}})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ctx, CreateRequest{CreatorID: u.ID, Recipient: "x"})
	require.ErrorAs(t, err, &vErr)
}

func TestCreateOrderWholeDiscountMayGoNegative(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "2.00", 10)

	ord, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "table 3",
		Discount:  dec("5.00"),
		Lines:     []LineRequest{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, ord.Total.Equal(dec("-3.00")), "total = %s", ord.Total)
}

func TestUnitPriceIsSnapshotted(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)

	ord, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "table 5",
		Lines:     []LineRequest{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// catalog price change must not alter the captured line price
	require.NoError(t, gdb.Model(&models.Product{}).
		Where("id = ?", a.ID).
		Update("price", dec("99.00")).Error)

	got, err := svc.Get(ctx, ord.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(dec("10.00")))
	assert.True(t, got.Total.Equal(dec("10.00")))
}

func TestSetStatusPermissiveTransitions(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)

	ord, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "bar",
		Lines:     []LineRequest{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// pending straight to delivered is allowed
	require.NoError(t, svc.SetStatus(ctx, ord.ID, models.StatusDelivered, u.ID))

	got, err := svc.Get(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, got.Status)

	// and back out of a terminal state, too
	require.NoError(t, svc.SetStatus(ctx, ord.ID, models.StatusPending, u.ID))

	err = svc.SetStatus(ctx, ord.ID, models.OrderStatus("frozen"), u.ID)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	require.ErrorIs(t, svc.SetStatus(ctx, ord.ID+50, models.StatusReady, u.ID), ErrOrderNotFound)
}

func TestRecentlyChanged(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)

	ord, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "bar",
		Lines:     []LineRequest{{ProductID: a.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	recent, err := svc.RecentlyChanged(ctx, time.Minute)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, ord.ID, recent[0].ID)

	// push the change stamp out of the window
	old := time.Now().Add(-time.Hour)
	require.NoError(t, gdb.Model(&models.Order{}).
		Where("id = ?", ord.ID).
		Update("status_changed_at", old).Error)

	recent, err = svc.RecentlyChanged(ctx, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestDeleteOrderCascades(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	a := seedProduct(t, gdb, "A", "10.00", 10)
	onion := seedProduct(t, gdb, "Onion", "0.50", 100)

	ord, err := svc.Create(ctx, CreateRequest{
		CreatorID: u.ID,
		Recipient: "table 9",
		Lines:     []LineRequest{{ProductID: a.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AddExclusion(ctx, ord.ID, a.ID, onion.ID, u.ID))

	require.NoError(t, svc.Delete(ctx, ord.ID, u.ID))

	var lines, exclusions int64
	require.NoError(t, gdb.Model(&models.OrderLine{}).Where("order_id = ?", ord.ID).Count(&lines).Error)
	require.NoError(t, gdb.Model(&models.LineExclusion{}).Count(&exclusions).Error)
	assert.Zero(t, lines, "no orphaned line items")
	assert.Zero(t, exclusions)

	require.ErrorIs(t, svc.Delete(ctx, ord.ID, u.ID), ErrOrderNotFound)
}
