package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func TestDatasetIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, Dataset(ctx, gdb, Config{}))

	var users, categories, products int64
	require.NoError(t, gdb.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, gdb.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, gdb.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(len(demoUsers)), users)
	assert.Equal(t, int64(len(categoryNames)), categories)
	assert.Equal(t, int64(len(menuProducts)), products)

	// a second run against populated tables inserts nothing
	require.NoError(t, Dataset(ctx, gdb, Config{}))
	var again int64
	require.NoError(t, gdb.Model(&models.Product{}).Count(&again).Error)
	assert.Equal(t, products, again)
}

func TestDatasetGeneratesRequestedVolume(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, Dataset(ctx, gdb, Config{Products: 25, BatchSize: 10}))

	var products int64
	require.NoError(t, gdb.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(25), products)

	// generated names past the base menu get a numeric suffix
	var p models.Product
	require.NoError(t, gdb.Where("name = ?", "Tomato Bruschetta 2").First(&p).Error)
}
