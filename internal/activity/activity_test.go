package activity

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

func newTestLog(t *testing.T) (*Log, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLog(gdb, quiet), gdb
}

func seedActor(t *testing.T, gdb *gorm.DB, name, email string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, PasswordHash: "x", Role: models.RoleWaiter}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func TestRecordAndHistory(t *testing.T) {
	log, gdb := newTestLog(t)
	ctx := context.Background()
	ana := seedActor(t, gdb, "Ana", "ana@test.local")
	bea := seedActor(t, gdb, "Bea", "bea@test.local")

	log.Record(ctx, ana.ID, "order", "created", "order 1 created")
	log.Record(ctx, ana.ID, "order", "deleted", "order 1 deleted")
	log.Record(ctx, bea.ID, "product", "created", "product 7 created")

	all, err := log.History(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byEntity, err := log.History(ctx, Filter{Entity: "order"})
	require.NoError(t, err)
	assert.Len(t, byEntity, 2)

	byAction, err := log.History(ctx, Filter{Entity: "order", Action: "deleted"})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "order 1 deleted", byAction[0].Description)

	byActor, err := log.History(ctx, Filter{ActorID: bea.ID})
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	require.NotNil(t, byActor[0].Actor)
	assert.Equal(t, "Bea", byActor[0].Actor.Name)
}

func TestRecordSwallowsFailures(t *testing.T) {
	log, gdb := newTestLog(t)
	ctx := context.Background()
	ana := seedActor(t, gdb, "Ana", "ana@test.local")

	// break the table out from under the recorder
	require.NoError(t, gdb.Migrator().DropTable(&models.ActivityRecord{}))

	assert.NotPanics(t, func() {
		log.Record(ctx, ana.ID, "order", "created", "order 1 created")
	})
}
