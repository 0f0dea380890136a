package activity

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// Recorder receives audit tuples as a side effect of privileged operations.
// Recording is best-effort: implementations must never fail the caller.
type Recorder interface {
	Record(ctx context.Context, actorID uint, entity, action, description string)
}

// Log is the GORM-backed activity log. Entries are append-only; nothing in
// the service updates or deletes them.
type Log struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLog(db *gorm.DB, logger *slog.Logger) *Log {
	return &Log{db: db, logger: logger}
}

// Record appends one audit entry. Failures are logged and swallowed so the
// primary operation is never rolled back on their account.
func (l *Log) Record(ctx context.Context, actorID uint, entity, action, description string) {
	rec := models.ActivityRecord{
		ActorID:     actorID,
		Entity:      entity,
		Action:      action,
		Description: description,
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		l.logger.Error("activity record dropped",
			"actor_id", actorID,
			"entity", entity,
			"action", action,
			"error", err,
		)
	}
}

// Filter narrows a history query; zero values mean "no constraint".
type Filter struct {
	Entity  string
	Action  string
	ActorID uint
	From    time.Time
	To      time.Time
}

// History returns audit entries matching the filter, newest first.
func (l *Log) History(ctx context.Context, f Filter) ([]models.ActivityRecord, error) {
	q := l.db.WithContext(ctx).Model(&models.ActivityRecord{}).Preload("Actor")
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.ActorID != 0 {
		q = q.Where("actor_id = ?", f.ActorID)
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		q = q.Where("created_at BETWEEN ? AND ?", f.From, f.To)
	}

	var rows []models.ActivityRecord
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}
