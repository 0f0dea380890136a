package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/activity"
	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// Service is the order composition and pricing engine. Every multi-statement
// mutation runs in one transaction so concurrent readers never observe an
// order whose total disagrees with its lines, or stock without its order.
type Service struct {
	db       *gorm.DB
	catalog  *catalog.Service
	recorder activity.Recorder
	logger   *slog.Logger
}

func NewService(db *gorm.DB, cat *catalog.Service, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{db: db, catalog: cat, recorder: recorder, logger: logger}
}

// CreateRequest is the composer input.
type CreateRequest struct {
	CreatorID uint
	Recipient string
	Lines     []LineRequest
	Discount  decimal.Decimal // whole-order discount
}

// Create composes, prices and persists a new order, decrementing stock for
// every aggregated line atomically with the order and line inserts.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	if req.CreatorID == 0 {
		return nil, validationf("creator is required")
	}
	if req.Recipient == "" {
		return nil, validationf("recipient is required")
	}
	if len(req.Lines) == 0 {
		return nil, validationf("at least one line is required")
	}
	if req.Discount.IsNegative() {
		return nil, validationf("order discount must be non-negative")
	}

	aggregated, err := aggregateLines(req.Lines)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(aggregated))
	for _, l := range aggregated {
		ids = append(ids, l.ProductID)
	}
	products, err := s.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines, sum, err := priceLines(products, aggregated)
	if err != nil {
		return nil, err
	}
	if err := checkStock(products, aggregated); err != nil {
		return nil, err
	}

	// The whole-order discount may drive the total negative; that is the
	// current pricing policy.
	now := time.Now()
	ord := models.Order{
		Reference:       uuid.NewString(),
		CreatorID:       req.CreatorID,
		Recipient:       req.Recipient,
		Status:          models.StatusPending,
		Total:           sum.Sub(req.Discount),
		Discount:        req.Discount,
		StatusChangedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = ord.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		for _, l := range lines {
			if err := decrementStock(tx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ord.Lines = lines

	s.recorder.Record(ctx, req.CreatorID, "order", "created",
		fmt.Sprintf("order %d for %q, total %s", ord.ID, ord.Recipient, ord.Total))
	return &ord, nil
}

// decrementStock conditionally takes qty units from the product's stock.
// The condition rides in the UPDATE itself so two concurrent requests cannot
// both succeed past the remaining stock.
func decrementStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var p models.Product
		if err := tx.First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		return &InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: qty,
			Available: p.Stock,
		}
	}
	return nil
}

// restoreStock returns qty units to the product's stock.
func restoreStock(tx *gorm.DB, productID uint, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

// recomputeTotal re-derives the order total from its persisted lines rather
// than tracking it incrementally, then stores it on the order.
func recomputeTotal(tx *gorm.DB, ord *models.Order) error {
	var lines []models.OrderLine
	if err := tx.Where("order_id = ?", ord.ID).Find(&lines).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	total = total.Sub(ord.Discount)
	if err := tx.Model(ord).UpdateColumn("total", total).Error; err != nil {
		return err
	}
	ord.Total = total
	return nil
}

// Get returns one order with its lines, exclusions and creator.
func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	var ord models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Lines.Product").
		Preload("Lines.Exclusions.Component").
		First(&ord, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &ord, nil
}

// List returns every order with its lines, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Lines.Product").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// RecentlyChanged returns orders whose status changed within the window.
// Clients poll this endpoint; there is no push mechanism.
func (s *Service) RecentlyChanged(ctx context.Context, window time.Duration) ([]models.Order, error) {
	cutoff := time.Now().Add(-window)
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines.Product").
		Where("status_changed_at >= ?", cutoff).
		Order("status_changed_at DESC").
		Find(&orders).Error
	return orders, err
}

// SetStatus moves the order to the given state. Any of the named states is
// accepted from any state; only unknown strings are rejected.
func (s *Service) SetStatus(ctx context.Context, id uint, status models.OrderStatus, actorID uint) error {
	if !status.Valid() {
		return validationf("unknown order status %q", status)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		if err := tx.First(&ord, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		return tx.Model(&ord).Updates(map[string]any{
			"status":            status,
			"status_changed_at": time.Now(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, "order", "status_changed",
		fmt.Sprintf("order %d moved to %s", id, status))
	return nil
}

// Cancel forces the order into the cancelled state.
func (s *Service) Cancel(ctx context.Context, id uint, actorID uint) error {
	return s.SetStatus(ctx, id, models.StatusCancelled, actorID)
}

// Delete removes an order together with its lines and their exclusions; no
// line items survive their order.
func (s *Service) Delete(ctx context.Context, id uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lineIDs []uint
		if err := tx.Model(&models.OrderLine{}).
			Where("order_id = ?", id).
			Pluck("id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := tx.Where("order_line_id IN ?", lineIDs).
				Delete(&models.LineExclusion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).
				Delete(&models.OrderLine{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, "order", "deleted", fmt.Sprintf("order %d deleted", id))
	return nil
}
