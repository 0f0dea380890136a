package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// ByStatus lists orders in the given state; an empty status lists all.
func (s *Service) ByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Creator").Order("created_at DESC")
	if status != "" {
		if !status.Valid() {
			return nil, validationf("unknown order status %q", status)
		}
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

// ByDateRange lists orders created between from and to.
func (s *Service) ByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	if from.IsZero() || to.IsZero() {
		return nil, validationf("both start and end dates are required")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ByWaiterName lists orders created by users whose name contains the term.
func (s *Service) ByWaiterName(ctx context.Context, name string) ([]models.Order, error) {
	if name == "" {
		return nil, validationf("waiter name is required")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Joins("JOIN users ON users.id = orders.creator_id").
		Where("users.name LIKE ?", "%"+name+"%").
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ByProductName lists orders containing a product whose name matches.
func (s *Service) ByProductName(ctx context.Context, name string) ([]models.Order, error) {
	if name == "" {
		return nil, validationf("product name is required")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Distinct("orders.*").
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.name LIKE ?", "%"+name+"%").
		Find(&orders).Error
	return orders, err
}

// ByCategory lists orders containing at least one product in the category.
func (s *Service) ByCategory(ctx context.Context, categoryID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Distinct("orders.*").
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.category_id = ?", categoryID).
		Find(&orders).Error
	return orders, err
}

// ByTotalRange lists orders whose total falls within [min, max].
func (s *Service) ByTotalRange(ctx context.Context, min, max decimal.Decimal) ([]models.Order, error) {
	if min.GreaterThan(max) {
		return nil, validationf("minimum total exceeds maximum")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Where("total BETWEEN ? AND ?", min, max).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
