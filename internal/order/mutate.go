package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// ReplaceLines swaps the order's full line set for a new one: stock held by
// the old lines is returned, the new set is composed exactly like order
// creation (aggregation, price snapshot, stock validation) and the total is
// overwritten.
func (s *Service) ReplaceLines(ctx context.Context, orderID uint, reqs []LineRequest, actorID uint) (*models.Order, error) {
	if len(reqs) == 0 {
		return nil, validationf("at least one line is required")
	}
	aggregated, err := aggregateLines(reqs)
	if err != nil {
		return nil, err
	}

	var ord models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ord, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		var old []models.OrderLine
		if err := tx.Where("order_id = ?", orderID).Find(&old).Error; err != nil {
			return err
		}
		for _, l := range old {
			if err := restoreStock(tx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		if len(old) > 0 {
			oldIDs := make([]uint, 0, len(old))
			for _, l := range old {
				oldIDs = append(oldIDs, l.ID)
			}
			if err := tx.Where("order_line_id IN ?", oldIDs).
				Delete(&models.LineExclusion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderLine{}).Error; err != nil {
				return err
			}
		}

		products, err := resolveProducts(tx, aggregated)
		if err != nil {
			return err
		}
		lines, sum, err := priceLines(products, aggregated)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = orderID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		for _, l := range lines {
			if err := decrementStock(tx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		ord.Total = sum.Sub(ord.Discount)
		ord.Lines = lines
		return tx.Model(&ord).UpdateColumn("total", ord.Total).Error
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, actorID, "order", "lines_replaced",
		fmt.Sprintf("order %d lines replaced, new total %s", orderID, ord.Total))
	return &ord, nil
}

// AddLine inserts one new line with the product's current price as its
// snapshot and re-derives the total from all persisted lines.
func (s *Service) AddLine(ctx context.Context, orderID uint, req LineRequest, actorID uint) (*models.Order, error) {
	if req.Quantity <= 0 {
		return nil, validationf("quantity must be positive")
	}
	if req.Discount.IsNegative() {
		return nil, validationf("discount must be non-negative")
	}

	var ord models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ord, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		var p models.Product
		if err := tx.First(&p, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if req.Discount.GreaterThan(p.Price) {
			return validationf("discount for product %d exceeds its unit price", p.ID)
		}

		line := models.OrderLine{
			OrderID:   orderID,
			ProductID: p.ID,
			Quantity:  req.Quantity,
			UnitPrice: p.Price,
			Discount:  req.Discount,
			Note:      req.Note,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		if err := decrementStock(tx, p.ID, req.Quantity); err != nil {
			return err
		}
		return recomputeTotal(tx, &ord)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, actorID, "order", "line_added",
		fmt.Sprintf("product %d x%d added to order %d", req.ProductID, req.Quantity, orderID))
	return &ord, nil
}

// RemoveLine deletes the order's line for the given product, returning its
// stock and re-deriving the total.
func (s *Service) RemoveLine(ctx context.Context, orderID, productID uint, actorID uint) (*models.Order, error) {
	var ord models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := findLine(tx, &ord, orderID, productID)
		if err != nil {
			return err
		}
		if err := tx.Where("order_line_id = ?", line.ID).
			Delete(&models.LineExclusion{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderLine{}, line.ID).Error; err != nil {
			return err
		}
		if err := restoreStock(tx, productID, line.Quantity); err != nil {
			return err
		}
		return recomputeTotal(tx, &ord)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, actorID, "order", "line_removed",
		fmt.Sprintf("product %d removed from order %d", productID, orderID))
	return &ord, nil
}

// UpdateLineQuantity changes the line's quantity, adjusting stock by the
// delta and re-deriving the total.
func (s *Service) UpdateLineQuantity(ctx context.Context, orderID, productID uint, quantity int, actorID uint) (*models.Order, error) {
	if quantity <= 0 {
		return nil, validationf("quantity must be positive")
	}

	var ord models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := findLine(tx, &ord, orderID, productID)
		if err != nil {
			return err
		}
		delta := quantity - line.Quantity
		if delta > 0 {
			if err := decrementStock(tx, productID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := restoreStock(tx, productID, -delta); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.OrderLine{}).
			Where("id = ?", line.ID).
			UpdateColumn("quantity", quantity).Error; err != nil {
			return err
		}
		return recomputeTotal(tx, &ord)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, actorID, "order", "quantity_changed",
		fmt.Sprintf("product %d set to x%d on order %d", productID, quantity, orderID))
	return &ord, nil
}

// AddExclusion attaches a component exclusion to the order's line for the
// product. Re-adding an existing exclusion is a no-op success.
func (s *Service) AddExclusion(ctx context.Context, orderID, productID, componentID uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		line, err := findLine(tx, &ord, orderID, productID)
		if err != nil {
			return err
		}
		var component models.Product
		if err := tx.First(&component, componentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var existing models.LineExclusion
		err = tx.Where("order_line_id = ? AND component_id = ?", line.ID, componentID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.LineExclusion{
			OrderLineID: line.ID,
			ComponentID: componentID,
		}).Error
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, "order", "exclusion_added",
		fmt.Sprintf("component %d excluded from product %d on order %d", componentID, productID, orderID))
	return nil
}

// RemoveExclusion detaches a component exclusion from the order's line for
// the product.
func (s *Service) RemoveExclusion(ctx context.Context, orderID, productID, componentID uint, actorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		line, err := findLine(tx, &ord, orderID, productID)
		if err != nil {
			return err
		}
		res := tx.Where("order_line_id = ? AND component_id = ?", line.ID, componentID).
			Delete(&models.LineExclusion{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrExclusionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recorder.Record(ctx, actorID, "order", "exclusion_removed",
		fmt.Sprintf("component %d restored for product %d on order %d", componentID, productID, orderID))
	return nil
}

// findLine loads the order and its single line for the product. Addressing
// by (order, product) cannot disambiguate lines that differ only by note; a
// multi-line match is rejected rather than mutating an arbitrary one.
func findLine(tx *gorm.DB, ord *models.Order, orderID, productID uint) (*models.OrderLine, error) {
	if err := tx.First(ord, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	var lines []models.OrderLine
	if err := tx.Where("order_id = ? AND product_id = ?", orderID, productID).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	switch len(lines) {
	case 0:
		return nil, ErrLineNotFound
	case 1:
		return &lines[0], nil
	default:
		return nil, ErrAmbiguousLine
	}
}

// resolveProducts batch-reads the products referenced by the aggregated
// lines using the transaction's view of the catalog.
func resolveProducts(tx *gorm.DB, reqs []LineRequest) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ProductID)
	}
	var rows []models.Product
	if err := tx.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}
