package order

import (
	"github.com/shopspring/decimal"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// LineRequest is one requested product line as submitted by a client.
type LineRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	Discount  decimal.Decimal `json:"discount"`
}

type lineKey struct {
	productID uint
	note      string
}

// aggregateLines merges requested lines that share product and note into a
// single line with summed quantity. Lines with different notes for the same
// product stay distinct. Aggregation runs before any stock validation.
func aggregateLines(reqs []LineRequest) ([]LineRequest, error) {
	merged := make(map[lineKey]int, len(reqs))
	keys := make([]lineKey, 0, len(reqs))
	first := make(map[lineKey]LineRequest, len(reqs))

	for _, r := range reqs {
		if r.ProductID == 0 {
			return nil, validationf("line is missing a product id")
		}
		if r.Quantity <= 0 {
			return nil, validationf("quantity for product %d must be positive", r.ProductID)
		}
		if r.Discount.IsNegative() {
			return nil, validationf("discount for product %d must be non-negative", r.ProductID)
		}
		key := lineKey{productID: r.ProductID, note: r.Note}
		if _, seen := merged[key]; !seen {
			keys = append(keys, key)
			first[key] = r
		}
		merged[key] += r.Quantity
	}

	out := make([]LineRequest, 0, len(keys))
	for _, key := range keys {
		line := first[key]
		line.Quantity = merged[key]
		out = append(out, line)
	}
	return out, nil
}

// priceLines turns aggregated requests into order lines with unit prices
// snapshotted from the resolved products, returning the lines and the sum of
// their subtotals. Any unresolved product fails the whole request.
func priceLines(products map[uint]models.Product, reqs []LineRequest) ([]models.OrderLine, decimal.Decimal, error) {
	lines := make([]models.OrderLine, 0, len(reqs))
	sum := decimal.Zero

	for _, r := range reqs {
		p, ok := products[r.ProductID]
		if !ok {
			return nil, decimal.Zero, validationf("unknown product %d", r.ProductID)
		}
		if r.Discount.GreaterThan(p.Price) {
			return nil, decimal.Zero, validationf(
				"discount for product %d exceeds its unit price", r.ProductID)
		}
		line := models.OrderLine{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: p.Price,
			Discount:  r.Discount,
			Note:      r.Note,
		}
		sum = sum.Add(line.Subtotal())
		lines = append(lines, line)
	}
	return lines, sum, nil
}

// checkStock verifies every aggregated line against the resolved stock
// levels. This is the fail-fast check; the conditional decrement at commit
// time remains the authoritative guard against concurrent over-allocation.
func checkStock(products map[uint]models.Product, reqs []LineRequest) error {
	for _, r := range reqs {
		p, ok := products[r.ProductID]
		if !ok {
			return validationf("unknown product %d", r.ProductID)
		}
		if r.Quantity > p.Stock {
			return &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: r.Quantity,
				Available: p.Stock,
			}
		}
	}
	return nil
}
