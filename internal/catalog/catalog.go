package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

// LowStockThreshold marks products whose remaining stock needs attention.
const LowStockThreshold = 5

var (
	// ErrProductNotFound reports a missing product id.
	ErrProductNotFound = errors.New("product not found")
	// ErrCategoryNotFound reports a missing category id.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidInput wraps every catalog validation failure.
	ErrInvalidInput = errors.New("invalid input")
)

// Service provides catalog lookups and inventory/discount maintenance.
// Stock decrements are owned by the order engine; the only stock write here
// is the explicit inventory update.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Product fetches one product by id.
func (s *Service) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ProductsByIDs batch-resolves a set of products in one round trip. The
// result is keyed by id; absent ids are simply missing from the map.
func (s *Service) ProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var rows []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// StockedProduct is a product annotated with the low-stock flag.
type StockedProduct struct {
	models.Product
	LowStock bool `json:"low_stock"`
}

// ListProducts returns every product with its low-stock flag.
func (s *Service) ListProducts(ctx context.Context) ([]StockedProduct, error) {
	var rows []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]StockedProduct, 0, len(rows))
	for _, p := range rows {
		out = append(out, StockedProduct{Product: p, LowStock: p.Stock < LowStockThreshold})
	}
	return out, nil
}

// LowStockProducts returns only the products below the threshold.
func (s *Service) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := s.db.WithContext(ctx).
		Where("stock < ?", LowStockThreshold).
		Order("stock").
		Find(&rows).Error
	return rows, err
}

// MenuItem is the customer-facing view of an available product.
type MenuItem struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      decimal.Decimal `json:"discount"`
	FinalPrice    decimal.Decimal `json:"final_price"`
}

// Menu lists available products with their effective price (price minus the
// product discount while it is active).
func (s *Service) Menu(ctx context.Context) ([]MenuItem, error) {
	var rows []models.Product
	if err := s.db.WithContext(ctx).Where("available = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]MenuItem, 0, len(rows))
	for _, p := range rows {
		discount := decimal.Zero
		if p.DiscountActive {
			discount = p.Discount
		}
		items = append(items, MenuItem{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			OriginalPrice: p.Price,
			Discount:      discount,
			FinalPrice:    p.EffectivePrice(),
		})
	}
	return items, nil
}

// ProductInput carries the mutable product fields.
type ProductInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	CategoryID     *uint           `json:"category_id"`
	Available      bool            `json:"available"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountActive bool            `json:"discount_active"`
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must be non-negative", ErrInvalidInput)
	}
	if in.Discount.IsNegative() {
		return fmt.Errorf("%w: discount must be non-negative", ErrInvalidInput)
	}
	return nil
}

// CreateProduct registers a new catalog entry.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := models.Product{
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		Stock:          in.Stock,
		CategoryID:     in.CategoryID,
		Available:      in.Available,
		Discount:       in.Discount,
		DiscountActive: in.DiscountActive,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct overwrites the mutable fields of one product. This is the
// inventory/discount maintenance path; order-driven stock changes go through
// the order engine instead.
func (s *Service) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	p.Available = in.Available
	p.Discount = in.Discount
	p.DiscountActive = in.DiscountActive
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Categories returns all categories.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := s.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

// Category fetches one category by id.
func (s *Service) Category(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateCategory registers a new category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	c := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory renames a category.
func (s *Service) UpdateCategory(ctx context.Context, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	res := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
