package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the closed set of staff roles known to the permission table.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleWaiter     Role = "waiter"
	RoleCashier    Role = "cashier"
	RoleCook       Role = "cook"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManager, RoleSupervisor, RoleWaiter, RoleCashier, RoleCook}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is a staff account able to authenticate against the API.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Email        string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null;index" json:"role"`
	Active       bool   `gorm:"default:false" json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Category groups products on the menu.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}

// Product is a sellable catalog entry. Stock is decremented only by the
// order engine through conditional updates; it never goes negative.
type Product struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:128;not null;index" json:"name"`
	Description    string          `gorm:"size:255" json:"description"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock          int             `gorm:"not null;default:0" json:"stock"`
	CategoryID     *uint           `gorm:"index" json:"category_id,omitempty"`
	Available      bool            `gorm:"not null" json:"available"`
	Discount       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	DiscountActive bool            `gorm:"default:false" json:"discount_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EffectivePrice is the menu price after the product discount, when active.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountActive {
		return p.Price.Sub(p.Discount)
	}
	return p.Price
}

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	StatusPending       OrderStatus = "pending"
	StatusInPreparation OrderStatus = "in_preparation"
	StatusReady         OrderStatus = "ready"
	StatusDelivered     OrderStatus = "delivered"
	StatusCancelled     OrderStatus = "cancelled"
)

// OrderStatuses lists every valid lifecycle state.
var OrderStatuses = []OrderStatus{StatusPending, StatusInPreparation, StatusReady, StatusDelivered, StatusCancelled}

// Valid reports whether s names a known lifecycle state.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a placed customer order. Total is derived from its lines and the
// whole-order discount; status and total are the only fields mutated after
// creation.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Reference       string          `gorm:"size:36;uniqueIndex" json:"reference"`
	CreatorID       uint            `gorm:"not null;index" json:"creator_id"`
	Creator         *User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Recipient       string          `gorm:"size:128;not null" json:"recipient"`
	Status          OrderStatus     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Discount        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	StatusChangedAt time.Time       `gorm:"index" json:"status_changed_at"`

	Lines []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// OrderLine is one product entry of an order. UnitPrice is the catalog price
// captured at order time; later catalog changes never alter it.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index:idx_order_lines_order" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	Note      string          `gorm:"size:255" json:"note,omitempty"`

	Exclusions []LineExclusion `gorm:"foreignKey:OrderLineID" json:"exclusions,omitempty"`
}

// Subtotal is (unit price - line discount) * quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Sub(l.Discount).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineExclusion removes one named component from one order line
// ("this item, minus the listed ingredient").
type LineExclusion struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	OrderLineID uint     `gorm:"not null;uniqueIndex:idx_line_component" json:"order_line_id"`
	ComponentID uint     `gorm:"not null;uniqueIndex:idx_line_component" json:"component_id"`
	Component   *Product `gorm:"foreignKey:ComponentID" json:"component,omitempty"`
}

// ActivityRecord is an immutable audit entry; rows are only ever appended.
type ActivityRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActorID     uint      `gorm:"not null;index" json:"actor_id"`
	Actor       *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Entity      string    `gorm:"size:32;not null;index" json:"entity"`
	Action      string    `gorm:"size:32;not null;index" json:"action"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// All returns every model migrated into the schema.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Order{},
		&OrderLine{},
		&LineExclusion{},
		&ActivityRecord{},
	}
}
