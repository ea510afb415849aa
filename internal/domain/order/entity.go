// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
)

// Status represents the payment status of an order
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusComplete, StatusFailed:
		return true
	}
	return false
}

// Tax is a named tax amount added to order totals
type Tax struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;not null;size:255" json:"name_tax"`
	Value     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"value_tax"`
	Default   bool            `gorm:"not null;index" json:"default"`
	CreatedAt time.Time       `json:"created_at"`
}

// Order represents the order entity
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user"`
	PaymentMethod string          `gorm:"not null;size:255" json:"payment_method"`
	OrderNumber   string          `gorm:"uniqueIndex;not null;size:64" json:"order_number"`
	OrderNote     string          `gorm:"size:255" json:"order_note"`
	ShippingPrice decimal.Decimal `gorm:"type:numeric(9,2);not null;default:0" json:"shipping_price"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_price"`
	TaxID         *uint           `gorm:"index" json:"tax_id"`
	Status        Status          `gorm:"not null;size:20;default:'pending'" json:"status"`
	IsPaid        bool            `gorm:"not null" json:"is_paid"`
	PaidAt        *time.Time      `json:"paid_at"`
	IsDelivered   bool            `gorm:"not null" json:"is_delivered"`
	DeliveredAt   *time.Time      `json:"delivered_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relationships
	User            *user.User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Tax             *Tax             `gorm:"foreignKey:TaxID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"tax"`
	Items           []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"order_item"`
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shipping_address"`
	StatusHistory   []StatusHistory  `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a snapshot of a product and quantity at checkout time
type OrderItem struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	OrderID   uint             `gorm:"not null;index" json:"order_id"`
	ProductID uint             `gorm:"not null;index" json:"product_id"`
	Quantity  int              `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Product   *product.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// ShippingAddress is the delivery address of an order
type ShippingAddress struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"-"`
	Address   string    `gorm:"not null;size:255" json:"address"`
	Country   string    `gorm:"not null;size:100" json:"country"`
	Oblast    string    `gorm:"not null;size:50" json:"oblast"`
	City      string    `gorm:"not null;size:30" json:"city"`
	DepartNum string    `gorm:"not null;size:20" json:"depart_num"`
	CreatedAt time.Time `json:"-"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null;size:20" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Tax) TableName() string             { return "taxes" }
func (Order) TableName() string           { return "orders" }
func (OrderItem) TableName() string       { return "order_items" }
func (ShippingAddress) TableName() string { return "shipping_addresses" }
func (StatusHistory) TableName() string   { return "order_status_history" }

// SubTotal is quantity times the unit price captured at checkout
func (i *OrderItem) SubTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TaxValue returns the tax amount of the order, zero without a tax
func (o *Order) TaxValue() decimal.Decimal {
	if o.Tax == nil {
		return decimal.Zero
	}
	return o.Tax.Value
}

// ItemsTotal sums the line items
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].SubTotal())
	}
	return total
}

// UserName returns the full name of the buyer when loaded
func (o *Order) UserName() string {
	if o.User == nil {
		return ""
	}
	return o.User.GetFullName()
}
