// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Cart is the single active cart of a user
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	User      *user.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem is one product line of a cart. Adding the same product and
// attribute value again increases Quantity instead of adding a row.
type CartItem struct {
	ID               uint                    `gorm:"primaryKey" json:"id"`
	CartID           uuid.UUID               `gorm:"type:uuid;not null;index" json:"cart"`
	ProductID        uint                    `gorm:"not null;index" json:"product_id"`
	AttributeValueID *uint                   `gorm:"index" json:"attribute_value_id"`
	Quantity         int                     `gorm:"not null;check:chk_cart_items_quantity,quantity > 0" json:"quantity"`
	CreatedAt        time.Time               `json:"created_at"`
	Product          *product.Product        `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"product,omitempty"`
	AttributeValue   *product.AttributeValue `gorm:"foreignKey:AttributeValueID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"attribute_value,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// BeforeCreate assigns a random identifier
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SubTotal is quantity times the current product price
func (i *CartItem) SubTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.PriceNew.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemResponse represents a cart item with product details
type ItemResponse struct {
	ID             uint                    `json:"id"`
	Cart           uuid.UUID               `json:"cart"`
	Product        product.Summary         `json:"product"`
	AttributeValue *product.AttributeValue `json:"attribute_value"`
	Quantity       int                     `json:"quantity"`
	SubTotal       decimal.Decimal         `json:"sub_total"`
}

// CartResponse represents a cart with its items and totals
type CartResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uint            `json:"user"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalItem  int             `json:"total_item"`
	Items      []ItemResponse  `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newItemResponse(item *CartItem) ItemResponse {
	resp := ItemResponse{
		ID:             item.ID,
		Cart:           item.CartID,
		AttributeValue: item.AttributeValue,
		Quantity:       item.Quantity,
		SubTotal:       item.SubTotal(),
	}
	if item.Product != nil {
		resp.Product = item.Product.Summary()
	}
	return resp
}

func newCartResponse(c *Cart) CartResponse {
	resp := CartResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		TotalPrice: decimal.Zero,
		TotalItem:  len(c.Items),
		Items:      make([]ItemResponse, 0, len(c.Items)),
		CreatedAt:  c.CreatedAt,
	}
	for i := range c.Items {
		item := newItemResponse(&c.Items[i])
		resp.TotalPrice = resp.TotalPrice.Add(item.SubTotal)
		resp.Items = append(resp.Items, item)
	}
	return resp
}
