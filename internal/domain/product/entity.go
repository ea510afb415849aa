// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/user"
)

// Product is a seller-owned catalog entry
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SellerShopID uint            `gorm:"not null;index" json:"seller_shop_id"`
	CategoryID   uint            `gorm:"not null;index" json:"category_id"`
	BrandID      uint            `gorm:"not null;index" json:"brand_id"`
	Name         string          `gorm:"not null;size:255" json:"product_name"`
	Slug         string          `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Article      string          `gorm:"uniqueIndex;not null;size:32" json:"article"`
	Description  string          `gorm:"type:text" json:"description"`
	PriceNew     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_new"`
	PriceOld     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_old"`
	StockQty     int             `gorm:"not null;default:0;check:chk_products_stock_qty,stock_qty >= 0" json:"stock_qty"`
	Version      int             `gorm:"not null;default:1" json:"-"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	Rating       decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`
	NumReviews   int             `gorm:"not null;default:0" json:"num_reviews"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	SellerShop      *user.SellerShop `gorm:"foreignKey:SellerShopID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"seller_shop,omitempty"`
	Category        Category         `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Brand           Brand            `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"brand"`
	AttributeValues []AttributeValue `gorm:"many2many:product_attribute_values;" json:"attribute_values,omitempty"`
	Reviews         []Review         `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
}

// Category represents product categories
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"category_name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Brand represents product brands
type Brand struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"brand_name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Attribute is a variant dimension such as color or size
type Attribute struct {
	ID     uint             `gorm:"primaryKey" json:"id"`
	Name   string           `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Values []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"values,omitempty"`
}

// AttributeValue is one concrete variant, e.g. color=red
type AttributeValue struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AttributeID uint       `gorm:"not null;uniqueIndex:idx_attribute_values_attr_value" json:"attribute_id"`
	Value       string     `gorm:"not null;size:100;uniqueIndex:idx_attribute_values_attr_value" json:"value"`
	Attribute   *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
}

// Review is a customer's rating of a product
type Review struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	Name      string          `gorm:"size:255" json:"name"`
	Rating    decimal.Decimal `gorm:"type:numeric(2,1);not null" json:"rating"`
	Comment   string          `gorm:"type:text" json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string        { return "products" }
func (Category) TableName() string       { return "categories" }
func (Brand) TableName() string          { return "brands" }
func (Attribute) TableName() string      { return "attributes" }
func (AttributeValue) TableName() string { return "attribute_values" }
func (Review) TableName() string         { return "reviews" }

// IsInStock checks whether at least qty units can be sold
func (p *Product) IsInStock(qty int) bool {
	return p.IsAvailable && p.StockQty >= qty
}

// GetDiscountPercentage returns the markdown against the previous price
func (p *Product) GetDiscountPercentage() int {
	if !p.PriceOld.GreaterThan(p.PriceNew) || p.PriceOld.IsZero() {
		return 0
	}
	return int(p.PriceOld.Sub(p.PriceNew).Div(p.PriceOld).Mul(decimal.NewFromInt(100)).IntPart())
}

// Summary is the compact product form embedded in cart and order lines
type Summary struct {
	ID         uint            `json:"id"`
	Name       string          `json:"product_name"`
	Slug       string          `json:"slug"`
	SellerShop string          `json:"seller_shop"`
	Article    string          `json:"article"`
	PriceNew   decimal.Decimal `json:"price_new"`
}

// Summary returns the compact form of the product. SellerShop must be
// preloaded for the shop name to be set.
func (p *Product) Summary() Summary {
	s := Summary{
		ID:       p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		Article:  p.Article,
		PriceNew: p.PriceNew,
	}
	if p.SellerShop != nil {
		s.SellerShop = p.SellerShop.ShopName
	}
	return s
}
