package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Snapshot loads a cart with its items in insertion order. Each item has its
// product (with category, brand and shop) and attribute value preloaded.
// It has no side effects, so callers may run it inside their own
// transaction. ErrEmptyCart is returned together with the loaded cart so
// callers can still check who owns it.
func Snapshot(db *gorm.DB, cartID uuid.UUID) (*Cart, error) {
	var c Cart
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product.Category").
		Preload("Items.Product.Brand").
		Preload("Items.Product.SellerShop").
		Preload("Items.AttributeValue.Attribute").
		Where("id = ?", cartID).
		First(&c).Error
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return &c, ErrEmptyCart
	}
	return &c, nil
}
