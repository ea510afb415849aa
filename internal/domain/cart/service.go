// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles cart business logic
type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log}
}

// Requester identifies who is acting on a cart
type Requester struct {
	UserID  uint
	IsStaff bool
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID        uint  `json:"product" binding:"required"`
	AttributeValueID *uint `json:"attribute_value"`
	Quantity         int   `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CreateCart returns the user's cart, creating it on first use. The bool
// reports whether a new cart was created.
func (s *Service) CreateCart(ctx context.Context, userID uint) (*CartResponse, bool, error) {
	db := s.db.WithContext(ctx)

	var c Cart
	err := db.Where("user_id = ?", userID).First(&c).Error
	switch {
	case err == nil:
		resp, err := s.GetCart(ctx, c.ID, Requester{UserID: userID})
		return resp, false, err
	case !apperror.IsNotFound(err):
		return nil, false, fmt.Errorf("failed to load cart: %w", err)
	}

	c = Cart{UserID: userID}
	if err := db.Create(&c).Error; err != nil {
		if !apperror.IsUniqueViolation(err) {
			return nil, false, fmt.Errorf("failed to create cart: %w", err)
		}
		// lost a race with a concurrent create
		if err := db.Where("user_id = ?", userID).First(&c).Error; err != nil {
			return nil, false, fmt.Errorf("failed to load cart: %w", err)
		}
		resp, err := s.GetCart(ctx, c.ID, Requester{UserID: userID})
		return resp, false, err
	}

	s.log.WithFields(logrus.Fields{"cart_id": c.ID, "user_id": userID}).Info("cart created")
	resp := newCartResponse(&c)
	return &resp, true, nil
}

// ListCarts lists the requester's cart, or every cart for staff
func (s *Service) ListCarts(ctx context.Context, req Requester) ([]CartResponse, error) {
	query := s.cartQuery(ctx).Order("carts.created_at DESC")
	if !req.IsStaff {
		query = query.Where("user_id = ?", req.UserID)
	}

	var carts []Cart
	if err := query.Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve carts: %w", err)
	}

	out := make([]CartResponse, 0, len(carts))
	for i := range carts {
		out = append(out, newCartResponse(&carts[i]))
	}
	return out, nil
}

// GetCart returns a cart with totals
func (s *Service) GetCart(ctx context.Context, cartID uuid.UUID, req Requester) (*CartResponse, error) {
	var c Cart
	if err := s.cartQuery(ctx).Where("id = ?", cartID).First(&c).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !visible(&c, req) {
		return nil, ErrCartNotFound
	}

	resp := newCartResponse(&c)
	return &resp, nil
}

// DeleteCart removes a cart and its items
func (s *Service) DeleteCart(ctx context.Context, cartID uuid.UUID, req Requester) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := accessibleCart(tx, cartID, req)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := tx.Delete(c).Error; err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		return nil
	})
}

// ListItems lists the items of a cart
func (s *Service) ListItems(ctx context.Context, cartID uuid.UUID, req Requester) ([]ItemResponse, error) {
	resp, err := s.GetCart(ctx, cartID, req)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetItem returns one item of a cart
func (s *Service) GetItem(ctx context.Context, cartID uuid.UUID, itemID uint, req Requester) (*ItemResponse, error) {
	resp, err := s.GetCart(ctx, cartID, req)
	if err != nil {
		return nil, err
	}
	for i := range resp.Items {
		if resp.Items[i].ID == itemID {
			return &resp.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// AddItem adds a product to the cart, merging with an existing line for the
// same product and attribute value.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, req Requester, in *AddItemRequest) (*ItemResponse, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var itemID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := accessibleCart(tx, cartID, req)
		if err != nil {
			return err
		}
		prod, err := purchasableProduct(tx, in.ProductID)
		if err != nil {
			return err
		}
		if err := checkVariant(tx, prod.ID, in.AttributeValueID); err != nil {
			return err
		}

		var existing CartItem
		query := tx.Where("cart_id = ? AND product_id = ?", c.ID, prod.ID)
		if in.AttributeValueID == nil {
			query = query.Where("attribute_value_id IS NULL")
		} else {
			query = query.Where("attribute_value_id = ?", *in.AttributeValueID)
		}
		err = query.First(&existing).Error

		switch {
		case err == nil:
			qty := existing.Quantity + in.Quantity
			if !prod.IsInStock(qty) {
				return ErrExceedsStock
			}
			if err := tx.Model(&existing).Update("quantity", qty).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			itemID = existing.ID
		case apperror.IsNotFound(err):
			if !prod.IsInStock(in.Quantity) {
				return ErrExceedsStock
			}
			item := CartItem{
				CartID:           c.ID,
				ProductID:        prod.ID,
				AttributeValueID: in.AttributeValueID,
				Quantity:         in.Quantity,
			}
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
			itemID = item.ID
		default:
			return fmt.Errorf("failed to load cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"cart_id": cartID, "product_id": in.ProductID, "quantity": in.Quantity}).Debug("cart item added")
	return s.GetItem(ctx, cartID, itemID, req)
}

// UpdateItem sets the quantity of a cart item
func (s *Service) UpdateItem(ctx context.Context, cartID uuid.UUID, itemID uint, req Requester, in *UpdateItemRequest) (*ItemResponse, error) {
	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := accessibleItem(tx, cartID, itemID, req)
		if err != nil {
			return err
		}
		prod, err := purchasableProduct(tx, item.ProductID)
		if err != nil {
			return err
		}
		if !prod.IsInStock(in.Quantity) {
			return ErrExceedsStock
		}
		if err := tx.Model(item).Update("quantity", in.Quantity).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetItem(ctx, cartID, itemID, req)
}

// RemoveItem deletes one item from the cart
func (s *Service) RemoveItem(ctx context.Context, cartID uuid.UUID, itemID uint, req Requester) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := accessibleItem(tx, cartID, itemID, req)
		if err != nil {
			return err
		}
		if err := tx.Delete(item).Error; err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
}

// ClearItems empties the cart. Placing an order leaves the cart as it is, so
// clients call this after a successful checkout.
func (s *Service) ClearItems(ctx context.Context, cartID uuid.UUID, req Requester) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := accessibleCart(tx, cartID, req)
		if err != nil {
			return err
		}
		result := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear cart: %w", result.Error)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"cart_id": cartID, "removed": removed}).Info("cart cleared")
	return removed, nil
}

func (s *Service) cartQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product.SellerShop").
		Preload("Items.AttributeValue.Attribute")
}

func visible(c *Cart, req Requester) bool {
	return req.IsStaff || c.UserID == req.UserID
}

func accessibleCart(tx *gorm.DB, cartID uuid.UUID, req Requester) (*Cart, error) {
	var c Cart
	if err := tx.Where("id = ?", cartID).First(&c).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !visible(&c, req) {
		return nil, ErrCartNotFound
	}
	return &c, nil
}

func accessibleItem(tx *gorm.DB, cartID uuid.UUID, itemID uint, req Requester) (*CartItem, error) {
	c, err := accessibleCart(tx, cartID, req)
	if err != nil {
		return nil, err
	}
	var item CartItem
	if err := tx.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}

func purchasableProduct(tx *gorm.DB, productID uint) (*product.Product, error) {
	var prod product.Product
	if err := tx.First(&prod, productID).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !prod.IsAvailable {
		return nil, ErrProductUnavailable
	}
	return &prod, nil
}

// checkVariant requires the attribute value to be one the product offers
func checkVariant(tx *gorm.DB, productID uint, attributeValueID *uint) error {
	if attributeValueID == nil {
		return nil
	}
	var count int64
	err := tx.Table("product_attribute_values").
		Where("product_id = ? AND attribute_value_id = ?", productID, *attributeValueID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check attribute value: %w", err)
	}
	if count == 0 {
		return ErrInvalidVariant
	}
	return nil
}

