package cart

import "github.com/your-org/marketplace-backend/internal/pkg/apperror"

var (
	ErrCartNotFound       = apperror.NotFound("CART_NOT_FOUND", "Cart not found.")
	ErrEmptyCart          = apperror.Validation("EMPTY_CART", "Sorry your cart is empty.")
	ErrItemNotFound       = apperror.NotFound("CART_ITEM_NOT_FOUND", "Cart item not found.")
	ErrProductUnavailable = apperror.Validation("PRODUCT_UNAVAILABLE", "Product is not available.")
	ErrInvalidVariant     = apperror.Validation("INVALID_ATTRIBUTE_VALUE", "Attribute value is not offered for this product.")
	ErrExceedsStock       = apperror.Validation("EXCEEDS_STOCK", "Requested quantity exceeds available stock.")
	ErrInvalidQuantity    = apperror.Validation("INVALID_QUANTITY", "Quantity must be at least 1.")
)
