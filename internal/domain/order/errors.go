package order

import "github.com/your-org/marketplace-backend/internal/pkg/apperror"

var (
	ErrOrderNotFound      = apperror.NotFound("ORDER_NOT_FOUND", "Order with this id does not exist.")
	ErrInvalidCart        = apperror.Validation("INVALID_CART", "This cart_id is invalid.")
	ErrInvalidStatus      = apperror.Validation("INVALID_STATUS", "Unknown order status.")
	ErrInvalidShipping    = apperror.Validation("INVALID_SHIPPING_PRICE", "Shipping price cannot be negative.")
	ErrInvalidAddress     = apperror.Validation("INVALID_SHIPPING_ADDRESS", "Shipping address is incomplete.")
	ErrProductUnavailable = apperror.Validation("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available.")
	ErrInsufficientStock  = apperror.Conflict("INSUFFICIENT_STOCK", "Not enough stock to place the order.")
	ErrOrderNumberTaken   = apperror.Conflict("ORDER_NUMBER_CONFLICT", "Could not allocate a unique order number, please retry.")
	ErrAlreadyPaid        = apperror.Conflict("ORDER_ALREADY_PAID", "Order already paid.")
	ErrNotPaid            = apperror.Conflict("ORDER_NOT_PAID", "Order was not paid.")
	ErrAlreadyDelivered   = apperror.Conflict("ORDER_ALREADY_DELIVERED", "Order already delivered.")
	ErrTaxNotFound        = apperror.NotFound("TAX_NOT_FOUND", "Tax not found.")
	ErrTaxNameTaken       = apperror.Conflict("TAX_NAME_TAKEN", "Tax with this name already exists.")
	ErrInvalidTax         = apperror.Validation("INVALID_TAX", "Tax value cannot be negative.")
)
