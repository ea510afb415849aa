package product

import "github.com/your-org/marketplace-backend/internal/pkg/apperror"

var (
	ErrProductNotFound        = apperror.NotFound("PRODUCT_NOT_FOUND", "Product not found.")
	ErrCategoryNotFound       = apperror.Validation("CATEGORY_NOT_FOUND", "Category does not exist.")
	ErrBrandNotFound          = apperror.Validation("BRAND_NOT_FOUND", "Brand does not exist.")
	ErrAttributeNotFound      = apperror.Validation("ATTRIBUTE_NOT_FOUND", "Attribute does not exist.")
	ErrAttributeValueNotFound = apperror.Validation("ATTRIBUTE_VALUE_NOT_FOUND", "Attribute value does not exist.")
	ErrNotSeller              = apperror.Forbidden("NOT_SELLER", "Only sellers with a shop can manage products.")
	ErrNotProductOwner        = apperror.Forbidden("NOT_PRODUCT_OWNER", "You can only manage products of your own shop.")
	ErrInvalidPrice           = apperror.Validation("INVALID_PRICE", "Price must be greater than zero.")
	ErrInvalidStock           = apperror.Validation("INVALID_STOCK", "Stock quantity cannot be negative.")
	ErrDuplicateName          = apperror.Conflict("DUPLICATE_NAME", "An entry with this name already exists.")
	ErrProductInUse           = apperror.Conflict("PRODUCT_IN_USE", "Product is referenced by existing orders.")

	ErrReviewNotFound   = apperror.NotFound("REVIEW_NOT_FOUND", "Review not found.")
	ErrAlreadyReviewed  = apperror.Validation("ALREADY_REVIEWED", "Product already reviewed.")
	ErrOwnProductReview = apperror.Forbidden("OWN_PRODUCT_REVIEW", "You cannot review your own product.")
	ErrInvalidRating    = apperror.Validation("INVALID_RATING", "Rating must be between 0.5 and 5.")
)
