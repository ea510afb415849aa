package product

import "github.com/shopspring/decimal"

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	Rating  decimal.Decimal `json:"rating" binding:"gte=0.5,lte=5"`
	Comment string          `json:"comment" binding:"max=5000"`
}

// UpdateReviewRequest represents review update data
type UpdateReviewRequest struct {
	Rating  *decimal.Decimal `json:"rating" binding:"omitempty,gte=0.5,lte=5"`
	Comment *string          `json:"comment" binding:"omitempty,max=5000"`
}

var (
	minRating = decimal.RequireFromString("0.5")
	maxRating = decimal.NewFromInt(5)
)

func validRating(r decimal.Decimal) bool {
	return r.GreaterThanOrEqual(minRating) && r.LessThanOrEqual(maxRating)
}
