// internal/domain/product/review_service.go
package product

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// ReviewService handles product reviews and keeps the product rating
// aggregate in step with them.
type ReviewService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB, log logrus.FieldLogger) *ReviewService {
	return &ReviewService{db: db, log: log}
}

// CreateReview adds the user's review to the product identified by slug
func (s *ReviewService) CreateReview(ctx context.Context, userID uint, slug string, req *CreateReviewRequest) (*Review, error) {
	if !validRating(req.Rating) {
		return nil, ErrInvalidRating
	}

	var author user.User
	if err := s.db.WithContext(ctx).First(&author, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviewer: %w", err)
	}

	review := Review{
		UserID:  userID,
		Name:    author.GetDisplayName(),
		Rating:  req.Rating.Round(1),
		Comment: req.Comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := reviewableProduct(tx, slug)
		if err != nil {
			return err
		}
		if product.SellerShop != nil && product.SellerShop.OwnerID == userID {
			return ErrOwnProductReview
		}

		var existing int64
		if err := tx.Model(&Review{}).Where("user_id = ? AND product_id = ?", userID, product.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyReviewed
		}

		review.ProductID = product.ID
		if err := tx.Create(&review).Error; err != nil {
			if apperror.IsUniqueViolation(err) {
				return ErrAlreadyReviewed.Wrap(err)
			}
			return err
		}
		return refreshRating(tx, product.ID)
	})
	if err != nil {
		return nil, s.wrap(err, "failed to create review")
	}

	s.log.WithFields(logrus.Fields{"review_id": review.ID, "product_id": review.ProductID}).Info("review created")
	return &review, nil
}

// UpdateReview edits the user's own review of the product
func (s *ReviewService) UpdateReview(ctx context.Context, userID uint, slug string, req *UpdateReviewRequest) (*Review, error) {
	if req.Rating != nil && !validRating(*req.Rating) {
		return nil, ErrInvalidRating
	}

	var review Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := reviewableProduct(tx, slug)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND product_id = ?", userID, product.ID).First(&review).Error; err != nil {
			if apperror.IsNotFound(err) {
				return ErrReviewNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if req.Rating != nil {
			updates["rating"] = req.Rating.Round(1)
		}
		if req.Comment != nil {
			updates["comment"] = *req.Comment
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&review).Updates(updates).Error; err != nil {
			return err
		}
		if err := refreshRating(tx, product.ID); err != nil {
			return err
		}
		return tx.First(&review, review.ID).Error
	})
	if err != nil {
		return nil, s.wrap(err, "failed to update review")
	}
	return &review, nil
}

// DeleteReview removes the user's own review of the product
func (s *ReviewService) DeleteReview(ctx context.Context, userID uint, slug string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := reviewableProduct(tx, slug)
		if err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND product_id = ?", userID, product.ID).Delete(&Review{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return refreshRating(tx, product.ID)
	})
	if err != nil {
		return s.wrap(err, "failed to delete review")
	}
	return nil
}

func (s *ReviewService) wrap(err error, msg string) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func reviewableProduct(tx *gorm.DB, slug string) (*Product, error) {
	var product Product
	if err := tx.Preload("SellerShop").Where("slug = ?", slug).First(&product).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// refreshRating recomputes the average rating and review count of a product
func refreshRating(tx *gorm.DB, productID uint) error {
	var ratings []decimal.Decimal
	if err := tx.Model(&Review{}).Where("product_id = ?", productID).Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	avg := decimal.Zero
	if len(ratings) > 0 {
		avg = decimal.Sum(ratings[0], ratings[1:]...).
			Div(decimal.NewFromInt(int64(len(ratings)))).
			Round(2)
	}

	return tx.Model(&Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":      avg,
		"num_reviews": len(ratings),
	}).Error
}
