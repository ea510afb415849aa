// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/listing"
	"github.com/your-org/marketplace-backend/internal/pkg/textutil"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewService creates a new product service
func NewService(db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{db: db, log: log}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	listing.Params
	CategoryID uint `form:"category_id"`
	BrandID    uint `form:"brand_id"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name              string          `json:"product_name" binding:"required,max=255"`
	Description       string          `json:"description"`
	CategoryID        uint            `json:"category_id" binding:"required"`
	BrandID           uint            `json:"brand_id" binding:"required"`
	AttributeValueIDs []uint          `json:"attribute_value_ids"`
	PriceNew          decimal.Decimal `json:"price_new" binding:"gt=0"`
	StockQty          int             `json:"stock_qty" binding:"gte=0"`
	IsAvailable       *bool           `json:"is_available"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name              *string          `json:"product_name" binding:"omitempty,min=1,max=255"`
	Description       *string          `json:"description"`
	CategoryID        *uint            `json:"category_id"`
	BrandID           *uint            `json:"brand_id"`
	AttributeValueIDs []uint           `json:"attribute_value_ids"`
	PriceNew          *decimal.Decimal `json:"price_new" binding:"omitempty,gt=0"`
	StockQty          *int             `json:"stock_qty" binding:"omitempty,gte=0"`
	IsAvailable       *bool            `json:"is_available"`
}

var productOrderFields = map[string]string{
	"product_name": "products.name",
	"price_new":    "products.price_new",
	"stock_qty":    "products.stock_qty",
	"rating":       "products.rating",
	"created_at":   "products.created_at",
}

// GetProducts lists available products with search and ordering
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) ([]Product, error) {
	query := s.db.WithContext(ctx).Model(&Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN brands ON brands.id = products.brand_id").
		Joins("JOIN seller_shops ON seller_shops.id = products.seller_shop_id").
		Preload("Category").
		Preload("Brand").
		Preload("SellerShop").
		Preload("AttributeValues.Attribute").
		Where("products.is_available = ?", true)

	if req.CategoryID > 0 {
		query = query.Where("products.category_id = ?", req.CategoryID)
	}
	if req.BrandID > 0 {
		query = query.Where("products.brand_id = ?", req.BrandID)
	}
	if strings.TrimSpace(req.Search) != "" {
		search := listing.LikePattern(req.Search)
		query = query.Where(
			`LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(categories.name) LIKE ? ESCAPE '\' OR LOWER(brands.name) LIKE ? ESCAPE '\' OR LOWER(seller_shops.shop_name) LIKE ? ESCAPE '\'`,
			search, search, search, search,
		)
	}

	query = query.Order(listing.OrderClause(req.Ordering, productOrderFields, "products.created_at DESC"))

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetProductBySlug retrieves a single available product with its reviews
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("SellerShop").
		Preload("AttributeValues.Attribute").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("slug = ? AND is_available = ?", slug, true).
		First(&product).Error
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// CreateProduct creates a product in the seller's shop
func (s *Service) CreateProduct(ctx context.Context, sellerID uint, req *ProductCreateRequest) (*Product, error) {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !req.PriceNew.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if req.StockQty < 0 {
		return nil, ErrInvalidStock
	}

	category, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBrand(ctx, req.BrandID); err != nil {
		return nil, err
	}
	values, err := s.attributeValues(ctx, req.AttributeValueIDs)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	product := Product{
		SellerShopID:    shop.ID,
		CategoryID:      category.ID,
		BrandID:         req.BrandID,
		Name:            strings.TrimSpace(req.Name),
		Slug:            slug,
		Article:         GenerateArticle(category.Name, req.Name),
		Description:     req.Description,
		PriceNew:        req.PriceNew,
		PriceOld:        req.PriceNew,
		StockQty:        req.StockQty,
		IsAvailable:     true,
		AttributeValues: values,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.WithFields(logrus.Fields{"product_id": product.ID, "shop_id": shop.ID}).Info("product created")
	return s.reload(ctx, product.ID)
}

// UpdateProduct updates a product owned by the seller. A price change keeps
// the previous price in price_old.
func (s *Service) UpdateProduct(ctx context.Context, sellerID uint, slug string, req *ProductUpdateRequest) (*Product, error) {
	product, err := s.ownedProduct(ctx, sellerID, slug)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil && strings.TrimSpace(*req.Name) != product.Name {
		newSlug, err := s.uniqueSlug(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = strings.TrimSpace(*req.Name)
		updates["slug"] = newSlug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		if _, err := s.category(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.BrandID != nil {
		if err := s.ensureBrand(ctx, *req.BrandID); err != nil {
			return nil, err
		}
		updates["brand_id"] = *req.BrandID
	}
	if req.PriceNew != nil {
		if !req.PriceNew.IsPositive() {
			return nil, ErrInvalidPrice
		}
		if !req.PriceNew.Equal(product.PriceNew) {
			updates["price_old"] = product.PriceNew
			updates["price_new"] = *req.PriceNew
		}
	}
	if req.StockQty != nil {
		if *req.StockQty < 0 {
			return nil, ErrInvalidStock
		}
		updates["stock_qty"] = *req.StockQty
		updates["version"] = gorm.Expr("version + 1")
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(product).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.AttributeValueIDs != nil {
			values, err := attributeValuesTx(tx, req.AttributeValueIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(product).Association("AttributeValues").Replace(values); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.reload(ctx, product.ID)
}

// DeleteProduct removes a product owned by the seller
func (s *Service) DeleteProduct(ctx context.Context, sellerID uint, slug string) error {
	product, err := s.ownedProduct(ctx, sellerID, slug)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(product).Association("AttributeValues").Clear(); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrProductInUse.Wrap(err)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.log.WithField("product_id", product.ID).Info("product deleted")
	return nil
}

// GenerateArticle builds the stock-keeping article: category initials, a
// dash, the first three characters of the name and a random suffix.
func GenerateArticle(categoryName, productName string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(categoryName) {
		initials.WriteString(textutil.FirstRune(word))
	}
	compact := strings.ReplaceAll(strings.TrimSpace(productName), " ", "")
	return strings.ToUpper(initials.String() + "-" + textutil.Prefix(compact, 3) + textutil.RandomToken(6))
}

func (s *Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := textutil.Slugify(name)
	if base == "" {
		base = "product"
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Where("slug = ?", base).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if count == 0 {
		return base, nil
	}
	return base + "-" + strings.ToLower(textutil.RandomToken(6)), nil
}

func (s *Service) sellerShop(ctx context.Context, sellerID uint) (*user.SellerShop, error) {
	var shop user.SellerShop
	if err := s.db.WithContext(ctx).Where("owner_id = ?", sellerID).First(&shop).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotSeller
		}
		return nil, fmt.Errorf("failed to load seller shop: %w", err)
	}
	return &shop, nil
}

func (s *Service) ownedProduct(ctx context.Context, sellerID uint, slug string) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).Preload("SellerShop").Where("slug = ?", slug).First(&product).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product.SellerShop == nil || product.SellerShop.OwnerID != sellerID {
		return nil, ErrNotProductOwner
	}
	return &product, nil
}

func (s *Service) category(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

func (s *Service) ensureBrand(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Brand{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load brand: %w", err)
	}
	if count == 0 {
		return ErrBrandNotFound
	}
	return nil
}

func (s *Service) attributeValues(ctx context.Context, ids []uint) ([]AttributeValue, error) {
	return attributeValuesTx(s.db.WithContext(ctx), ids)
}

func attributeValuesTx(db *gorm.DB, ids []uint) ([]AttributeValue, error) {
	if len(ids) == 0 {
		return []AttributeValue{}, nil
	}
	var values []AttributeValue
	if err := db.Where("id IN ?", ids).Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to load attribute values: %w", err)
	}
	if len(values) != len(uniqueIDs(ids)) {
		return nil, ErrAttributeValueNotFound
	}
	return values, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s *Service) reload(ctx context.Context, id uint) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("SellerShop").
		Preload("AttributeValues.Attribute").
		First(&product, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}
