// internal/domain/product/category_service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/textutil"
	"gorm.io/gorm"
)

// CatalogService handles categories, brands and variant attributes
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// NamedCreateRequest creates a category or a brand
type NamedCreateRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// AttributeCreateRequest creates a variant attribute
type AttributeCreateRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AttributeValueCreateRequest creates a value of an attribute
type AttributeValueCreateRequest struct {
	AttributeID uint   `json:"attribute_id" binding:"required"`
	Value       string `json:"value" binding:"required,max=100"`
}

// GetCategories lists all categories by name
func (s *CatalogService) GetCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(ctx context.Context, req *NamedCreateRequest) (*Category, error) {
	category := Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        textutil.Slugify(req.Name),
		Description: req.Description,
	}
	if err := s.create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetBrands lists all brands by name
func (s *CatalogService) GetBrands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve brands: %w", err)
	}
	return brands, nil
}

// CreateBrand creates a new brand
func (s *CatalogService) CreateBrand(ctx context.Context, req *NamedCreateRequest) (*Brand, error) {
	brand := Brand{
		Name:        strings.TrimSpace(req.Name),
		Slug:        textutil.Slugify(req.Name),
		Description: req.Description,
	}
	if err := s.create(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// GetAttributes lists attributes together with their values
func (s *CatalogService) GetAttributes(ctx context.Context) ([]Attribute, error) {
	var attributes []Attribute
	err := s.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("value ASC") }).
		Order("name ASC").
		Find(&attributes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve attributes: %w", err)
	}
	return attributes, nil
}

// CreateAttribute creates a new attribute
func (s *CatalogService) CreateAttribute(ctx context.Context, req *AttributeCreateRequest) (*Attribute, error) {
	attribute := Attribute{Name: strings.TrimSpace(req.Name)}
	if err := s.create(ctx, &attribute); err != nil {
		return nil, err
	}
	return &attribute, nil
}

// GetAttributeValues lists every attribute value
func (s *CatalogService) GetAttributeValues(ctx context.Context) ([]AttributeValue, error) {
	var values []AttributeValue
	if err := s.db.WithContext(ctx).Preload("Attribute").Order("attribute_id ASC, value ASC").Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve attribute values: %w", err)
	}
	return values, nil
}

// CreateAttributeValue creates a value for an existing attribute
func (s *CatalogService) CreateAttributeValue(ctx context.Context, req *AttributeValueCreateRequest) (*AttributeValue, error) {
	var attribute Attribute
	if err := s.db.WithContext(ctx).First(&attribute, req.AttributeID).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("failed to load attribute: %w", err)
	}

	value := AttributeValue{AttributeID: attribute.ID, Value: strings.TrimSpace(req.Value)}
	if err := s.create(ctx, &value); err != nil {
		return nil, err
	}
	value.Attribute = &attribute
	return &value, nil
}

func (s *CatalogService) create(ctx context.Context, entity interface{}) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		if apperror.IsUniqueViolation(err) {
			return ErrDuplicateName.Wrap(err)
		}
		return fmt.Errorf("failed to create %T: %w", entity, err)
	}
	return nil
}
