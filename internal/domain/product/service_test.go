package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/pkg/testutil"
	"gorm.io/gorm"
)

type ProductServiceSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	products *Service
	reviews  *ReviewService
	catalog  *CatalogService

	seller   user.User
	other    user.User
	customer user.User
	category *Category
	brand    *Brand
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}

func (s *ProductServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T(),
		&user.User{}, &user.SellerShop{},
		&Category{}, &Brand{}, &Attribute{}, &AttributeValue{}, &Product{}, &Review{},
	)
	log := logger.Discard()
	s.products = NewService(s.db, log)
	s.reviews = NewReviewService(s.db, log)
	s.catalog = NewCatalogService(s.db)

	s.seller = s.createUser("seller", user.RoleSeller, "Tech Store")
	s.other = s.createUser("other", user.RoleSeller, "Other Store")
	s.customer = s.createUser("buyer", user.RoleCustomer, "")

	var err error
	s.category, err = s.catalog.CreateCategory(s.ctx, &NamedCreateRequest{Name: "Home Garden"})
	s.Require().NoError(err)
	s.brand, err = s.catalog.CreateBrand(s.ctx, &NamedCreateRequest{Name: "Acme"})
	s.Require().NoError(err)
}

func (s *ProductServiceSuite) createUser(name string, role user.Role, shop string) user.User {
	u := user.User{
		Email:     name + "@example.com",
		Username:  name,
		Password:  "x",
		FirstName: name,
		Role:      role,
		IsActive:  true,
	}
	s.Require().NoError(s.db.Create(&u).Error)
	if shop != "" {
		s.Require().NoError(s.db.Create(&user.SellerShop{
			OwnerID:  u.ID,
			ShopName: shop,
			Slug:     name + "-shop",
		}).Error)
	}
	return u
}

func (s *ProductServiceSuite) createProduct(name string, price string, stock int) *Product {
	p, err := s.products.CreateProduct(s.ctx, s.seller.ID, &ProductCreateRequest{
		Name:       name,
		CategoryID: s.category.ID,
		BrandID:    s.brand.ID,
		PriceNew:   decimal.RequireFromString(price),
		StockQty:   stock,
	})
	s.Require().NoError(err)
	return p
}

func (s *ProductServiceSuite) TestCreateProductSetsDerivedFields() {
	p := s.createProduct("Lawn mower", "199.99", 4)

	s.Equal("lawn-mower", p.Slug)
	s.Regexp(`^HG-LAW[0-9A-F]{6}$`, p.Article)
	s.True(p.PriceOld.Equal(p.PriceNew))
	s.True(p.IsAvailable)
	s.Equal("Home Garden", p.Category.Name)
	s.Require().NotNil(p.SellerShop)
	s.Equal(s.seller.ID, p.SellerShop.OwnerID)
}

func (s *ProductServiceSuite) TestDuplicateNameGetsDistinctSlug() {
	first := s.createProduct("Rake", "10", 1)
	second := s.createProduct("Rake", "12", 1)

	s.Equal("rake", first.Slug)
	s.NotEqual(first.Slug, second.Slug)
	s.Contains(second.Slug, "rake-")
}

func (s *ProductServiceSuite) TestCustomerCannotCreateProduct() {
	_, err := s.products.CreateProduct(s.ctx, s.customer.ID, &ProductCreateRequest{
		Name:       "Shovel",
		CategoryID: s.category.ID,
		BrandID:    s.brand.ID,
		PriceNew:   decimal.NewFromInt(5),
	})
	s.ErrorIs(err, ErrNotSeller)
}

func (s *ProductServiceSuite) TestCreateRejectsUnknownCategoryAndBadPrice() {
	_, err := s.products.CreateProduct(s.ctx, s.seller.ID, &ProductCreateRequest{
		Name: "Hose", CategoryID: 999, BrandID: s.brand.ID, PriceNew: decimal.NewFromInt(5),
	})
	s.ErrorIs(err, ErrCategoryNotFound)

	_, err = s.products.CreateProduct(s.ctx, s.seller.ID, &ProductCreateRequest{
		Name: "Hose", CategoryID: s.category.ID, BrandID: s.brand.ID, PriceNew: decimal.Zero,
	})
	s.ErrorIs(err, ErrInvalidPrice)
}

func (s *ProductServiceSuite) TestPriceChangeKeepsPreviousPrice() {
	p := s.createProduct("Trimmer", "100", 3)

	newPrice := decimal.NewFromInt(80)
	updated, err := s.products.UpdateProduct(s.ctx, s.seller.ID, p.Slug, &ProductUpdateRequest{PriceNew: &newPrice})
	s.Require().NoError(err)

	s.True(updated.PriceNew.Equal(decimal.NewFromInt(80)))
	s.True(updated.PriceOld.Equal(decimal.NewFromInt(100)))
	s.Equal(20, updated.GetDiscountPercentage())
}

func (s *ProductServiceSuite) TestOnlyOwnerCanUpdateOrDelete() {
	p := s.createProduct("Sprinkler", "30", 3)

	stock := 10
	_, err := s.products.UpdateProduct(s.ctx, s.other.ID, p.Slug, &ProductUpdateRequest{StockQty: &stock})
	s.ErrorIs(err, ErrNotProductOwner)

	s.ErrorIs(s.products.DeleteProduct(s.ctx, s.other.ID, p.Slug), ErrNotProductOwner)
	s.NoError(s.products.DeleteProduct(s.ctx, s.seller.ID, p.Slug))

	_, err = s.products.GetProductBySlug(s.ctx, p.Slug)
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *ProductServiceSuite) TestListShowsOnlyAvailableAndSearches() {
	s.createProduct("Garden hose", "15", 2)
	hidden := s.createProduct("Old hose", "5", 2)
	off := false
	_, err := s.products.UpdateProduct(s.ctx, s.seller.ID, hidden.Slug, &ProductUpdateRequest{IsAvailable: &off})
	s.Require().NoError(err)

	all, err := s.products.GetProducts(s.ctx, &ProductListRequest{})
	s.Require().NoError(err)
	s.Len(all, 1)
	s.Equal("Garden hose", all[0].Name)

	var req ProductListRequest
	req.Search = "acme"
	found, err := s.products.GetProducts(s.ctx, &req)
	s.Require().NoError(err)
	s.Len(found, 1)

	req.Search = "nothing-like-this"
	none, err := s.products.GetProducts(s.ctx, &req)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *ProductServiceSuite) TestListOrdering() {
	s.createProduct("Cheap", "1", 1)
	s.createProduct("Pricey", "100", 1)

	var req ProductListRequest
	req.Ordering = "-price_new"
	list, err := s.products.GetProducts(s.ctx, &req)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Pricey", list[0].Name)

	req.Ordering = "price_new"
	list, err = s.products.GetProducts(s.ctx, &req)
	s.Require().NoError(err)
	s.Equal("Cheap", list[0].Name)
}

func (s *ProductServiceSuite) TestAttributeValuesAttachToProduct() {
	attr, err := s.catalog.CreateAttribute(s.ctx, &AttributeCreateRequest{Name: "color"})
	s.Require().NoError(err)
	red, err := s.catalog.CreateAttributeValue(s.ctx, &AttributeValueCreateRequest{AttributeID: attr.ID, Value: "red"})
	s.Require().NoError(err)

	p, err := s.products.CreateProduct(s.ctx, s.seller.ID, &ProductCreateRequest{
		Name:              "Bucket",
		CategoryID:        s.category.ID,
		BrandID:           s.brand.ID,
		PriceNew:          decimal.NewFromInt(3),
		AttributeValueIDs: []uint{red.ID},
	})
	s.Require().NoError(err)
	s.Require().Len(p.AttributeValues, 1)
	s.Equal("red", p.AttributeValues[0].Value)

	_, err = s.products.CreateProduct(s.ctx, s.seller.ID, &ProductCreateRequest{
		Name:              "Bucket 2",
		CategoryID:        s.category.ID,
		BrandID:           s.brand.ID,
		PriceNew:          decimal.NewFromInt(3),
		AttributeValueIDs: []uint{red.ID, 999},
	})
	s.ErrorIs(err, ErrAttributeValueNotFound)
}

func (s *ProductServiceSuite) TestDuplicateCategoryIsConflict() {
	_, err := s.catalog.CreateCategory(s.ctx, &NamedCreateRequest{Name: "Home Garden"})
	s.ErrorIs(err, ErrDuplicateName)
}

func (s *ProductServiceSuite) TestReviewsMaintainRating() {
	p := s.createProduct("Shears", "20", 5)
	second := s.createUser("buyer2", user.RoleCustomer, "")

	_, err := s.reviews.CreateReview(s.ctx, s.customer.ID, p.Slug, &CreateReviewRequest{Rating: decimal.NewFromInt(5), Comment: "great"})
	s.Require().NoError(err)
	_, err = s.reviews.CreateReview(s.ctx, second.ID, p.Slug, &CreateReviewRequest{Rating: decimal.NewFromInt(4)})
	s.Require().NoError(err)

	got, err := s.products.GetProductBySlug(s.ctx, p.Slug)
	s.Require().NoError(err)
	s.Equal(2, got.NumReviews)
	s.True(got.Rating.Equal(decimal.RequireFromString("4.5")), got.Rating.String())
	s.Len(got.Reviews, 2)

	low := decimal.NewFromInt(1)
	_, err = s.reviews.UpdateReview(s.ctx, second.ID, p.Slug, &UpdateReviewRequest{Rating: &low})
	s.Require().NoError(err)
	got, _ = s.products.GetProductBySlug(s.ctx, p.Slug)
	s.True(got.Rating.Equal(decimal.NewFromInt(3)), got.Rating.String())

	s.Require().NoError(s.reviews.DeleteReview(s.ctx, s.customer.ID, p.Slug))
	got, _ = s.products.GetProductBySlug(s.ctx, p.Slug)
	s.Equal(1, got.NumReviews)
	s.True(got.Rating.Equal(decimal.NewFromInt(1)), got.Rating.String())
}

func (s *ProductServiceSuite) TestReviewRules() {
	p := s.createProduct("Gloves", "7", 5)

	_, err := s.reviews.CreateReview(s.ctx, s.seller.ID, p.Slug, &CreateReviewRequest{Rating: decimal.NewFromInt(5)})
	s.ErrorIs(err, ErrOwnProductReview)

	_, err = s.reviews.CreateReview(s.ctx, s.customer.ID, p.Slug, &CreateReviewRequest{Rating: decimal.NewFromInt(6)})
	s.ErrorIs(err, ErrInvalidRating)

	_, err = s.reviews.CreateReview(s.ctx, s.customer.ID, p.Slug, &CreateReviewRequest{Rating: decimal.NewFromInt(3)})
	s.Require().NoError(err)
	_, err = s.reviews.CreateReview(s.ctx, s.customer.ID, p.Slug, &CreateReviewRequest{Rating: decimal.NewFromInt(3)})
	s.ErrorIs(err, ErrAlreadyReviewed)

	s.ErrorIs(s.reviews.DeleteReview(s.ctx, s.other.ID, p.Slug), ErrReviewNotFound)
}

func TestGenerateArticle(t *testing.T) {
	assert.Regexp(t, `^E-TV[0-9A-F]{6}$`, GenerateArticle("Electronics", "TV"))
	assert.Regexp(t, `^SO-RUN[0-9A-F]{6}$`, GenerateArticle("Sports outdoors", "Running shoes"))
	assert.NotEqual(t, GenerateArticle("Books", "Novel"), GenerateArticle("Books", "Novel"))
}
