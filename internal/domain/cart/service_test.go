package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/pkg/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	owner   user.User
	other   user.User
	staff   user.User
	phone   product.Product
	charger product.Product
	red     product.AttributeValue
	hidden  product.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&user.User{}, &user.SellerShop{},
		&product.Category{}, &product.Brand{}, &product.Attribute{}, &product.AttributeValue{},
		&product.Product{}, &product.Review{},
		&Cart{}, &CartItem{},
	)
	f := &fixture{db: db, svc: NewService(db, logger.Discard())}

	mkUser := func(name string, staff bool) user.User {
		u := user.User{Email: name + "@example.com", Username: name, Password: "x", IsActive: true, IsStaff: staff}
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	f.owner = mkUser("owner", false)
	f.other = mkUser("other", false)
	f.staff = mkUser("staff", true)
	seller := mkUser("seller", false)

	shop := user.SellerShop{OwnerID: seller.ID, ShopName: "Tech Store", Slug: "tech-store"}
	require.NoError(t, db.Create(&shop).Error)
	category := product.Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, db.Create(&category).Error)
	brand := product.Brand{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.Create(&brand).Error)
	color := product.Attribute{Name: "color"}
	require.NoError(t, db.Create(&color).Error)
	f.red = product.AttributeValue{AttributeID: color.ID, Value: "red"}
	require.NoError(t, db.Create(&f.red).Error)

	mkProduct := func(name, price string, stock int, available bool) product.Product {
		p := product.Product{
			SellerShopID: shop.ID,
			CategoryID:   category.ID,
			BrandID:      brand.ID,
			Name:         name,
			Slug:         name,
			Article:      "A-" + name,
			PriceNew:     decimal.RequireFromString(price),
			PriceOld:     decimal.RequireFromString(price),
			StockQty:     stock,
			IsAvailable:  available,
		}
		require.NoError(t, db.Create(&p).Error)
		return p
	}
	f.phone = mkProduct("phone", "100", 10, true)
	f.charger = mkProduct("charger", "50", 2, true)
	f.hidden = mkProduct("hidden", "1", 5, false)
	require.NoError(t, db.Model(&f.phone).Association("AttributeValues").Append(&f.red))

	return f
}

func (f *fixture) as(u user.User) Requester {
	return Requester{UserID: u.ID, IsStaff: u.IsStaff}
}

func (f *fixture) newCart(t *testing.T) uuid.UUID {
	t.Helper()
	resp, created, err := f.svc.CreateCart(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.True(t, created)
	return resp.ID
}

func TestCreateCartIsGetOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.CreateCart(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Empty(t, first.Items)
	assert.True(t, first.TotalPrice.IsZero())

	second, created, err := f.svc.CreateCart(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestAddItemMergesAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.newCart(t)
	me := f.as(f.owner)

	item, err := f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.phone.ID, AttributeValueID: &f.red.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "Tech Store", item.Product.SellerShop)
	require.NotNil(t, item.AttributeValue)
	assert.Equal(t, "red", item.AttributeValue.Value)

	merged, err := f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.phone.ID, AttributeValueID: &f.red.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, item.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)
	assert.True(t, merged.SubTotal.Equal(decimal.NewFromInt(300)))

	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.charger.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := f.svc.GetCart(ctx, cartID, me)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItem)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(350)), cart.TotalPrice.String())
	assert.Equal(t, f.phone.ID, cart.Items[0].Product.ID)
}

func TestAddItemRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.newCart(t)
	me := f.as(f.owner)

	_, err := f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.hidden.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: 9999, Quantity: 1})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.charger.ID, AttributeValueID: &f.red.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidVariant)

	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.charger.ID, Quantity: 3})
	assert.ErrorIs(t, err, ErrExceedsStock)

	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.charger.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.newCart(t)

	_, err := f.svc.GetCart(ctx, cartID, f.as(f.other))
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.AddItem(ctx, cartID, f.as(f.other), &AddItemRequest{ProductID: f.phone.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.svc.GetCart(ctx, cartID, f.as(f.staff))
	assert.NoError(t, err)

	own, err := f.svc.ListCarts(ctx, f.as(f.other))
	require.NoError(t, err)
	assert.Empty(t, own)

	all, err := f.svc.ListCarts(ctx, f.as(f.staff))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.newCart(t)
	me := f.as(f.owner)

	phone, err := f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.phone.ID, Quantity: 1})
	require.NoError(t, err)
	chargerItem, err := f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.charger.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := f.svc.UpdateItem(ctx, cartID, phone.ID, me, &UpdateItemRequest{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = f.svc.UpdateItem(ctx, cartID, chargerItem.ID, me, &UpdateItemRequest{Quantity: 3})
	assert.ErrorIs(t, err, ErrExceedsStock)

	require.NoError(t, f.svc.RemoveItem(ctx, cartID, chargerItem.ID, me))
	assert.ErrorIs(t, f.svc.RemoveItem(ctx, cartID, chargerItem.ID, me), ErrItemNotFound)

	items, err := f.svc.ListItems(ctx, cartID, me)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	removed, err := f.svc.ClearItems(ctx, cartID, me)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	items, err = f.svc.ListItems(ctx, cartID, me)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.newCart(t)
	me := f.as(f.owner)

	_, err := f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.phone.ID, Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteCart(ctx, cartID, f.as(f.other)), ErrCartNotFound)
	require.NoError(t, f.svc.DeleteCart(ctx, cartID, me))

	var items int64
	require.NoError(t, f.db.Model(&CartItem{}).Count(&items).Error)
	assert.Zero(t, items)

	_, err = f.svc.GetCart(ctx, cartID, me)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.newCart(t)
	me := f.as(f.owner)

	_, err := Snapshot(f.db, uuid.New())
	assert.ErrorIs(t, err, ErrCartNotFound)

	empty, err := Snapshot(f.db, cartID)
	assert.ErrorIs(t, err, ErrEmptyCart)
	require.NotNil(t, empty)
	assert.Equal(t, f.owner.ID, empty.UserID)

	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.charger.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, cartID, me, &AddItemRequest{ProductID: f.phone.ID, Quantity: 2})
	require.NoError(t, err)

	snap, err := Snapshot(f.db, cartID)
	require.NoError(t, err)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, f.charger.ID, snap.Items[0].ProductID)
	assert.Equal(t, "Electronics", snap.Items[1].Product.Category.Name)
	assert.Equal(t, "Acme", snap.Items[1].Product.Brand.Name)
	assert.Equal(t, 2, snap.Items[1].Quantity)
}
