package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/pkg/testutil"
)

const goodPassword = "Market9!Place"

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewDB(t, &User{}, &SellerShop{})
	return NewService(db, testutil.Config(), logger.Discard())
}

func registerRequest(email, username string) *RegisterRequest {
	return &RegisterRequest{
		Email:           email,
		Username:        username,
		Password:        goodPassword,
		ConfirmPassword: goodPassword,
		FirstName:       "olena",
		LastName:        "shevchenko",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	resp, err := svc.Register(ctx, registerRequest("Olena@Example.com", "olena"))
	require.NoError(t, err)

	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "olena@example.com", resp.User.Email)
	assert.Equal(t, RoleCustomer, resp.User.Role)
	assert.Equal(t, "Olena Shevchenko", resp.User.GetFullName())
	assert.NotEqual(t, goodPassword, resp.User.Password)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := auth.NewJWTManager(testutil.Config()).ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.False(t, claims.IsStaff)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, registerRequest("olena@example.com", "olena"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("OLENA@example.com", "another"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, registerRequest("other@example.com", "olena"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterValidatesPasswords(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	req := registerRequest("a@example.com", "aaa")
	req.ConfirmPassword = "Different9!"
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	req = registerRequest("a@example.com", "aaa")
	req.Password, req.ConfirmPassword = "short", "short"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterSellerCreatesShop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	resp, err := svc.RegisterSeller(ctx, &RegisterSellerRequest{
		RegisterRequest: *registerRequest("shop@example.com", "shopkeeper"),
		ShopName:        "Tech Store",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, resp.User.Role)
	require.NotNil(t, resp.User.SellerShop)
	assert.Equal(t, "Tech Store", resp.User.SellerShop.ShopName)
	assert.Regexp(t, `^tech-store-[0-9a-f]{4}$`, resp.User.SellerShop.Slug)

	shop, err := svc.GetSellerShop(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", shop.Email)

	// shop name defaults to the username
	resp, err = svc.RegisterSeller(ctx, &RegisterSellerRequest{
		RegisterRequest: *registerRequest("second@example.com", "second"),
	})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.User.SellerShop.ShopName)
}

func TestRegisterSellerDuplicateShopRollsBack(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.RegisterSeller(ctx, &RegisterSellerRequest{
		RegisterRequest: *registerRequest("one@example.com", "one"),
		ShopName:        "Same",
	})
	require.NoError(t, err)

	_, err = svc.RegisterSeller(ctx, &RegisterSellerRequest{
		RegisterRequest: *registerRequest("two@example.com", "two"),
		ShopName:        "Same",
	})
	assert.ErrorIs(t, err, ErrShopNameTaken)

	var count int64
	require.NoError(t, svc.db.Model(&User{}).Where("email = ?", "two@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateSellerShop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	seller, err := svc.RegisterSeller(ctx, &RegisterSellerRequest{
		RegisterRequest: *registerRequest("shop@example.com", "shopkeeper"),
		ShopName:        "Tech Store",
	})
	require.NoError(t, err)
	_, err = svc.RegisterSeller(ctx, &RegisterSellerRequest{
		RegisterRequest: *registerRequest("rival@example.com", "rival"),
		ShopName:        "Rival",
	})
	require.NoError(t, err)

	name, email := "Tech Corner", "SALES@Example.com"
	shop, err := svc.UpdateSellerShop(ctx, seller.User.ID, &UpdateShopRequest{ShopName: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Tech Corner", shop.ShopName)
	assert.Equal(t, "sales@example.com", shop.Email)

	taken := "Rival"
	_, err = svc.UpdateSellerShop(ctx, seller.User.ID, &UpdateShopRequest{ShopName: &taken})
	assert.ErrorIs(t, err, ErrShopNameTaken)

	customer, err := svc.Register(ctx, registerRequest("buyer@example.com", "buyer"))
	require.NoError(t, err)
	_, err = svc.UpdateSellerShop(ctx, customer.User.ID, &UpdateShopRequest{ShopName: &name})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, registerRequest("olena@example.com", "olena"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Email: "Olena@example.com", Password: goodPassword})
	require.NoError(t, err)
	assert.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(ctx, &LoginRequest{Email: "olena@example.com", Password: "Wrong9!Pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: goodPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	reg, err := svc.Register(ctx, registerRequest("olena@example.com", "olena"))
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	_, err = svc.RefreshToken(ctx, reg.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	a, err := svc.Register(ctx, registerRequest("a@example.com", "alpha"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest("b@example.com", "bravo"))
	require.NoError(t, err)

	phone := "+380501112233"
	updated, err := svc.UpdateProfile(ctx, a.User.ID, &UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)

	taken := "bravo"
	_, err = svc.UpdateProfile(ctx, a.User.ID, &UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = svc.ChangePassword(ctx, a.User.ID, "Wrong9!Pass", "Fresh9!Secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, a.User.ID, goodPassword, "Fresh9!Secret"))
	_, err = svc.Login(ctx, &LoginRequest{Email: "a@example.com", Password: "Fresh9!Secret"})
	assert.NoError(t, err)
}

func TestDisplayName(t *testing.T) {
	u := &User{Username: "nick"}
	assert.Equal(t, "nick", u.GetDisplayName())

	u.FirstName, u.LastName = "IVAN", "franko"
	assert.Equal(t, "Ivan Franko", u.GetDisplayName())
}
