// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/content"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Deps holds the services exposed over HTTP
type Deps struct {
	Config      *config.Config
	Log         logrus.FieldLogger
	Users       *user.Service
	Products    *product.Service
	Catalog     *product.CatalogService
	Reviews     *product.ReviewService
	Carts       *cart.Service
	Orders      *order.Service
	TaxResolver *order.TaxResolver
	Taxes       *order.TaxService
	Content     *content.Service
	Invoices    *pdf.Service
}

// NewDeps builds the services on top of the database. cache may be nil, in
// which case the default tax is read from the database every time.
func NewDeps(db *gorm.DB, cache redis.Cmdable, events order.EventPublisher, cfg *config.Config, log logrus.FieldLogger) Deps {
	taxResolver := order.NewTaxResolver(db, cache, cfg, log)
	return Deps{
		Config:      cfg,
		Log:         log,
		Users:       user.NewService(db, cfg, log),
		Products:    product.NewService(db, log),
		Catalog:     product.NewCatalogService(db),
		Reviews:     product.NewReviewService(db, log),
		Carts:       cart.NewService(db, log),
		Orders:      order.NewService(db, cfg, events, log),
		TaxResolver: taxResolver,
		Taxes:       order.NewTaxService(db, taxResolver, log),
		Content:     content.NewService(db),
		Invoices:    pdf.NewService(cfg),
	}
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, deps Deps) {
	handlers.RegisterValidators()

	authRequired := middleware.AuthMiddleware(deps.Config)
	staffOnly := middleware.StaffMiddleware()

	SetupUserRoutes(rg, deps, authRequired)
	SetupProductRoutes(rg, deps, authRequired)
	SetupCatalogRoutes(rg, deps, authRequired, staffOnly)
	SetupCartRoutes(rg, deps, authRequired)
	SetupOrderRoutes(rg, deps, authRequired, staffOnly)
	SetupContentRoutes(rg, deps)
}

// SetupUserRoutes sets up registration, token and profile routes
func SetupUserRoutes(rg *gin.RouterGroup, deps Deps, authRequired gin.HandlerFunc) {
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Log)
	profileHandler := handlers.NewUserProfileHandler(deps.Users, deps.Log)

	users := rg.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/register-seller-shop", authHandler.RegisterSeller)
		users.POST("/token", authHandler.Login)
		users.POST("/token/refresh", authHandler.RefreshToken)

		protected := users.Group("")
		protected.Use(authRequired)
		{
			protected.GET("/me", profileHandler.GetProfile)
			protected.PATCH("/me", profileHandler.UpdateProfile)
			protected.POST("/me/password", profileHandler.ChangePassword)
			protected.GET("/seller-shop", profileHandler.GetSellerShop)
			protected.PATCH("/seller-shop", profileHandler.UpdateSellerShop)
		}
	}
}

// SetupProductRoutes sets up product and review routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Deps, authRequired gin.HandlerFunc) {
	productHandler := handlers.NewProductHandler(deps.Products, deps.Log)
	reviewHandler := handlers.NewReviewHandler(deps.Reviews, deps.Log)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:slug", productHandler.GetProduct)

		protected := products.Group("")
		protected.Use(authRequired)
		{
			protected.POST("", productHandler.CreateProduct)
			protected.PATCH("/:slug", productHandler.UpdateProduct)
			protected.DELETE("/:slug", productHandler.DeleteProduct)

			protected.POST("/:slug/review", reviewHandler.CreateReview)
			protected.PATCH("/:slug/review", reviewHandler.UpdateReview)
			protected.DELETE("/:slug/review", reviewHandler.DeleteReview)
		}
	}
}

// SetupCatalogRoutes sets up categories, brands and attributes. Reads are
// public, writes are staff only.
func SetupCatalogRoutes(rg *gin.RouterGroup, deps Deps, authRequired, staffOnly gin.HandlerFunc) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Log)

	rg.GET("/categories", catalogHandler.GetCategories)
	rg.GET("/brands", catalogHandler.GetBrands)
	rg.GET("/attributes", catalogHandler.GetAttributes)
	rg.GET("/attribute-values", catalogHandler.GetAttributeValues)

	admin := rg.Group("")
	admin.Use(authRequired, staffOnly)
	{
		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.POST("/brands", catalogHandler.CreateBrand)
		admin.POST("/attributes", catalogHandler.CreateAttribute)
		admin.POST("/attribute-values", catalogHandler.CreateAttributeValue)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Deps, authRequired gin.HandlerFunc) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Log)

	carts := rg.Group("/carts")
	carts.Use(authRequired)
	{
		carts.GET("", cartHandler.ListCarts)
		carts.POST("", cartHandler.CreateCart)
		carts.GET("/:id", cartHandler.GetCart)
		carts.DELETE("/:id", cartHandler.DeleteCart)

		carts.GET("/:id/items", cartHandler.ListItems)
		carts.POST("/:id/items", cartHandler.AddItem)
		carts.DELETE("/:id/items", cartHandler.ClearItems)
		carts.GET("/:id/items/:item_id", cartHandler.GetItem)
		carts.PATCH("/:id/items/:item_id", cartHandler.UpdateItem)
		carts.DELETE("/:id/items/:item_id", cartHandler.RemoveItem)
	}
}

// SetupOrderRoutes sets up order, invoice and tax routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Deps, authRequired, staffOnly gin.HandlerFunc) {
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.TaxResolver, deps.Log)
	invoiceHandler := handlers.NewInvoiceHandler(deps.Orders, deps.Invoices, deps.Log)
	taxHandler := handlers.NewTaxHandler(deps.Taxes, deps.Log)

	orders := rg.Group("/orders")
	orders.Use(authRequired)
	{
		orders.GET("", orderHandler.GetOrders)
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id", staffOnly, orderHandler.UpdateStatus)
		orders.DELETE("/:id", orderHandler.DeleteOrder)
		orders.PATCH("/:id/pay", orderHandler.MarkPaid)
		orders.PATCH("/:id/deliver", staffOnly, orderHandler.MarkDelivered)
		orders.GET("/:id/invoice", invoiceHandler.DownloadInvoice)
	}

	rg.GET("/taxes", taxHandler.GetTaxes)
	rg.POST("/taxes", authRequired, staffOnly, taxHandler.CreateTax)
}

// SetupContentRoutes sets up read-only site content routes
func SetupContentRoutes(rg *gin.RouterGroup, deps Deps) {
	contentHandler := handlers.NewContentHandler(deps.Content, deps.Log)

	addons := rg.Group("/addons")
	{
		addons.GET("/:kind", contentHandler.ListEntries)
		addons.GET("/:kind/:id", contentHandler.GetEntry)
	}
}
