// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/content"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/textutil"
	"gorm.io/gorm"
)

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "Staff#Mkt2024x"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	cfg *config.Config
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config, log logrus.FieldLogger) *Migration {
	return &Migration{db: db, cfg: cfg, log: log}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		// Accounts
		&user.User{},
		&user.SellerShop{},

		// Catalog
		&product.Category{},
		&product.Brand{},
		&product.Attribute{},
		&product.AttributeValue{},
		&product.Product{},
		&product.Review{},

		// Cart
		&cart.Cart{},
		&cart.CartItem{},

		// Orders
		&order.Tax{},
		&order.Order{},
		&order.OrderItem{},
		&order.ShippingAddress{},
		&order.StatusHistory{},

		// Site content
		&content.Entry{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates indexes GORM tags cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		// At most one default tax
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_taxes_single_default ON taxes ("default") WHERE "default"`,
		// One cart line per product variant
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_variant ON cart_items (cart_id, product_id, COALESCE(attribute_value_id, 0))`,
		"CREATE INDEX IF NOT EXISTS idx_products_available_created ON products (is_available, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_content_entries_kind_created ON content_entries (kind, created_at DESC)",
	}

	failed := 0
	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			m.log.WithError(err).WithField("statement", stmt).Warn("failed to create index")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d indexes failed", failed, len(indexes))
	}

	m.log.WithField("count", len(indexes)).Info("indexes created")
	return nil
}

// SeedInitialData seeds reference data for development. It is idempotent.
func (m *Migration) SeedInitialData() error {
	m.log.Info("seeding initial data")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"taxes", m.seedTaxes},
		{"categories", m.seedCategories},
		{"brands", m.seedBrands},
		{"attributes", m.seedAttributes},
		{"admin user", m.seedAdminUser},
		{"content", m.seedContent},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
	}

	m.log.Info("initial data seeded")
	return nil
}

func (m *Migration) seedTaxes() error {
	var count int64
	if err := m.db.Model(&order.Tax{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	tax := order.Tax{Name: "VAT", Value: decimal.NewFromInt(20), Default: true}
	if err := m.db.Create(&tax).Error; err != nil {
		return err
	}
	m.log.WithField("tax", tax.Name).Info("created default tax")
	return nil
}

func (m *Migration) seedCategories() error {
	names := []string{"Electronics", "Home Garden", "Sports Outdoors", "Clothing", "Books"}
	for _, name := range names {
		category := product.Category{Name: name, Slug: textutil.Slugify(name)}
		if err := m.db.Where(product.Category{Slug: category.Slug}).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedBrands() error {
	names := []string{"Acme", "Globex", "Initech"}
	for _, name := range names {
		brand := product.Brand{Name: name, Slug: textutil.Slugify(name)}
		if err := m.db.Where(product.Brand{Slug: brand.Slug}).FirstOrCreate(&brand).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedAttributes() error {
	seed := map[string][]string{
		"color": {"black", "white", "red"},
		"size":  {"S", "M", "L", "XL"},
	}
	for name, values := range seed {
		attribute := product.Attribute{Name: name}
		if err := m.db.Where(product.Attribute{Name: name}).FirstOrCreate(&attribute).Error; err != nil {
			return err
		}
		for _, v := range values {
			value := product.AttributeValue{AttributeID: attribute.ID, Value: v}
			if err := m.db.Where(value).FirstOrCreate(&value).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	err := m.db.Where("email = ?", seedAdminEmail).First(&existing).Error
	if err == nil {
		m.log.WithField("user_id", existing.ID).Debug("admin user already exists")
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}

	hash, err := auth.NewPasswordManager(m.cfg).HashPassword(seedAdminPassword)
	if err != nil {
		return err
	}
	admin := user.User{
		Email:     seedAdminEmail,
		Username:  "admin",
		Password:  hash,
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsStaff:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}
	m.log.WithField("email", seedAdminEmail).Info("created admin user")
	return nil
}

func (m *Migration) seedContent() error {
	var count int64
	if err := m.db.Model(&content.Entry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	entries := []content.Entry{
		{Kind: content.KindMain, Title: "Welcome", Text: "Shops from all over the country in one place."},
		{Kind: content.KindAbout, Title: "About us", Text: "A marketplace connecting independent sellers with their customers."},
		{Kind: content.KindLicence, Title: "Terms of use", Text: "By placing an order you accept the terms of the seller."},
		{Kind: content.KindNews, Title: "We are live", Text: "The marketplace is open for sellers."},
	}
	return m.db.Create(&entries).Error
}

// GetTableInfo logs the row count of every table
func (m *Migration) GetTableInfo() {
	for _, model := range Models() {
		stmt := &gorm.Statement{DB: m.db}
		if err := stmt.Parse(model); err != nil {
			continue
		}
		var count int64
		if err := m.db.Model(model).Count(&count).Error; err != nil {
			m.log.WithError(err).WithField("table", stmt.Schema.Table).Warn("failed to count rows")
			continue
		}
		m.log.WithFields(logrus.Fields{"table": stmt.Schema.Table, "rows": count}).Info("table info")
	}
}
