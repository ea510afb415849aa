// internal/domain/order/tax.go
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

const taxCacheKey = "order:tax:default"

// TaxResolver picks the tax applied to new orders: the tax named in
// configuration, otherwise the row flagged as default. Results are cached in
// Redis when a client is configured.
type TaxResolver struct {
	db    *gorm.DB
	cache redis.Cmdable
	name  string
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewTaxResolver creates a resolver. cache may be nil.
func NewTaxResolver(db *gorm.DB, cache redis.Cmdable, cfg *config.Config, log logrus.FieldLogger) *TaxResolver {
	return &TaxResolver{
		db:    db,
		cache: cache,
		name:  strings.TrimSpace(cfg.Order.DefaultTaxName),
		ttl:   cfg.Order.TaxCacheTTL,
		log:   log,
	}
}

// cachedTax distinguishes "no tax" from a cache miss
type cachedTax struct {
	Tax *Tax `json:"tax"`
}

// Default returns the tax for new orders, or nil when there is none
func (r *TaxResolver) Default(ctx context.Context) (*Tax, error) {
	if tax, ok := r.fromCache(ctx); ok {
		return tax, nil
	}

	tax, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, tax)
	return tax, nil
}

// Invalidate drops the cached value
func (r *TaxResolver) Invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, r.key()).Err(); err != nil {
		r.log.WithError(err).Warn("failed to invalidate tax cache")
	}
}

func (r *TaxResolver) load(ctx context.Context) (*Tax, error) {
	var tax Tax
	query := r.db.WithContext(ctx)
	if r.name != "" {
		query = query.Where("name = ?", r.name)
	} else {
		query = query.Where("\"default\" = ?", true).Order("id ASC")
	}

	err := query.First(&tax).Error
	switch {
	case err == nil:
		return &tax, nil
	case apperror.IsNotFound(err) && r.name != "":
		return nil, ErrTaxNotFound.WithMessage(fmt.Sprintf("Configured tax %q does not exist.", r.name))
	case apperror.IsNotFound(err):
		return nil, nil
	default:
		return nil, fmt.Errorf("failed to load default tax: %w", err)
	}
}

func (r *TaxResolver) key() string {
	if r.name != "" {
		return taxCacheKey + ":" + r.name
	}
	return taxCacheKey
}

func (r *TaxResolver) fromCache(ctx context.Context) (*Tax, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, r.key()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).Warn("tax cache read failed")
		}
		return nil, false
	}
	var cached cachedTax
	if err := json.Unmarshal(raw, &cached); err != nil {
		r.log.WithError(err).Warn("tax cache entry is corrupt")
		return nil, false
	}
	return cached.Tax, true
}

func (r *TaxResolver) store(ctx context.Context, tax *Tax) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(cachedTax{Tax: tax})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, r.key(), raw, r.ttl).Err(); err != nil {
		r.log.WithError(err).Warn("tax cache write failed")
	}
}

// TaxService manages tax rows
type TaxService struct {
	db       *gorm.DB
	resolver *TaxResolver
	log      logrus.FieldLogger
}

// NewTaxService creates a tax service. Changes invalidate the resolver cache.
func NewTaxService(db *gorm.DB, resolver *TaxResolver, log logrus.FieldLogger) *TaxService {
	return &TaxService{db: db, resolver: resolver, log: log}
}

// CreateTaxRequest represents tax creation data
type CreateTaxRequest struct {
	Name    string          `json:"name_tax" binding:"required,max=255"`
	Value   decimal.Decimal `json:"value_tax" binding:"gte=0"`
	Default bool            `json:"default"`
}

// ListTaxes lists all taxes
func (s *TaxService) ListTaxes(ctx context.Context) ([]Tax, error) {
	var taxes []Tax
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&taxes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve taxes: %w", err)
	}
	return taxes, nil
}

// CreateTax creates a tax. A new default replaces the previous one.
func (s *TaxService) CreateTax(ctx context.Context, req *CreateTaxRequest) (*Tax, error) {
	if req.Value.IsNegative() {
		return nil, ErrInvalidTax
	}

	tax := Tax{
		Name:    strings.TrimSpace(req.Name),
		Value:   req.Value.Round(2),
		Default: req.Default,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tax.Default {
			if err := tx.Model(&Tax{}).Where("\"default\" = ?", true).Update("default", false).Error; err != nil {
				return fmt.Errorf("failed to reset default tax: %w", err)
			}
		}
		if err := tx.Create(&tax).Error; err != nil {
			if apperror.IsUniqueViolation(err) {
				return ErrTaxNameTaken.Wrap(err)
			}
			return fmt.Errorf("failed to create tax: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.resolver != nil {
		s.resolver.Invalidate(ctx)
	}
	s.log.WithFields(logrus.Fields{"tax_id": tax.ID, "default": tax.Default}).Info("tax created")
	return &tax, nil
}
