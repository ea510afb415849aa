package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/pkg/testutil"
)

func TestTaxResolverDefaultRow(t *testing.T) {
	db := testutil.NewDB(t, &Tax{})
	resolver := NewTaxResolver(db, nil, testutil.Config(), logger.Discard())
	ctx := context.Background()

	tax, err := resolver.Default(ctx)
	require.NoError(t, err)
	assert.Nil(t, tax)

	require.NoError(t, db.Create(&Tax{Name: "VAT", Value: decimal.NewFromInt(20), Default: true}).Error)
	tax, err = resolver.Default(ctx)
	require.NoError(t, err)
	require.NotNil(t, tax)
	assert.Equal(t, "VAT", tax.Name)
}

func TestTaxResolverConfiguredName(t *testing.T) {
	db := testutil.NewDB(t, &Tax{})
	require.NoError(t, db.Create(&Tax{Name: "VAT", Value: decimal.NewFromInt(20), Default: true}).Error)
	require.NoError(t, db.Create(&Tax{Name: "Reduced", Value: decimal.NewFromInt(7)}).Error)

	cfg := testutil.Config()
	cfg.Order.DefaultTaxName = "Reduced"
	tax, err := NewTaxResolver(db, nil, cfg, logger.Discard()).Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Reduced", tax.Name)

	cfg.Order.DefaultTaxName = "Missing"
	_, err = NewTaxResolver(db, nil, cfg, logger.Discard()).Default(context.Background())
	assert.ErrorIs(t, err, ErrTaxNotFound)
}

func TestCreateTaxSwitchesDefault(t *testing.T) {
	db := testutil.NewDB(t, &Tax{})
	resolver := NewTaxResolver(db, nil, testutil.Config(), logger.Discard())
	svc := NewTaxService(db, resolver, logger.Discard())
	ctx := context.Background()

	first, err := svc.CreateTax(ctx, &CreateTaxRequest{Name: "VAT", Value: decimal.RequireFromString("20.004"), Default: true})
	require.NoError(t, err)
	assert.Equal(t, "20", first.Value.String())

	second, err := svc.CreateTax(ctx, &CreateTaxRequest{Name: "Reduced", Value: decimal.NewFromInt(7), Default: true})
	require.NoError(t, err)

	current, err := resolver.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	taxes, err := svc.ListTaxes(ctx)
	require.NoError(t, err)
	require.Len(t, taxes, 2)
	defaults := 0
	for _, tax := range taxes {
		if tax.Default {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	_, err = svc.CreateTax(ctx, &CreateTaxRequest{Name: "VAT", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrTaxNameTaken)

	_, err = svc.CreateTax(ctx, &CreateTaxRequest{Name: "Negative", Value: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidTax)
}
