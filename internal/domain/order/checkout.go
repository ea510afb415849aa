// internal/domain/order/checkout.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const numberSavepoint = "order_number"

// PlaceOrderInput is everything needed to turn a cart into an order. Tax is
// resolved by the caller; nil means no tax.
type PlaceOrderInput struct {
	UserID          uint
	CartID          uuid.UUID
	PaymentMethod   string
	OrderNote       string
	ShippingPrice   decimal.Decimal
	ShippingAddress ShippingAddressRequest
	Tax             *Tax
}

// NewPlaceOrderInput converts the checkout request body
func NewPlaceOrderInput(userID uint, req *CreateOrderRequest, tax *Tax) (PlaceOrderInput, error) {
	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return PlaceOrderInput{}, ErrInvalidCart.Wrap(err)
	}
	return PlaceOrderInput{
		UserID:          userID,
		CartID:          cartID,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		OrderNote:       req.OrderNote,
		ShippingPrice:   req.ShippingPrice,
		ShippingAddress: req.ShippingAddress,
		Tax:             tax,
	}, nil
}

func (in *PlaceOrderInput) validate() error {
	if in.ShippingPrice.IsNegative() {
		return ErrInvalidShipping
	}
	a := in.ShippingAddress
	for _, field := range []string{a.Address, a.Country, a.Oblast, a.City, a.DepartNum} {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidAddress
		}
	}
	return nil
}

// PlaceOrder converts the requester's cart into an order in one transaction:
// the order with its shipping address and line items is created, the total
// and order number are computed and product stock is decremented. Any
// failure rolls everything back. The cart itself is not modified.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin order transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	order, err := s.placeOrder(tx, &in, now)
	if err != nil {
		tx.Rollback()
		if _, ok := apperror.As(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"cart_id":      in.CartID,
		"user_id":      in.UserID,
		"total_price":  order.TotalPrice.StringFixed(2),
	}).Info("order placed")
	s.publish(ctx, EventCreated, order)

	return s.GetOrder(ctx, Requester{UserID: in.UserID}, order.ID)
}

func (s *Service) placeOrder(tx *gorm.DB, in *PlaceOrderInput, now time.Time) (*Order, error) {
	snapshot, err := cart.Snapshot(tx, in.CartID)
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		return nil, ErrInvalidCart
	case snapshot != nil && snapshot.UserID != in.UserID:
		return nil, ErrInvalidCart
	case err != nil:
		return nil, err
	}

	products, err := lockProducts(tx, snapshot.Items)
	if err != nil {
		return nil, err
	}

	order := &Order{
		UserID:        in.UserID,
		PaymentMethod: in.PaymentMethod,
		OrderNote:     in.OrderNote,
		ShippingPrice: in.ShippingPrice,
		TotalPrice:    decimal.Zero,
		Status:        StatusPending,
	}
	if in.Tax != nil {
		order.TaxID = &in.Tax.ID
	}
	if err := s.insertWithNumber(tx, order, numberPrefix(snapshot.Items), now); err != nil {
		return nil, err
	}

	a := in.ShippingAddress
	address := ShippingAddress{
		OrderID:   order.ID,
		Address:   strings.TrimSpace(a.Address),
		Country:   strings.TrimSpace(a.Country),
		Oblast:    strings.TrimSpace(a.Oblast),
		City:      strings.TrimSpace(a.City),
		DepartNum: strings.TrimSpace(a.DepartNum),
	}
	if err := tx.Create(&address).Error; err != nil {
		return nil, fmt.Errorf("failed to create shipping address: %w", err)
	}

	items := make([]OrderItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		items = append(items, OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: products[line.ProductID].PriceNew,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.SubTotal())
		if err := decrementStock(tx, products[item.ProductID], item.Quantity); err != nil {
			return nil, err
		}
	}

	taxValue := decimal.Zero
	if in.Tax != nil {
		taxValue = in.Tax.Value
	}
	order.TotalPrice = total.Add(taxValue).Add(in.ShippingPrice)
	if err := tx.Model(order).Update("total_price", order.TotalPrice).Error; err != nil {
		return nil, fmt.Errorf("failed to finalize order: %w", err)
	}

	if err := recordHistory(tx, order.ID, StatusPending, "Order created", in.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// insertWithNumber creates the order row, drawing a fresh order number after
// each unique violation. Failed attempts are undone through a savepoint so
// the surrounding transaction stays usable.
func (s *Service) insertWithNumber(tx *gorm.DB, order *Order, prefix string, now time.Time) error {
	for attempt := 1; ; attempt++ {
		order.ID = 0
		order.OrderNumber = s.numbers(prefix, now)

		if err := tx.SavePoint(numberSavepoint).Error; err != nil {
			return fmt.Errorf("failed to create savepoint: %w", err)
		}
		err := tx.Omit(clause.Associations).Create(order).Error
		if err == nil {
			return nil
		}
		if !apperror.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if rbErr := tx.RollbackTo(numberSavepoint).Error; rbErr != nil {
			return fmt.Errorf("failed to roll back to savepoint: %w", rbErr)
		}

		s.log.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("order number collision")
		if attempt >= s.retries {
			return ErrOrderNumberTaken.Wrap(err)
		}
	}
}

// lockProducts reads every product in the cart with a row lock, in id order
// so concurrent checkouts acquire locks in the same sequence. It also checks
// the combined quantity per product against stock.
func lockProducts(tx *gorm.DB, lines []cart.CartItem) (map[uint]*product.Product, error) {
	wanted := make(map[uint]int, len(lines))
	for _, line := range lines {
		wanted[line.ProductID] += line.Quantity
	}
	ids := make([]uint, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var locked []product.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&locked).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	byID := make(map[uint]*product.Product, len(locked))
	for i := range locked {
		byID[locked[i].ID] = &locked[i]
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.IsAvailable {
			name := ""
			if ok {
				name = p.Name
			}
			return nil, unavailable(name)
		}
		if p.StockQty < wanted[id] {
			return nil, insufficient(p)
		}
	}
	return byID, nil
}

// decrementStock re-checks stock in the UPDATE itself and bumps the version
func decrementStock(tx *gorm.DB, p *product.Product, qty int) error {
	result := tx.Model(&product.Product{}).
		Where("id = ? AND stock_qty >= ?", p.ID, qty).
		UpdateColumns(map[string]interface{}{
			"stock_qty": gorm.Expr("stock_qty - ?", qty),
			"version":   gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return insufficient(p)
	}
	p.StockQty -= qty
	p.Version++
	return nil
}

func insufficient(p *product.Product) error {
	return ErrInsufficientStock.WithMessage(fmt.Sprintf("Not enough stock for %s: %d left.", p.Name, p.StockQty))
}

func unavailable(name string) error {
	if name == "" {
		return ErrProductUnavailable
	}
	return ErrProductUnavailable.WithMessage(fmt.Sprintf("%s is no longer available.", name))
}
