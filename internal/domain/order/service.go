// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"github.com/your-org/marketplace-backend/internal/pkg/listing"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db      *gorm.DB
	log     logrus.FieldLogger
	events  EventPublisher
	numbers NumberGenerator
	retries int
	now     func() time.Time
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, events EventPublisher, log logrus.FieldLogger) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	retries := cfg.Order.NumberRetries
	if retries < 1 {
		retries = 1
	}
	return &Service{
		db:      db,
		log:     log,
		events:  events,
		numbers: DefaultNumber,
		retries: retries,
		now:     time.Now,
	}
}

// WithNumberGenerator replaces the order number generator
func (s *Service) WithNumberGenerator(gen NumberGenerator) *Service {
	s.numbers = gen
	return s
}

// Requester identifies who is acting on an order
type Requester struct {
	UserID  uint
	IsStaff bool
}

// ShippingAddressRequest is the delivery address of a new order
type ShippingAddressRequest struct {
	Address   string `json:"address" binding:"required,max=255"`
	Country   string `json:"country" binding:"required,max=100"`
	Oblast    string `json:"oblast" binding:"required,max=50"`
	City      string `json:"city" binding:"required,max=30"`
	DepartNum string `json:"depart_num" binding:"required,max=20"`
}

// CreateOrderRequest represents the checkout request body
type CreateOrderRequest struct {
	CartID          string                 `json:"cart_id" binding:"required,uuid"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,max=255"`
	OrderNote       string                 `json:"order_note" binding:"max=255"`
	ShippingPrice   decimal.Decimal        `json:"shipping_price" binding:"gte=0"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	listing.Params
}

// UpdateStatusRequest represents the staff status update body
type UpdateStatusRequest struct {
	Status  Status `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

var orderOrderFields = map[string]string{
	"user":           "orders.user_id",
	"shipping_price": "orders.shipping_price",
	"total_price":    "orders.total_price",
	"tax":            "orders.tax_id",
	"status":         "orders.status",
	"created_at":     "orders.created_at",
}

// ListOrders lists every order for staff and the requester's own otherwise
func (s *Service) ListOrders(ctx context.Context, req Requester, params *ListRequest) ([]Order, error) {
	query := s.withDetails(s.db.WithContext(ctx))
	if !req.IsStaff {
		query = query.Where("orders.user_id = ?", req.UserID)
	}
	if params != nil && strings.TrimSpace(params.Search) != "" {
		search := listing.LikePattern(params.Search)
		query = query.Where(`LOWER(orders.order_number) LIKE ? ESCAPE '\' OR LOWER(orders.status) LIKE ? ESCAPE '\'`, search, search)
	}

	ordering := ""
	if params != nil {
		ordering = params.Ordering
	}
	query = query.Order(listing.OrderClause(ordering, orderOrderFields, "orders.created_at DESC, orders.id DESC"))

	var orders []Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves a single order visible to the requester
func (s *Service) GetOrder(ctx context.Context, req Requester, id uint) (*Order, error) {
	var order Order
	query := s.withDetails(s.db.WithContext(ctx)).Where("orders.id = ?", id)
	if !req.IsStaff {
		query = query.Where("orders.user_id = ?", req.UserID)
	}
	if err := query.First(&order).Error; err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// UpdateStatus changes the status of an order. Staff only.
func (s *Service) UpdateStatus(ctx context.Context, req Requester, id uint, in *UpdateStatusRequest) (*Order, error) {
	if !req.IsStaff {
		return nil, apperror.ErrForbidden
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.First(&order, id).Error; err != nil {
			if apperror.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == in.Status {
			return nil
		}
		// Update writes the new status back into order
		comment := in.Comment
		if comment == "" {
			comment = fmt.Sprintf("Status changed from %s to %s", order.Status, in.Status)
		}
		if err := tx.Model(&order).Update("status", in.Status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return recordHistory(tx, order.ID, in.Status, comment, req.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "status": in.Status, "user_id": req.UserID}).Info("order status updated")
	return s.GetOrder(ctx, req, id)
}

// MarkPaid flags the requester's own order as paid. Paying twice is
// rejected and leaves paid_at untouched.
func (s *Service) MarkPaid(ctx context.Context, req Requester, id uint) (*Order, error) {
	now := s.now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.Where("id = ? AND user_id = ?", id, req.UserID).First(&order).Error; err != nil {
			if apperror.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}

		result := tx.Model(&Order{}).
			Where("id = ? AND is_paid = ?", order.ID, false).
			Updates(map[string]interface{}{"is_paid": true, "paid_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to mark order paid: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyPaid
		}
		return recordHistory(tx, order.ID, order.Status, "Order was paid", req.UserID)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, req, id)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "order_number": order.OrderNumber}).Info("order paid")
	s.publish(ctx, EventPaid, order)
	return order, nil
}

// MarkDelivered flags a paid order as delivered. Staff only.
func (s *Service) MarkDelivered(ctx context.Context, req Requester, id uint) (*Order, error) {
	if !req.IsStaff {
		return nil, apperror.ErrForbidden
	}
	now := s.now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		if err := tx.First(&order, id).Error; err != nil {
			if apperror.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}
		switch {
		case order.IsDelivered:
			return ErrAlreadyDelivered
		case !order.IsPaid:
			return ErrNotPaid
		}

		result := tx.Model(&Order{}).
			Where("id = ? AND is_paid = ? AND is_delivered = ?", order.ID, true, false).
			Updates(map[string]interface{}{"is_delivered": true, "delivered_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to mark order delivered: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyDelivered
		}
		return recordHistory(tx, order.ID, order.Status, "Order was delivered", req.UserID)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, req, id)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "order_number": order.OrderNumber}).Info("order delivered")
	s.publish(ctx, EventDelivered, order)
	return order, nil
}

// DeleteOrder removes an order with its items, address and history. Stock
// is not restored and the originating cart is left alone.
func (s *Service) DeleteOrder(ctx context.Context, req Requester, id uint) error {
	var order Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		if !req.IsStaff {
			query = query.Where("user_id = ?", req.UserID)
		}
		if err := query.First(&order).Error; err != nil {
			if apperror.IsNotFound(err) {
				return ErrOrderNotFound
			}
			return err
		}

		for _, model := range []interface{}{&StatusHistory{}, &OrderItem{}, &ShippingAddress{}} {
			if err := tx.Where("order_id = ?", order.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete %T: %w", model, err)
			}
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return err
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "order_number": order.OrderNumber, "user_id": req.UserID}).Info("order deleted")
	s.publish(ctx, EventDeleted, &order)
	return nil
}

func (s *Service) withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&Order{}).
		Preload("User").
		Preload("Tax").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product.SellerShop").
		Preload("ShippingAddress")
}

// publish never fails the caller; the state change has already committed
func (s *Service) publish(ctx context.Context, t EventType, o *Order) {
	event := newEvent(t, o, s.now())
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":    t,
			"order_id": o.ID,
		}).Warn("failed to publish order event")
	}
}

func recordHistory(tx *gorm.DB, orderID uint, status Status, comment string, by uint) error {
	entry := StatusHistory{OrderID: orderID, Status: status, Comment: comment, CreatedBy: by}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}
	return nil
}
