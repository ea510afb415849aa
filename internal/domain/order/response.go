package order

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// ItemResponse is an order line as returned to clients
type ItemResponse struct {
	ID        uint            `json:"id"`
	Product   product.Summary `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SubTotal  decimal.Decimal `json:"sub_total"`
}

// Response is the client view of an order
type Response struct {
	ID              uint             `json:"id"`
	UserID          uint             `json:"user"`
	UserName        string           `json:"user_name"`
	PaymentMethod   string           `json:"payment_method"`
	OrderNumber     string           `json:"order_number"`
	OrderNote       string           `json:"order_note"`
	ShippingPrice   decimal.Decimal  `json:"shipping_price"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	Tax             *Tax             `json:"tax"`
	Status          Status           `json:"status"`
	IsPaid          bool             `json:"is_paid"`
	PaidAt          *time.Time       `json:"paid_at"`
	IsDelivered     bool             `json:"is_delivered"`
	DeliveredAt     *time.Time       `json:"delivered_at"`
	CreatedAt       time.Time        `json:"created_at"`
	Items           []ItemResponse   `json:"order_item"`
	ShippingAddress *ShippingAddress `json:"shipping_address"`
}

// NewResponse builds the client view from an order loaded with its details
func NewResponse(o *Order) Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		line := ItemResponse{
			ID:        item.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			SubTotal:  item.SubTotal(),
		}
		if item.Product != nil {
			line.Product = item.Product.Summary()
		} else {
			line.Product = product.Summary{ID: item.ProductID}
		}
		items = append(items, line)
	}

	return Response{
		ID:              o.ID,
		UserID:          o.UserID,
		UserName:        o.UserName(),
		PaymentMethod:   o.PaymentMethod,
		OrderNumber:     o.OrderNumber,
		OrderNote:       o.OrderNote,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		Tax:             o.Tax,
		Status:          o.Status,
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
	}
}

// NewResponses converts a list of orders
func NewResponses(orders []Order) []Response {
	out := make([]Response, 0, len(orders))
	for i := range orders {
		out = append(out, NewResponse(&orders[i]))
	}
	return out
}
