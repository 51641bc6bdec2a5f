package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartItemRequest is one cart line sent by the storefront
type CartItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// QuoteRequest asks for the price breakdown of a cart
type QuoteRequest struct {
	Items      []CartItemRequest `json:"items" binding:"required,min=1,max=50,dive"`
	CouponCode string            `json:"coupon_code" binding:"omitempty,max=50,coupon_code"`
}

// ValidateCouponRequest checks a coupon against a cart subtotal
type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required,max=50,coupon_code"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"gte=0"`
}

// AddressRequest is a shipping address
type AddressRequest struct {
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=100"`
}

// PlaceOrderRequest represents a storefront checkout
type PlaceOrderRequest struct {
	CustomerName    string            `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerEmail   string            `json:"customer_email" binding:"required,email,max=254"`
	CustomerPhone   string            `json:"customer_phone" binding:"max=30"`
	ShippingAddress AddressRequest    `json:"shipping_address"`
	Items           []CartItemRequest `json:"items" binding:"required,min=1,max=50,dive"`
	CouponCode      string            `json:"coupon_code" binding:"omitempty,max=50,coupon_code"`
	Notes           string            `json:"notes" binding:"max=1000"`
}

// TrackOrderRequest looks an order up for a customer
type TrackOrderRequest struct {
	OrderNumber string `form:"order_number" binding:"required,max=50"`
	Email       string `form:"email" binding:"required,max=254"`
}

// OrderListFilter represents filter options for the admin order list
type OrderListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpdateStatusRequest moves an order along its lifecycle
type UpdateStatusRequest struct {
	Status         string  `json:"status" binding:"required,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED"`
	TrackingNumber *string `json:"tracking_number" binding:"omitempty,max=100"`
	Note           string  `json:"note" binding:"max=500"`
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	VariantID    uuid.UUID       `json:"variant_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	VariantLabel string          `json:"variant_label"`
	SKU          string          `json:"sku"`
	ImageURL     string          `json:"image_url"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Available    int             `json:"available"`
}

// QuoteResponse is the price breakdown of a cart. CouponError explains why
// a requested coupon was not applied.
type QuoteResponse struct {
	Items       []QuoteLine     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	CouponCode  string          `json:"coupon_code,omitempty"`
	CouponError string          `json:"coupon_error,omitempty"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label"`
	SKU          string          `json:"sku"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// TimelineStepResponse represents one step of the tracking timeline
type TimelineStepResponse struct {
	Status    string     `json:"status"`
	Label     string     `json:"label"`
	Completed bool       `json:"completed"`
	Current   bool       `json:"current"`
	At        *time.Time `json:"at,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	CustomerName    string                 `json:"customer_name"`
	CustomerEmail   string                 `json:"customer_email"`
	CustomerPhone   string                 `json:"customer_phone,omitempty"`
	ShippingAddress valueobject.Address    `json:"shipping_address"`
	Items           []OrderItemResponse    `json:"items"`
	ItemCount       int                    `json:"item_count"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shipping_fee"`
	DiscountAmount  decimal.Decimal        `json:"discount_amount"`
	Total           decimal.Decimal        `json:"total"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
	Status          string                 `json:"status"`
	TrackingNumber  string                 `json:"tracking_number,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
	ProcessingAt    *time.Time             `json:"processing_at,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason    string                 `json:"cancel_reason,omitempty"`
	Timeline        []TimelineStepResponse `json:"timeline"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
	// Replayed is set when an idempotent checkout returned an earlier order
	Replayed        bool                   `json:"-"`
}

// OrderSummaryResponse is the list view of an order
type OrderSummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TrackingResponse is what a customer sees when tracking an order.
// Contact details beyond the name are left out.
type TrackingResponse struct {
	OrderNumber    string                 `json:"order_number"`
	CustomerName   string                 `json:"customer_name"`
	Status         string                 `json:"status"`
	TrackingNumber string                 `json:"tracking_number,omitempty"`
	Items          []OrderItemResponse    `json:"items"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	ShippingFee    decimal.Decimal        `json:"shipping_fee"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	Total          decimal.Decimal        `json:"total"`
	Timeline       []TimelineStepResponse `json:"timeline"`
	PlacedAt       time.Time              `json:"placed_at"`
}

// StatsResponse summarises orders for the admin console
type StatsResponse struct {
	TotalOrders int64            `json:"total_orders"`
	ByStatus    map[string]int64 `json:"by_status"`
	Revenue     decimal.Decimal  `json:"revenue"`
	OrdersToday int64            `json:"orders_today"`
}

// ToAddress converts an address request to the value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Line1, r.City, r.PostalCode, r.Country,
		valueobject.WithLine2(r.Line2),
		valueobject.WithState(r.State),
	)
}

// ToOrderItemResponses converts order items to responses
func ToOrderItemResponses(items []order.Item) []OrderItemResponse {
	responses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		responses[i] = OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			ProductName:  item.ProductName,
			VariantLabel: item.VariantLabel,
			SKU:          item.SKU,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal,
		}
	}
	return responses
}

// ToTimelineResponses converts timeline steps to responses
func ToTimelineResponses(steps []order.TimelineStep) []TimelineStepResponse {
	responses := make([]TimelineStepResponse, len(steps))
	for i, step := range steps {
		responses[i] = TimelineStepResponse{
			Status:    string(step.Status),
			Label:     step.Label,
			Completed: step.Completed,
			Current:   step.Current,
			At:        step.At,
		}
	}
	return responses
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Items:           ToOrderItemResponses(o.Items),
		ItemCount:       o.ItemCount(),
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		DiscountAmount:  o.DiscountAmount,
		Total:           o.Total,
		CouponCode:      o.CouponCode,
		Status:          string(o.Status),
		TrackingNumber:  o.TrackingNumber,
		Notes:           o.Notes,
		ConfirmedAt:     o.ConfirmedAt,
		ProcessingAt:    o.ProcessingAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		Timeline:        ToTimelineResponses(o.Timeline()),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderSummaryResponses converts orders to list responses
func ToOrderSummaryResponses(orders []order.Order) []OrderSummaryResponse {
	responses := make([]OrderSummaryResponse, len(orders))
	for i := range orders {
		o := &orders[i]
		responses[i] = OrderSummaryResponse{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			ItemCount:     o.ItemCount(),
			Total:         o.Total,
			Status:        string(o.Status),
			CreatedAt:     o.CreatedAt,
		}
	}
	return responses
}

// ToTrackingResponse converts an order to the customer tracking view
func ToTrackingResponse(o *order.Order) TrackingResponse {
	return TrackingResponse{
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		Status:         string(o.Status),
		TrackingNumber: o.TrackingNumber,
		Items:          ToOrderItemResponses(o.Items),
		Subtotal:       o.Subtotal,
		ShippingFee:    o.ShippingFee,
		DiscountAmount: o.DiscountAmount,
		Total:          o.Total,
		Timeline:       ToTimelineResponses(o.Timeline()),
		PlacedAt:       o.CreatedAt,
	}
}
