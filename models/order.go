package models

import (
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusComplete PaymentStatus = "complete"
	PaymentStatusFailed   PaymentStatus = "failed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return true
	}
	return false
}

// PaymentDetails holds the gateway identifiers returned to the client by
// checkout and later confirmed by the webhook.
type PaymentDetails struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Status          OrderStatus     `json:"status"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is a copy of a cart line taken at checkout.
type OrderItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// HasProduct reports whether productID is part of the order snapshot.
func (o *Order) HasProduct(productID string) bool {
	for _, it := range o.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// OrderResponse is an order with its references resolved for display.
type OrderResponse struct {
	ID              string            `json:"id"`
	User            *UserSummary      `json:"user,omitempty"`
	Items           []OrderItemDetail `json:"items"`
	TotalAmount     float64           `json:"totalAmount"`
	ShippingAddress *Address          `json:"shippingAddress,omitempty"`
	PaymentMethod   string            `json:"paymentMethod"`
	PaymentStatus   PaymentStatus     `json:"paymentStatus"`
	Status          OrderStatus       `json:"status"`
	PaymentDetails  *PaymentDetails   `json:"paymentDetails,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type OrderItemDetail struct {
	ProductID string         `json:"productId"`
	Product   *ProductDetail `json:"product,omitempty"`
	Quantity  int            `json:"quantity"`
}

// ProductDetail is a product together with its seller's payout contact.
type ProductDetail struct {
	Product
	Seller *SellerSummary `json:"sellerInfo,omitempty"`
}

type OrderEvent struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	Type          string        `json:"type"` // created, paid, status_updated, payment_check
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Total         float64       `json:"total"`
	Occurred      time.Time     `json:"occurred"`
}

const (
	EventOrderCreated  = "created"
	EventOrderPaid     = "paid"
	EventStatusUpdated = "status_updated"
	EventPaymentCheck  = "payment_check"
)
