package models

import "time"

type SellerPayment struct {
	ID            string        `json:"id"`
	SellerID      string        `json:"seller"`
	OrderID       string        `json:"order"`
	ProductID     string        `json:"product"`
	Amount        float64       `json:"amount"`
	PaymentMethod string        `json:"paymentMethod"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	ProcessedBy   string        `json:"processedBy"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type SellerPaymentResponse struct {
	SellerPayment
	Seller      *SellerSummary `json:"sellerInfo,omitempty"`
	Order       *Order         `json:"orderInfo,omitempty"`
	Product     *Product       `json:"productInfo,omitempty"`
	ProcessedBy *UserSummary   `json:"processedByInfo,omitempty"`
}
