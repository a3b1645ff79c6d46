package models

import "time"

const (
	PaymentModeUPI  = "UPI"
	PaymentModeBank = "Bank Account"
)

type BankDetails struct {
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	BankName      string `json:"bankName"`
}

// SellerPaymentDetails tells the admin where a seller wants payouts sent.
type SellerPaymentDetails struct {
	UPIID       string       `json:"upiId,omitempty"`
	BankDetails *BankDetails `json:"bankDetails,omitempty"`
}

type Product struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Subject        string               `json:"subject"`
	Category       string               `json:"category"`
	Condition      string               `json:"condition"`
	ClassType      string               `json:"classType"`
	Price          float64              `json:"price"`
	Author         string               `json:"author"`
	Edition        string               `json:"edition,omitempty"`
	Description    string               `json:"description,omitempty"`
	FinalPrice     float64              `json:"finalPrice"`
	ShippingCharge string               `json:"shippingCharge"`
	SellerID       string               `json:"seller"`
	PaymentMode    string               `json:"paymentMode"`
	PaymentDetails SellerPaymentDetails `json:"paymentDetails"`
	Images         []string             `json:"images"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}
