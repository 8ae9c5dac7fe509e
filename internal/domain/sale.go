package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod enumerates the accepted checkout payment methods
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "CASH"
	PaymentCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard     PaymentMethod = "DEBIT_CARD"
	PaymentMobilePayment PaymentMethod = "MOBILE_PAYMENT"
)

// Valid reports whether m is one of the accepted payment methods
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentMobilePayment:
		return true
	}
	return false
}

// Sale is a completed checkout. Sales are immutable once created; no update
// or delete operation exists for them.
type Sale struct {
	SaleID        uuid.UUID     `json:"saleId" db:"id"`
	Date          time.Time     `json:"date" db:"date"`
	TotalAmount   float64       `json:"totalAmount" db:"total_amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	SaleItems     []SaleItem    `json:"saleItems"`
}

// SaleItem is one line of a sale. Price is the unit price captured at the
// time of sale, not the product's current price.
type SaleItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Size      string    `json:"size" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// SaleLine is one requested item in a checkout payload
type SaleLine struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      string    `json:"size" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

// CreateSaleRequest is the payload for creating a sale
type CreateSaleRequest struct {
	Items         []SaleLine    `json:"items" validate:"required,min=1,dive"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD MOBILE_PAYMENT"`
}
