package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a back-office user account. Read-only in this system.
type User struct {
	UserID uuid.UUID `json:"userId" db:"id"`
	Name   string    `json:"name" db:"name"`
	Email  string    `json:"email" db:"email"`
}

// SalesSummary is a per-day sales aggregate
type SalesSummary struct {
	SalesSummaryID   uuid.UUID `json:"salesSummaryId"`
	TotalValue       float64   `json:"totalValue"`
	ChangePercentage *float64  `json:"changePercentage,omitempty"`
	Date             time.Time `json:"date"`
}

// PurchaseSummary is a per-day purchasing aggregate
type PurchaseSummary struct {
	PurchaseSummaryID uuid.UUID `json:"purchaseSummaryId"`
	TotalPurchased    float64   `json:"totalPurchased"`
	ChangePercentage  *float64  `json:"changePercentage,omitempty"`
	Date              time.Time `json:"date"`
}

// ExpenseSummary is a per-day expense aggregate
type ExpenseSummary struct {
	ExpenseSummaryID uuid.UUID `json:"expenseSummaryId"`
	TotalExpenses    float64   `json:"totalExpenses"`
	Date             time.Time `json:"date"`
}

// ExpenseByCategorySummary aggregates expenses by category. Amount is kept
// as a string on the wire to avoid float drift in monetary reporting.
type ExpenseByCategorySummary struct {
	ExpenseByCategorySummaryID uuid.UUID `json:"expenseByCategorySummaryId"`
	Category                   string    `json:"category"`
	Amount                     string    `json:"amount"`
	Date                       time.Time `json:"date"`
}

// DashboardMetrics is the read-only aggregate projection served by the
// dashboard endpoint. The client never mutates any of it.
type DashboardMetrics struct {
	PopularProducts          []Product                  `json:"popularProducts"`
	SalesSummary             []SalesSummary             `json:"salesSummary"`
	PurchaseSummary          []PurchaseSummary          `json:"purchaseSummary"`
	ExpenseSummary           []ExpenseSummary           `json:"expenseSummary"`
	ExpenseByCategorySummary []ExpenseByCategorySummary `json:"expenseByCategorySummary"`
}
