package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the closed set of payment states a canteen transaction can be in.
// Only Partial and Credit transactions carry payment terms.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPartial PaymentStatus = "partial"
	StatusCredit  PaymentStatus = "credit"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusPartial, StatusCredit:
		return true
	}
	return false
}

// Tracked reports whether transactions with this status participate in
// due-date tracking and loyalty deductions.
func (s PaymentStatus) Tracked() bool {
	return s == StatusPartial || s == StatusCredit
}

// Transaction represents a canteen purchase
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	StudentID   string          `json:"student_id" db:"student_id"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status      PaymentStatus   `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Terms is nil for fully paid transactions.
	Terms *PaymentTerms `json:"terms,omitempty"`
}

// PaymentTerms holds the due-date and deduction state for a Partial/Credit
// transaction. LoyaltyDeductions only ever grows; LastDeductionDate enforces
// at most one deduction per calendar day.
type PaymentTerms struct {
	DueDate           time.Time  `json:"due_date" db:"due_date"`
	IsOverdue         bool       `json:"is_overdue" db:"is_overdue"`
	LoyaltyDeductions int        `json:"loyalty_deductions" db:"loyalty_deductions"`
	LastDeductionDate *time.Time `json:"last_deduction_date,omitempty" db:"last_deduction_date"`
}

// DTOs for requests and responses

type RegisterTransactionRequest struct {
	StudentID   string          `json:"student_id" validate:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"required"`
	Status      PaymentStatus   `json:"status" validate:"required,oneof=paid partial credit"`
}

type RegisterTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type StudentTransactionsResponse struct {
	StudentID    string         `json:"student_id"`
	Transactions []*Transaction `json:"transactions"`
}
