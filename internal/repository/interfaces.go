package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prasetyo/canteen-compliance/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	// Create creates a new transaction, including its payment terms when present
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID retrieves a transaction by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	// GetByStudentID retrieves all transactions for a student
	GetByStudentID(ctx context.Context, studentID string) ([]*domain.Transaction, error)

	// GetTracked retrieves every Partial/Credit transaction with payment terms.
	// This is the sweep's candidate set.
	GetTracked(ctx context.Context) ([]*domain.Transaction, error)

	// GetOverdue retrieves tracked transactions whose cached overdue flag is set
	GetOverdue(ctx context.Context) ([]*domain.Transaction, error)

	// SetOverdue updates the cached overdue flag
	SetOverdue(ctx context.Context, id uuid.UUID, overdue bool) error

	// RecordDeduction adds points to the cumulative deduction counter and
	// stamps the last deduction date in a single statement
	RecordDeduction(ctx context.Context, id uuid.UUID, points int, when time.Time) error
}

// StudentRepository defines the interface for student account operations
type StudentRepository interface {
	// GetByStudentID retrieves a student account by its student id
	GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error)

	// UpdateLoyalty sets the loyalty point balance
	UpdateLoyalty(ctx context.Context, studentID string, balance int) error

	// Suspend deactivates the account and records the suspension date
	Suspend(ctx context.Context, studentID string, when time.Time) error

	// Ban deactivates the account until the given date
	Ban(ctx context.Context, studentID string, until time.Time) error
}
