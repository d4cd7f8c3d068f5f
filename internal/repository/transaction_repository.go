package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/prasetyo/canteen-compliance/internal/domain"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// transactionRow flattens the optional payment terms into nullable columns.
type transactionRow struct {
	ID                uuid.UUID       `db:"id"`
	StudentID         string          `db:"student_id"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	Status            string          `db:"status"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
	DueDate           *time.Time      `db:"due_date"`
	IsOverdue         *bool           `db:"is_overdue"`
	LoyaltyDeductions *int            `db:"loyalty_deductions"`
	LastDeductionDate *time.Time      `db:"last_deduction_date"`
}

func (r transactionRow) toDomain() *domain.Transaction {
	tx := &domain.Transaction{
		ID:          r.ID,
		StudentID:   r.StudentID,
		TotalAmount: r.TotalAmount,
		Status:      domain.PaymentStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.DueDate != nil {
		terms := &domain.PaymentTerms{
			DueDate:           *r.DueDate,
			LastDeductionDate: r.LastDeductionDate,
		}
		if r.IsOverdue != nil {
			terms.IsOverdue = *r.IsOverdue
		}
		if r.LoyaltyDeductions != nil {
			terms.LoyaltyDeductions = *r.LoyaltyDeductions
		}
		tx.Terms = terms
	}
	return tx
}

const transactionColumns = `
	id, student_id, total_amount, status, created_at, updated_at,
	due_date, is_overdue, loyalty_deductions, last_deduction_date
`

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, student_id, total_amount, status, created_at, updated_at,
			due_date, is_overdue, loyalty_deductions, last_deduction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var (
		dueDate           *time.Time
		isOverdue         *bool
		loyaltyDeductions *int
		lastDeduction     *time.Time
	)
	if tx.Terms != nil {
		dueDate = &tx.Terms.DueDate
		isOverdue = &tx.Terms.IsOverdue
		loyaltyDeductions = &tx.Terms.LoyaltyDeductions
		lastDeduction = tx.Terms.LastDeductionDate
	}

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.StudentID,
		tx.TotalAmount,
		tx.Status,
		tx.CreatedAt,
		tx.UpdatedAt,
		dueDate,
		isOverdue,
		loyaltyDeductions,
		lastDeduction,
	)

	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	var row transactionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}

	return row.toDomain(), nil
}

func (r *transactionRepository) GetByStudentID(ctx context.Context, studentID string) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE student_id = $1
		ORDER BY created_at
	`

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.toDomain())
	}
	return txs, nil
}

func (r *transactionRepository) GetTracked(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status IN ('partial', 'credit') AND due_date IS NOT NULL
		ORDER BY created_at
	`

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.toDomain())
	}
	return txs, nil
}

func (r *transactionRepository) GetOverdue(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status IN ('partial', 'credit') AND is_overdue = true
		ORDER BY created_at
	`

	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.toDomain())
	}
	return txs, nil
}

func (r *transactionRepository) SetOverdue(ctx context.Context, id uuid.UUID, overdue bool) error {
	query := `
		UPDATE transactions
		SET is_overdue = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, overdue, time.Now())
	return err
}

func (r *transactionRepository) RecordDeduction(ctx context.Context, id uuid.UUID, points int, when time.Time) error {
	query := `
		UPDATE transactions
		SET loyalty_deductions = loyalty_deductions + $2,
		    last_deduction_date = $3,
		    updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, points, when)
	return err
}
