package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/canteen-compliance/internal/domain"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT student_id, loyalty, is_active, suspension_date, banned_until
		FROM students
		WHERE student_id = $1
	`

	var student domain.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) UpdateLoyalty(ctx context.Context, studentID string, balance int) error {
	query := `
		UPDATE students
		SET loyalty = $2
		WHERE student_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, studentID, balance)
	return err
}

func (r *studentRepository) Suspend(ctx context.Context, studentID string, when time.Time) error {
	query := `
		UPDATE students
		SET is_active = false, suspension_date = $2
		WHERE student_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, studentID, when)
	return err
}

func (r *studentRepository) Ban(ctx context.Context, studentID string, until time.Time) error {
	query := `
		UPDATE students
		SET is_active = false, banned_until = $2
		WHERE student_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, studentID, until)
	return err
}
