package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/canteen-compliance/internal/domain"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByStudentID(ctx context.Context, studentID string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetTracked(ctx context.Context) ([]*domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetOverdue(ctx context.Context) ([]*domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SetOverdue(ctx context.Context, id uuid.UUID, overdue bool) error {
	args := m.Called(ctx, id, overdue)
	return args.Error(0)
}

func (m *MockTransactionRepository) RecordDeduction(ctx context.Context, id uuid.UUID, points int, when time.Time) error {
	args := m.Called(ctx, id, points, when)
	return args.Error(0)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) UpdateLoyalty(ctx context.Context, studentID string, balance int) error {
	args := m.Called(ctx, studentID, balance)
	return args.Error(0)
}

func (m *MockStudentRepository) Suspend(ctx context.Context, studentID string, when time.Time) error {
	args := m.Called(ctx, studentID, when)
	return args.Error(0)
}

func (m *MockStudentRepository) Ban(ctx context.Context, studentID string, until time.Time) error {
	args := m.Called(ctx, studentID, until)
	return args.Error(0)
}
