package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prasetyo/canteen-compliance/internal/compliance"
	"github.com/prasetyo/canteen-compliance/internal/domain"
	"github.com/prasetyo/canteen-compliance/internal/repository"
	customError "github.com/prasetyo/canteen-compliance/pkg/errors"
)

const (
	sweepReportKey = "sweep:last_report"
	sweepReportTTL = 24 * time.Hour
)

// ComplianceService applies the payment-compliance rules: due-date stamping
// at registration time, and the daily sweep over all outstanding
// transactions.
type ComplianceService struct {
	TransactionRepo repository.TransactionRepository
	StudentRepo     repository.StudentRepository

	engine  *compliance.Engine
	dueDate *compliance.DueDateCalculator
	redis   *redis.Client
	log     *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

func NewComplianceService(
	transactionRepo repository.TransactionRepository,
	studentRepo repository.StudentRepository,
	engine *compliance.Engine,
	dueDate *compliance.DueDateCalculator,
	redisClient *redis.Client,
	log *zap.Logger,
) *ComplianceService {
	return &ComplianceService{
		TransactionRepo: transactionRepo,
		StudentRepo:     studentRepo,
		engine:          engine,
		dueDate:         dueDate,
		redis:           redisClient,
		log:             log,
		now:             time.Now,
	}
}

// RegisterTransaction records a new canteen transaction. Partial and Credit
// transactions get their due date computed and an initial overdue
// evaluation persisted immediately; Paid transactions carry no terms.
func (s *ComplianceService) RegisterTransaction(ctx context.Context, request *domain.RegisterTransactionRequest) (*domain.Transaction, error) {
	if !request.Status.Valid() {
		return nil, customError.WrapInvalidTransaction("unknown payment status " + string(request.Status))
	}
	if !request.TotalAmount.IsPositive() {
		return nil, customError.WrapInvalidTransaction("total amount must be greater than zero")
	}

	if _, err := s.StudentRepo.GetByStudentID(ctx, request.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapStudentNotFound(request.StudentID)
		}
		return nil, customError.WrapStoreFailure(err)
	}

	now := s.now()
	tx := &domain.Transaction{
		ID:          uuid.New(),
		StudentID:   request.StudentID,
		TotalAmount: request.TotalAmount,
		Status:      request.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if tx.Status.Tracked() {
		due := s.dueDate.ComputeDueDate(now, tx.TotalAmount)
		tx.Terms = &domain.PaymentTerms{DueDate: due}
		tx.Terms.IsOverdue = s.engine.IsOverdue(tx, now)
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, customError.WrapStoreFailure(err)
	}

	return tx, nil
}

// GetTransaction returns a single transaction by id.
func (s *ComplianceService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapTransactionNotFound(id.String())
		}
		return nil, customError.WrapStoreFailure(err)
	}
	return tx, nil
}

// GetStudent returns a student's account state.
func (s *ComplianceService) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	student, err := s.StudentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapStudentNotFound(studentID)
		}
		return nil, customError.WrapStoreFailure(err)
	}
	return student, nil
}

// GetStudentTransactions returns all transactions owned by a student.
func (s *ComplianceService) GetStudentTransactions(ctx context.Context, studentID string) ([]*domain.Transaction, error) {
	txs, err := s.TransactionRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, customError.WrapStoreFailure(err)
	}
	return txs, nil
}

// RunSweep performs one full pass over all tracked transactions: refresh
// stale overdue flags, apply loyalty deductions for overdue transactions,
// and evaluate account suspension/ban on the resulting balances. A failure
// on one record is recorded and the sweep moves on; only a failure to fetch
// the candidate set fails the whole run.
func (s *ComplianceService) RunSweep(ctx context.Context) (*domain.SweepReport, error) {
	report := &domain.SweepReport{StartedAt: s.now()}

	candidates, err := s.TransactionRepo.GetTracked(ctx)
	if err != nil {
		return nil, customError.WrapSweepFetchFailed(err)
	}

	// Pass 1: reconcile the cached overdue flags.
	for _, tx := range candidates {
		if tx.Terms == nil || !tx.Status.Tracked() {
			continue
		}
		report.Processed++

		overdue := s.engine.IsOverdue(tx, s.now())
		if overdue == tx.Terms.IsOverdue {
			continue
		}
		if err := s.TransactionRepo.SetOverdue(ctx, tx.ID, overdue); err != nil {
			s.recordError(report, tx, "overdue_refresh", err)
			continue
		}
		tx.Terms.IsOverdue = overdue
		if overdue {
			report.OverdueFlagged++
		}
	}

	// Pass 2: deductions and account actions.
	for _, tx := range candidates {
		if tx.Terms == nil || !tx.Status.Tracked() {
			continue
		}
		s.deduct(ctx, tx, report)
	}

	report.FinishedAt = s.now()

	s.cacheReport(ctx, report)

	s.log.Info("sweep finished",
		zap.Int("processed", report.Processed),
		zap.Int("overdue_flagged", report.OverdueFlagged),
		zap.Int("deducted", report.Deducted),
		zap.Int("points_deducted", report.PointsDeducted),
		zap.Int("suspended", report.Suspended),
		zap.Int("banned", report.Banned),
		zap.Int("errors", len(report.Errors)),
	)

	return report, nil
}

// deduct applies at most one deduction for tx and evaluates the owner's
// account state on the new balance. Errors are appended to the report.
func (s *ComplianceService) deduct(ctx context.Context, tx *domain.Transaction, report *domain.SweepReport) {
	now := s.now()

	points := s.engine.CalculateDeduction(tx, now)
	if points == 0 {
		return
	}

	student, err := s.StudentRepo.GetByStudentID(ctx, tx.StudentID)
	if err != nil {
		s.recordError(report, tx, "deduction", err)
		return
	}

	// Stamp the transaction first so a partial failure below cannot cause a
	// second deduction for the same day.
	if err := s.TransactionRepo.RecordDeduction(ctx, tx.ID, points, now); err != nil {
		s.recordError(report, tx, "deduction", err)
		return
	}
	tx.Terms.LoyaltyDeductions += points
	tx.Terms.LastDeductionDate = &now

	// Balance is floored at zero.
	newBalance := student.Loyalty - points
	if newBalance < 0 {
		newBalance = 0
	}
	if err := s.StudentRepo.UpdateLoyalty(ctx, tx.StudentID, newBalance); err != nil {
		s.recordError(report, tx, "deduction", err)
		return
	}

	report.Deducted++
	report.PointsDeducted += points

	if s.engine.ShouldSuspend(newBalance) && student.IsActive {
		if err := s.StudentRepo.Suspend(ctx, tx.StudentID, now); err != nil {
			s.recordError(report, tx, "deduction", err)
		} else {
			report.Suspended++
		}
	}

	if ban, banDays := s.engine.ShouldBan(newBalance, tx.TotalAmount); ban {
		until := now.AddDate(0, 0, banDays)
		if err := s.StudentRepo.Ban(ctx, tx.StudentID, until); err != nil {
			s.recordError(report, tx, "deduction", err)
		} else {
			report.Banned++
		}
	}
}

func (s *ComplianceService) recordError(report *domain.SweepReport, tx *domain.Transaction, stage string, err error) {
	s.log.Warn("sweep record failed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("student_id", tx.StudentID),
		zap.String("stage", stage),
		zap.Error(err),
	)
	report.Errors = append(report.Errors, domain.SweepError{
		TransactionID: tx.ID.String(),
		StudentID:     tx.StudentID,
		Stage:         stage,
		Message:       err.Error(),
	})
}

// cacheReport stores the latest sweep report in redis so status queries
// survive a restart. Cache failures are logged, never fatal.
func (s *ComplianceService) cacheReport(ctx context.Context, report *domain.SweepReport) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.log.Warn("could not marshal sweep report", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, sweepReportKey, payload, sweepReportTTL).Err(); err != nil {
		s.log.Warn("could not cache sweep report", zap.Error(err))
	}
}

// LastReport returns the most recently cached sweep report, or nil when no
// sweep has run within the cache TTL.
func (s *ComplianceService) LastReport(ctx context.Context) (*domain.SweepReport, error) {
	if s.redis == nil {
		return nil, nil
	}
	payload, err := s.redis.Get(ctx, sweepReportKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var report domain.SweepReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
