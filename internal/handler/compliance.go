package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/prasetyo/canteen-compliance/internal/domain"
	"github.com/prasetyo/canteen-compliance/internal/scheduler"
	"github.com/prasetyo/canteen-compliance/internal/service"
	customError "github.com/prasetyo/canteen-compliance/pkg/errors"
	"github.com/prasetyo/canteen-compliance/pkg/response"
)

type ComplianceHandler struct {
	service   *service.ComplianceService
	sweeper   *scheduler.Sweeper
	validator *validator.Validate
}

func NewComplianceHandler(service *service.ComplianceService, sweeper *scheduler.Sweeper) *ComplianceHandler {
	return &ComplianceHandler{
		service:   service,
		sweeper:   sweeper,
		validator: validator.New(),
	}
}

// RegisterTransaction handles POST /api/v1/transactions
func (h *ComplianceHandler) RegisterTransaction(w http.ResponseWriter, r *http.Request) {
	var request domain.RegisterTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	tx, err := h.service.RegisterTransaction(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, domain.RegisterTransactionResponse{Transaction: tx})
}

// GetTransaction handles GET /api/v1/transactions/{id}
func (h *ComplianceHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid transaction id", err)
		return
	}

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, tx)
}

// GetStudent handles GET /api/v1/students/{studentId}
func (h *ComplianceHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	student, err := h.service.GetStudent(r.Context(), studentID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, student)
}

// GetStudentTransactions handles GET /api/v1/students/{studentId}/transactions
func (h *ComplianceHandler) GetStudentTransactions(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	txs, err := h.service.GetStudentTransactions(r.Context(), studentID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, domain.StudentTransactionsResponse{
		StudentID:    studentID,
		Transactions: txs,
	})
}

// RunSweep handles POST /api/v1/sweep/run
func (h *ComplianceHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweeper.RunNow(r.Context())
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, report)
}

// SweepStatus handles GET /api/v1/sweep/status
func (h *ComplianceHandler) SweepStatus(w http.ResponseWriter, r *http.Request) {
	status := h.sweeper.Status()

	report, err := h.service.LastReport(r.Context())
	if err == nil {
		status.LastReport = report
	}

	response.Success(w, status)
}

// writeBusinessError maps a BusinessError code to an HTTP status.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeStudentNotFound, customError.ErrCodeTransactionNotFound:
		response.NotFound(w, businessErr.Message)
	case customError.ErrCodeInvalidTransaction:
		response.BadRequest(w, businessErr.Message, businessErr.Err)
	case customError.ErrCodeSweepInProgress:
		response.Conflict(w, businessErr.Message, businessErr.Err)
	default:
		response.InternalServerError(w, businessErr.Message, businessErr.Err)
	}
}
