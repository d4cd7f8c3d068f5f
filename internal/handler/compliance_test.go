package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/prasetyo/canteen-compliance/internal/calendar"
	"github.com/prasetyo/canteen-compliance/internal/compliance"
	"github.com/prasetyo/canteen-compliance/internal/domain"
	"github.com/prasetyo/canteen-compliance/internal/handler"
	"github.com/prasetyo/canteen-compliance/internal/scheduler"
	"github.com/prasetyo/canteen-compliance/internal/service"
	"github.com/prasetyo/canteen-compliance/tests/mocks"
)

func newTestRouter(txRepo *mocks.MockTransactionRepository, studentRepo *mocks.MockStudentRepository) *mux.Router {
	policy := compliance.DefaultPolicy()
	svc := service.NewComplianceService(
		txRepo,
		studentRepo,
		compliance.NewEngine(policy),
		compliance.NewDueDateCalculator(calendar.New(), policy),
		nil,
		zap.NewNop(),
	)
	sweeper := scheduler.NewSweeper(svc, zap.NewNop(), "17:00", time.Minute, time.UTC)
	h := handler.NewComplianceHandler(svc, sweeper)

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/transactions", h.RegisterTransaction).Methods("POST")
	api.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	api.HandleFunc("/students/{studentId}", h.GetStudent).Methods("GET")
	api.HandleFunc("/sweep/run", h.RunSweep).Methods("POST")
	api.HandleFunc("/sweep/status", h.SweepStatus).Methods("GET")
	return router
}

func TestRegisterTransactionHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(*mocks.MockTransactionRepository, *mocks.MockStudentRepository)
		expectedStatus int
	}{
		{
			name: "valid credit transaction",
			body: map[string]interface{}{
				"student_id":   "S-1001",
				"total_amount": "40",
				"status":       "credit",
			},
			setupMocks: func(txRepo *mocks.MockTransactionRepository, studentRepo *mocks.MockStudentRepository) {
				studentRepo.On("GetByStudentID", mock.Anything, "S-1001").
					Return(&domain.Student{StudentID: "S-1001", Loyalty: 25, IsActive: true}, nil)
				txRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unknown status rejected",
			body: map[string]interface{}{
				"student_id":   "S-1001",
				"total_amount": "40",
				"status":       "layaway",
			},
			setupMocks:     func(*mocks.MockTransactionRepository, *mocks.MockStudentRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing student id rejected",
			body: map[string]interface{}{
				"total_amount": "40",
				"status":       "credit",
			},
			setupMocks:     func(*mocks.MockTransactionRepository, *mocks.MockStudentRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txRepo := new(mocks.MockTransactionRepository)
			studentRepo := new(mocks.MockStudentRepository)
			tt.setupMocks(txRepo, studentRepo)

			router := newTestRouter(txRepo, studentRepo)

			payload, err := json.Marshal(tt.body)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			txRepo.AssertExpectations(t)
		})
	}
}

func TestGetTransactionHandlerRejectsBadID(t *testing.T) {
	router := newTestRouter(new(mocks.MockTransactionRepository), new(mocks.MockStudentRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSweepRunHandler(t *testing.T) {
	txRepo := new(mocks.MockTransactionRepository)
	txRepo.On("GetTracked", mock.Anything).Return([]*domain.Transaction{}, nil)

	router := newTestRouter(txRepo, new(mocks.MockStudentRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sweep/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool               `json:"success"`
		Data    domain.SweepReport `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Zero(t, body.Data.Processed)
}

func TestSweepStatusHandler(t *testing.T) {
	router := newTestRouter(new(mocks.MockTransactionRepository), new(mocks.MockStudentRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sweep/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                       `json:"success"`
		Data    domain.SweepStatusResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.Data.Running)
	assert.NotNil(t, body.Data.NextRun)
}
