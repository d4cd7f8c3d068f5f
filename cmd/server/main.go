package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prasetyo/canteen-compliance/internal/calendar"
	"github.com/prasetyo/canteen-compliance/internal/compliance"
	"github.com/prasetyo/canteen-compliance/internal/config"
	"github.com/prasetyo/canteen-compliance/internal/handler"
	"github.com/prasetyo/canteen-compliance/internal/logger"
	"github.com/prasetyo/canteen-compliance/internal/repository"
	"github.com/prasetyo/canteen-compliance/internal/scheduler"
	"github.com/prasetyo/canteen-compliance/internal/service"
)

func main() {
	// Optional .env file for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zaplog, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zaplog.Sync()

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		zaplog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	// Initialize compliance core
	policy := cfg.CompliancePolicy()
	engine := compliance.NewEngine(policy)
	dueDateCalc := compliance.NewDueDateCalculator(calendar.New(), policy)

	complianceService := service.NewComplianceService(transactionRepo, studentRepo, engine, dueDateCalc, redisClient, zaplog)

	// Daily sweep scheduler
	sweeper := scheduler.NewSweeper(complianceService, zaplog, cfg.Sweep.Time, cfg.GetSweepPollInterval(), cfg.GetSweepLocation())
	sweeper.Start()
	defer sweeper.Stop()

	complianceHandler := handler.NewComplianceHandler(complianceService, sweeper)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(complianceHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		zaplog.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zaplog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zaplog.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zaplog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zaplog.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(complianceHandler *handler.ComplianceHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/transactions", complianceHandler.RegisterTransaction).Methods("POST")
	api.HandleFunc("/transactions/{id}", complianceHandler.GetTransaction).Methods("GET")
	api.HandleFunc("/students/{studentId}", complianceHandler.GetStudent).Methods("GET")
	api.HandleFunc("/students/{studentId}/transactions", complianceHandler.GetStudentTransactions).Methods("GET")
	api.HandleFunc("/sweep/run", complianceHandler.RunSweep).Methods("POST")
	api.HandleFunc("/sweep/status", complianceHandler.SweepStatus).Methods("GET")

	return router
}
