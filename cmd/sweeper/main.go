// Headless sweep runner for deployments that do not run the API server.
// The daily sweep is driven by cron instead of the in-process scheduler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/prasetyo/canteen-compliance/internal/calendar"
	"github.com/prasetyo/canteen-compliance/internal/compliance"
	"github.com/prasetyo/canteen-compliance/internal/config"
	"github.com/prasetyo/canteen-compliance/internal/logger"
	"github.com/prasetyo/canteen-compliance/internal/repository"
	"github.com/prasetyo/canteen-compliance/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zaplog, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zaplog.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		zaplog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	policy := cfg.CompliancePolicy()
	engine := compliance.NewEngine(policy)
	dueDateCalc := compliance.NewDueDateCalculator(calendar.New(), policy)

	complianceService := service.NewComplianceService(
		repository.NewTransactionRepository(db),
		repository.NewStudentRepository(db),
		engine,
		dueDateCalc,
		redisClient,
		zaplog,
	)

	c := cron.New(cron.WithLocation(cfg.GetSweepLocation()))

	spec, err := cronSpec(cfg.Sweep.Time)
	if err != nil {
		zaplog.Fatal("invalid SWEEP_TIME", zap.Error(err))
	}

	_, err = c.AddFunc(spec, func() {
		zaplog.Info("running daily compliance sweep")
		report, err := complianceService.RunSweep(context.Background())
		if err != nil {
			zaplog.Error("sweep failed", zap.Error(err))
			return
		}
		zaplog.Info("sweep done",
			zap.Int("processed", report.Processed),
			zap.Int("deducted", report.Deducted),
			zap.Int("errors", len(report.Errors)),
		)
	})
	if err != nil {
		zaplog.Fatal("failed to schedule sweep", zap.Error(err))
	}

	c.Start()
	zaplog.Info("sweeper started", zap.String("schedule", spec))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zaplog.Info("shutting down sweeper")
	<-c.Stop().Done()
	zaplog.Info("sweeper stopped")
}

// cronSpec turns an HH:MM wall-clock time into a daily cron expression.
func cronSpec(at string) (string, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("expected HH:MM: %w", err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
