package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/config"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	appHTTP "github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/attendance"
	correctionService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/correction"
	reportService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/report"
	worktimeService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/worktime"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		slog.Error("Invalid timezone", "timezone", cfg.App.Timezone, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var locker lock.Locker
	switch cfg.Lock.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddress,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Error connecting to redis", "address", cfg.Lock.RedisAddress, "error", err)
			os.Exit(1)
		}
		locker = lock.NewRedisLocker(rdb, lock.RedisOptions{TTL: cfg.Lock.TTL, Retries: 50})
	default:
		locker = lock.NewLocalLocker()
	}

	userRepo := postgresql.NewUserRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	transactor := postgresql.NewTransactor(db)

	policy := worktime.Policy(cfg.Ledger.Policy)
	thresholds := worktime.Thresholds{
		ExpectedDaily:  time.Duration(cfg.Ledger.ExpectedDailyMinutes) * time.Minute,
		ExpectedFriday: time.Duration(cfg.Ledger.FridayExpectedMinutes) * time.Minute,
		WeeklyCap:      time.Duration(cfg.Ledger.WeeklyCapHours) * time.Hour,
		YearlyCap:      time.Duration(cfg.Ledger.YearlyCapHours) * time.Hour,
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(eventRepo, userRepo, transactor, locker, attendanceService.Config{
		Policy:   policy,
		Location: location,
	})
	worktimeSvc := worktimeService.NewWorktimeService(eventRepo, userRepo, worktimeService.Config{
		Policy:     policy,
		Location:   location,
		Thresholds: thresholds,
	})
	correctionSvc := correctionService.NewCorrectionService(correctionRepo, eventRepo, transactor, locker, correctionService.Config{Policy: policy})
	reportSvc := reportService.NewReportService(reportRepo, eventRepo, userRepo, transactor, locker, reportService.Config{
		Policy:           policy,
		Location:         location,
		Thresholds:       thresholds,
		WindowDays:       cfg.Ledger.ReportWindowDays,
		ContestMinLength: cfg.Ledger.ContestMinLength,
	})

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Env:            cfg.App.Env,
			Version:        cfg.App.Version,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewWorktimeHandler(worktimeSvc),
		appHTTP.NewCorrectionHandler(correctionSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "address", server.Addr, "env", cfg.App.Env, "policy", policy, "lock_backend", cfg.Lock.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
