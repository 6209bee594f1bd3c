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
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/redis/go-redis/v9"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "hris-payroll-engine"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("Error connecting to redis", "error", err)
			os.Exit(1)
		}
		locker = lock.NewRedisLocker(client, lock.WithTTL(cfg.Attendance.LockTimeout*6))
		slog.Info("Using redis attendance locks")
	}

	txManager := postgresql.NewTxManager(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	salaryRecordRepo := postgresql.NewSalaryRecordRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		profileRepo,
		workScheduleRepo,
		locker,
		attendanceService.Options{
			GraceMinutes:        cfg.Attendance.GraceMinutes,
			Location:            cfg.App.Location,
			LockTimeout:         cfg.Attendance.LockTimeout,
			AutoCheckoutEnabled: cfg.Attendance.AutoCheckoutEnabled,
			AutoCheckoutClock:   cfg.Attendance.AutoCheckoutTime,
		},
	)
	leaveSvc := leaveService.NewLeaveService(txManager, leaveRequestRepo, profileRepo, cfg.App.Location)
	payrollSvc := payrollService.NewPayrollService(
		txManager,
		salaryRecordRepo,
		policyRepo,
		profileRepo,
		workScheduleRepo,
		attendanceRepo,
		leaveRequestRepo,
		payrollService.Options{
			Location:      cfg.App.Location,
			Concurrency:   cfg.Payroll.BatchConcurrency,
			DefaultPolicy: cfg.DefaultPayPolicy(),
		},
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, cfg.App.Location)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc, cfg.App.Location)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		leaveHandler,
		payrollHandler,
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler)
	cron.NewPayrollJobs(payrollSvc, cfg.App.Location).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
