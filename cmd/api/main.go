package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/config"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/hris-attendance-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/cache"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/sqlite"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/service/reconciliation"
)

const version = "v1.0.0"

// sources groups the repositories the reconciliation service reads from.
type sources struct {
	attendance attendance.AttendanceLogRepository
	calendar   calendar.CalendarRepository
	shift      shift.ShiftProfileRepository
	employee   employee.EmployeeRepository
	leave      leave.LeavePolicyRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSources(ctx, cfg)
	if err != nil {
		slog.Error("Error opening data sources", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer src.close()
	if cfg.IsProduction() && cfg.Database.Driver == "sqlite" {
		slog.Warn("SQLite backend is meant for development, use postgres in production")
	}

	calendarRepo := src.calendar
	if cfg.Redis.Addr != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("Calendar cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			calendarRepo = cache.NewCalendarCache(src.calendar, redisClient, cfg.Redis.TTL)
		}
	}

	allowance, err := cfg.MonthlyAllowance()
	if err != nil {
		slog.Error("Invalid monthly leave allowance", "error", err)
		os.Exit(1)
	}

	reconciliationService := reconciliation.NewReconciliationService(
		src.attendance,
		calendarRepo,
		src.shift,
		src.employee,
		src.leave,
		reconciliation.Options{
			DefaultTimezone:   cfg.Reconciliation.DefaultTimezone,
			DefaultAllowance:  allowance,
			ReportConcurrency: cfg.Reconciliation.ReportConcurrency,
		},
	)

	if cfg.Export.Enabled {
		fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			slog.Error("Failed to initialize local storage", "error", err)
			os.Exit(1)
		}

		scheduler := cron.NewScheduler()
		exportJob := cron.NewReportExportJob(reconciliationService, fileStorage, cfg.Export.CompanyIDs, nil)
		exportJob.RegisterJobs(scheduler, cfg.Export.Interval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	reconciliationHandler := appHTTP.NewReconciliationHandler(reconciliationService)

	router := appHTTP.NewRouter(JWTService, reconciliationHandler, appHTTP.RouterOptions{
		AllowedOrigins: []string{cfg.App.FrontendOrigin},
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       level,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}

func openSources(ctx context.Context, cfg *config.Config) (*sources, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &sources{
			attendance: postgresql.NewAttendanceRepository(db),
			calendar:   postgresql.NewCalendarRepository(db),
			shift:      postgresql.NewShiftProfileRepository(db),
			employee:   postgresql.NewEmployeeRepository(db),
			leave:      postgresql.NewLeavePolicyRepository(db),
			close:      db.Close,
		}, nil

	case "sqlite":
		if cfg.Database.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		store, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &sources{
			attendance: sqlite.NewAttendanceRepository(store),
			calendar:   sqlite.NewCalendarRepository(store),
			shift:      sqlite.NewShiftProfileRepository(store),
			employee:   sqlite.NewEmployeeRepository(store),
			leave:      sqlite.NewLeavePolicyRepository(store),
			close:      func() { store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
