/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the workday engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags (cobra)
  2. Load configuration (viper)
  3. Build the logger (zap)
  4. Open the SQLite store
  5. Build the engine and re-hydrate its calendar from the store
  6. Apply the seed calendar from config when the store is empty
  7. Serve HTTP with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with defaults (config.yaml if present, workday.db)
  ./workday-server

  # Run with explicit config
  ./workday-server --config /etc/workday/config.yaml

SEE ALSO:
  - config/config.go: Configuration schema
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/workday-engine/api"
	"github.com/warp/workday-engine/calendar"
	"github.com/warp/workday-engine/config"
	"github.com/warp/workday-engine/store/sqlite"
	"github.com/warp/workday-engine/workday"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "workday-server",
		Short: "Workday calendar arithmetic service",
		Long:  "HTTP service computing holiday-aware, business-hours workday increments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	engine := workday.NewEngine(calendar.NewGregorian(), logger)
	handler := api.NewHandler(store, engine, logger)

	ctx := context.Background()
	if err := handler.LoadCalendar(ctx); err != nil {
		return fmt.Errorf("failed to load calendar: %w", err)
	}
	if err := seedCalendar(ctx, cfg, store, engine, logger); err != nil {
		return fmt.Errorf("failed to seed calendar: %w", err)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// seedCalendar applies the config-file calendar on first start. The
// persisted store wins: a seed window is only applied when no window has
// ever been saved, and seed holidays are idempotent inserts.
func seedCalendar(ctx context.Context, cfg *config.Config, store *sqlite.Store, engine *workday.Engine, logger *zap.Logger) error {
	if _, configured := engine.Window(); !configured && cfg.HasSeedWindow() {
		sh, sm, _ := config.ParseClock(cfg.Workday.Start)
		th, tm, _ := config.ParseClock(cfg.Workday.Stop)
		start := calendar.NewDate(0, 1, 1, sh, sm)
		stop := calendar.NewDate(0, 1, 1, th, tm)

		engine.SetWorkdayStartAndStop(start, stop)
		if err := store.SaveWindow(ctx, start, stop); err != nil {
			return err
		}
		logger.Info("seed window applied",
			zap.String("start", cfg.Workday.Start),
			zap.String("stop", cfg.Workday.Stop))
	}

	for _, h := range cfg.Workday.Holidays {
		var date calendar.Date
		if h.Recurring {
			m, d, _ := config.ParseMonthDay(h.Date)
			date = calendar.NewDate(0, m, d, 0, 0)
		} else {
			y, m, d, _ := config.ParseDate(h.Date)
			date = calendar.NewDate(y, m, d, 0, 0)
		}
		if !engine.IsValidDate(date) {
			logger.Warn("skipping invalid seed holiday", zap.String("date", h.Date))
			continue
		}
		if h.Recurring {
			engine.SetRecurringHoliday(date)
			if err := store.SaveRecurringHoliday(ctx, date); err != nil {
				return err
			}
		} else {
			engine.SetHoliday(date)
			if err := store.SaveHoliday(ctx, date); err != nil {
				return err
			}
		}
	}
	return nil
}

func initLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}
