package cli

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

	"github.com/spf13/cobra"

	"github.com/Axel-LeBlanc/Eatmands/internal/activity"
	"github.com/Axel-LeBlanc/Eatmands/internal/auth"
	"github.com/Axel-LeBlanc/Eatmands/internal/catalog"
	"github.com/Axel-LeBlanc/Eatmands/internal/config"
	"github.com/Axel-LeBlanc/Eatmands/internal/db"
	"github.com/Axel-LeBlanc/Eatmands/internal/order"
	"github.com/Axel-LeBlanc/Eatmands/internal/server"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger := setupLogger(cfg.Server.LogLevel)
			slog.SetDefault(logger)

			gdb, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to MySQL: %w", err)
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrating schema: %w", err)
			}

			tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			activityLog := activity.NewLog(gdb, logger)
			cat := catalog.New(gdb)
			orders := order.NewService(gdb, cat, activityLog, logger)
			staff := auth.NewService(gdb, tokens)

			h := server.NewHandler(orders, cat, staff, activityLog, logger)
			srv := server.New(cfg.Server, h, tokens, logger)

			go func() {
				logger.Info("server starting", "port", cfg.Server.Port)
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", "error", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
