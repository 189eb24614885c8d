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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"showtime/internal/app"
	"showtime/internal/archive"
	"showtime/internal/config"
	"showtime/internal/scriptgen"
	httpTransport "showtime/internal/transport/http"
)

const releaseVersion = "0.1.0"

func main() {
	// A missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	cmd, err := newCmd()
	cobra.CheckErr(err)
	cobra.CheckErr(cmd.Execute())
}

func newCmd() (*cobra.Command, error) {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "showtime",
		Short:         "Live improv party game server: pick cards, read the script, vote for the star.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	if err := config.RegisterFlags(cmd.Flags(), v); err != nil {
		return nil, err
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("showtime v{{.Version}}\n")

	return cmd, nil
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting showtime server",
		"version", releaseVersion,
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	repo, closeArchive, err := newArchive(cfg, logger)
	if err != nil {
		return err
	}
	defer closeArchive()

	gateway, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}

	registryCfg := &app.RegistryConfig{
		Logger:            logger,
		Gateway:           gateway,
		GracePeriod:       cfg.Game.GracePeriod,
		SweepInterval:     cfg.Game.SweepInterval,
		InactivityTimeout: cfg.Game.InactivityTimeout,
		GenerateTimeout:   cfg.Writer.Timeout,
		HandSize:          cfg.Game.HandSize,
		Archive:           repo,
	}

	registry, err := app.NewRoomRegistry(registryCfg)
	if err != nil {
		return fmt.Errorf("creating room registry: %w", err)
	}
	defer registry.Close()

	server := httpTransport.NewServer(cfg, registry, repo, logger)

	errs := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errs:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, logOpts))
}

// newArchive connects the show archive when a redis address is configured.
// The returned repository is nil otherwise.
func newArchive(cfg *config.Config, logger *slog.Logger) (archive.Repository, func(), error) {
	if !cfg.ArchiveEnabled() {
		logger.Info("show archive disabled")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	repo, err := archive.NewRedis(&archive.Config{
		RedisClient: client,
		MaxRecent:   cfg.Redis.ArchiveSize,
		Retention:   cfg.Redis.Retention,
	})
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("creating show archive: %w", err)
	}

	logger.Info("show archive connected", "addr", cfg.Redis.Addr)
	return repo, func() { client.Close() }, nil
}

// newGateway picks the HTTP writer when a URL is configured and the canned
// writer otherwise.
func newGateway(cfg *config.Config, logger *slog.Logger) (scriptgen.Gateway, error) {
	if cfg.Writer.URL == "" {
		logger.Warn("no writer URL configured, using canned scripts")
		return scriptgen.NewCannedGateway(), nil
	}

	gateway, err := scriptgen.NewHTTPGateway(&scriptgen.HTTPConfig{
		URL:     cfg.Writer.URL,
		APIKey:  cfg.Writer.APIKey,
		Timeout: cfg.Writer.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating script writer: %w", err)
	}

	logger.Info("script writer configured", "url", cfg.Writer.URL)
	return gateway, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
