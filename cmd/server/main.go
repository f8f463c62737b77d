package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/teamchat/internal/server/blob"
	"github.com/iudanet/teamchat/internal/server/config"
	"github.com/iudanet/teamchat/internal/server/handlers"
	"github.com/iudanet/teamchat/internal/server/mail"
	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "teamchat-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	tokens, err := service.NewTokenLedger(store, store, cfg.SessionTTL, cfg.ResetTTL, logger)
	if err != nil {
		return err
	}

	// Expired rows accumulate between restarts; clear them on the way up.
	if swept, err := tokens.SweepExpiredSessionTokens(ctx); err != nil {
		logger.Warn("failed to sweep expired tokens", "error", err)
	} else if swept > 0 {
		logger.Info("swept expired session tokens", "count", swept)
	}

	mailer := newMailer(cfg, logger)
	blobs, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	access := service.NewAccessEvaluator(store)
	channels := service.NewChannelService(store, store, store, store, access, logger)

	router := handlers.NewRouter(handlers.Services{
		Auth:        service.NewAuthService(store, tokens, mailer, cfg.ResetURL, logger),
		Workspaces:  service.NewWorkspaceService(store, logger),
		Channels:    channels,
		Messages:    service.NewMessageService(channels, store, store, access, logger),
		Attachments: service.NewAttachmentService(store, blobs, logger),
	}, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// newMailer picks SMTP when configured, otherwise logs outgoing mail.
func newMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	if cfg.SMTPAddr != "" {
		return mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	logger.Warn("no SMTP relay configured, mail goes to the log")
	return mail.NewLogMailer(logger)
}

// newBlobStore picks minio when configured, otherwise keeps attachment
// bytes in memory.
func newBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (blob.Store, error) {
	if cfg.MinioEndpoint != "" {
		return blob.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	logger.Warn("no object storage configured, attachments are kept in memory")
	return blob.NewMemoryStore(), nil
}

func printVersion() {
	fmt.Printf("TeamChat Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
