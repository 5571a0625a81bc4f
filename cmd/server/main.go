package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactform/backend/internal/config"
	"github.com/contactform/backend/internal/handler"
	"github.com/contactform/backend/internal/logging"
	"github.com/contactform/backend/internal/mail"
	"github.com/contactform/backend/internal/repository"
	"github.com/contactform/backend/internal/service"
	"github.com/contactform/backend/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(false)
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ストア接続（スキームで MongoDB / PostgreSQL / memory を切り替え）
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := repository.Open(connectCtx, cfg.StoreURL, cfg.StoreDatabase)
	cancel()
	if err != nil {
		logging.Fatal("failed to connect to store", "error", err)
	}
	slog.Info("store connected", "backend", store.Backend)
	if store.Backend == repository.BackendMemory && cfg.IsProduction() {
		slog.Warn("in-memory store in production: submissions are lost on restart")
	}

	// メール設定（未設定の場合は送信をスキップ）
	var sender mail.Sender = mail.NopSender{}
	if cfg.Mail.Enabled() {
		smtp := mail.NewSMTPSender(cfg.Mail)
		verifyCtx, cancel := context.WithTimeout(ctx, cfg.Mail.Timeout)
		if err := smtp.Verify(verifyCtx); err != nil {
			slog.Warn("email transporter verification failed", "host", cfg.Mail.Host, "error", err)
		} else {
			slog.Info("email transporter ready", "host", cfg.Mail.Host)
		}
		cancel()
		sender = smtp
	} else {
		slog.Warn("EMAIL_USER / EMAIL_PASS not set: emails will not be sent")
	}
	notifier := mail.NewNotifier(sender, cfg.AdminEmail)
	contactService := service.NewContactService(store.Contacts, notifier, cfg.Mail.Timeout)

	form, err := web.NewForm(cfg.APIBaseURL)
	if err != nil {
		logging.Fatal("failed to build contact form", "error", err)
	}

	router := handler.NewRouter(handler.RouterConfig{
		DB:             store,
		Contacts:       contactService,
		AllowedOrigins: cfg.CORSOrigins,
		AdminToken:     cfg.AdminToken,
		TrustProxy:     cfg.TrustProxy,
		RateLimiter:    handler.NewRateLimiter(ctx, cfg.ContactRateLimit),
		Form:           form,
	})
	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set: admin endpoints are unauthenticated")
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*cfg.Mail.Timeout + 10*time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		slog.Error("store close error", "error", err)
	}
}
