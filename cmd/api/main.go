package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"

	"realtor-feedback/internal/analysis"
	"realtor-feedback/internal/calls"
	"realtor-feedback/internal/config"
	"realtor-feedback/internal/directory"
	"realtor-feedback/internal/feedback"
	"realtor-feedback/internal/httpapi"
	"realtor-feedback/internal/initiator"
	"realtor-feedback/internal/pipeline"
	"realtor-feedback/internal/telephony"
	"realtor-feedback/internal/transcription"
	"realtor-feedback/pkg/logger"
	"realtor-feedback/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Missing .env is fine; containers inject env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	provider, err := telephony.NewTwilioProvider(telephony.TwilioOptions{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		BaseURL:    cfg.Twilio.APIBaseURL,
	})
	if err != nil {
		log.Error("telephony init failed", "err", err)
		os.Exit(1)
	}

	transcriber, err := transcription.NewTranscriber(transcription.Options{
		Source:  provider,
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.TranscribeModel,
	})
	if err != nil {
		log.Error("transcription init failed", "err", err)
		os.Exit(1)
	}

	analyzer, err := analysis.NewAnalyzer(analysis.Options{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ChatModel,
	})
	if err != nil {
		log.Error("analysis init failed", "err", err)
		os.Exit(1)
	}

	initiatorSvc := initiator.NewService(initiator.NewPostgresStore(db), provider, initiator.Options{
		FromNumber:           cfg.Twilio.FromNumber,
		CallbackURL:          cfg.RecordingCallbackURL(),
		DefaultCountryPrefix: cfg.Dial.DefaultCountryPrefix,
	})

	webhook := pipeline.NewHandler(
		pipeline.NewPostgresStore(db),
		transcriber,
		analyzer,
		pipeline.NewRedisDedupe(rdb, 0),
	)

	handlers := httpapi.Handlers{
		Directory: directory.NewService(db),
		Calls:     calls.NewService(db),
		Feedback:  feedback.NewService(db),
		Initiator: initiatorSvc,
		Analyzer:  analyzer,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, db, webhook, handlers)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
