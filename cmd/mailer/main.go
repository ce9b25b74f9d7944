// Command mailer delivers queued account emails over SMTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prmhq/prm-backend/internal/config"
	"github.com/prmhq/prm-backend/internal/mail"
	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
	pkgredis "github.com/prmhq/prm-backend/pkg/redis"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	pkglogger.InitStructured(config.Env(), cfg.Log.Level)
	log := pkglogger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The mailer may start before Redis is up; keep trying for a while.
	client, err := pkgredis.NewClient(ctx, pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Attempts: 6,
		Backoff:  500 * time.Millisecond,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mailer requires redis")
	}
	defer client.Close()

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.SMTP.Host,
		Port:     cfg.Mail.SMTP.Port,
		Username: cfg.Mail.SMTP.Username,
		Password: cfg.Mail.SMTP.Password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid smtp settings")
	}
	worker := mail.NewWorker(mail.NewRedisQueue(client), sender, cfg.Mail.MaxAttempts)

	if cfg.Mail.MetricsAddr != "" {
		go serveMetrics(cfg.Mail.MetricsAddr)
	}

	if err := worker.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("mail worker failed")
	}
}

// serveMetrics exposes the worker's Prometheus metrics
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		pkglogger.GetLogger().Error().Err(err).Str("addr", addr).Msg("metrics listener stopped")
	}
}
