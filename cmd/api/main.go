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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"

	"github.com/prmhq/prm-backend/internal/app"
	"github.com/prmhq/prm-backend/internal/config"
	"github.com/prmhq/prm-backend/internal/database"
	"github.com/prmhq/prm-backend/internal/mail"
	"github.com/prmhq/prm-backend/internal/middleware"
	"github.com/prmhq/prm-backend/internal/migration"
	"github.com/prmhq/prm-backend/pkg/jwt"
	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
	pkgredis "github.com/prmhq/prm-backend/pkg/redis"
	pkgstorage "github.com/prmhq/prm-backend/pkg/storage"
)

// @title           PRM Backend API
// @version         1.0
// @description     Personal relationship management: contacts, activities, events and moods
//
// @license.name    MIT
//
// @host            localhost:8082
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := config.Env()
	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", configPath, err)
		os.Exit(1)
	}

	pkglogger.InitStructured(env, cfg.Log.Level)
	log := pkglogger.GetLogger()
	log.Info().Str("env", env).Strs("env_files", dotenvFiles).Str("config", configPath).Msg("starting")
	config.LogResolved(cfg)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// Database
	gormLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, gormLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")
	if cfg.IsDevelopment() {
		if err := migration.Run(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := middleware.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn().Err(err).Msg("db stats collector not registered")
		}
	}

	// Redis (optional): session cache, rate limiting, mail outbox
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(context.Background(), redisOptions(cfg.Redis, 1))
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			log.Info().Msg("connected to redis")
		}
	}

	var outbox mail.Enqueuer = mail.LogQueue{}
	if redisClient != nil {
		outbox = mail.NewRedisQueue(redisClient)
	}

	deps := app.Deps{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		JWT:    jwt.NewManager(cfg.Auth.SecretKey),
		Outbox: outbox,
	}

	// Object storage (optional): pictures
	if cfg.Storage.Enabled {
		s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			log.Warn().Err(err).Msg("storage unavailable, picture uploads disabled")
		} else {
			deps.Uploader = s3Client
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	log.Info().Msg("server stopped")
}

func redisOptions(c config.RedisConfig, attempts int) pkgredis.Options {
	return pkgredis.Options{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
		Attempts: attempts,
	}
}
