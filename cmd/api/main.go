package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	"github.com/BruksfildServices01/agenda-facil/internal/billing"
	"github.com/BruksfildServices01/agenda-facil/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-facil/internal/db"
	"github.com/BruksfildServices01/agenda-facil/internal/logger"
	"github.com/BruksfildServices01/agenda-facil/internal/media"
	"github.com/BruksfildServices01/agenda-facil/internal/routes"
	"github.com/BruksfildServices01/agenda-facil/internal/slothold"
	"github.com/BruksfildServices01/agenda-facil/internal/timezone"
	"github.com/BruksfildServices01/agenda-facil/internal/validators"
)

const shutdownTimeout = 10 * time.Second

func main() {

	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timezone.SetDefault(cfg.DefaultTimezone)
	db := dbpkg.NewDB(cfg, log)

	if err := validators.RegisterGin(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Audit:    auditDispatcher,
		Registry: registry,
	}

	// --------------------------------------------------
	// Opcionais: Redis, Mercado Pago, S3
	// --------------------------------------------------
	if cfg.RedisURL != "" {
		rdb, err := slothold.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, slot hold disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			deps.Hold = slothold.New(rdb, cfg.SlotHoldTTL)
		}
	}

	if cfg.MPAccessToken != "" {
		client, err := billing.NewMercadoPagoClient(cfg.MPAccessToken)
		if err != nil {
			log.Warn("mercado pago disabled", zap.Error(err))
		} else {
			deps.Checkout = billing.NewCheckout(client, cfg.PlanPrices, cfg.MPBackURL, log)
		}
	}

	if cfg.StorageEnabled() {
		s3Client := media.NewS3Client(media.StorageConfig{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		deps.Photos = media.NewStore(s3Client, cfg.S3Bucket, cfg.S3PublicURL)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
