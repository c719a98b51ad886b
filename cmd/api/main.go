package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/almas-d/gogallery/internal/admin"
	"github.com/almas-d/gogallery/internal/auth"
	"github.com/almas-d/gogallery/internal/config"
	"github.com/almas-d/gogallery/internal/gallery"
	"github.com/almas-d/gogallery/internal/logger"
	"github.com/almas-d/gogallery/internal/metrics"
	"github.com/almas-d/gogallery/internal/quota"
	"github.com/almas-d/gogallery/internal/server"
	"github.com/almas-d/gogallery/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		logg.Fatal("connect minio", zap.Error(err))
	}

	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		logg.Fatal("ensure bucket", zap.Error(err))
	}

	authRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(authRepo, cfg.Auth)

	counterStore := quota.NewStore(dbPool)
	counterWrites := quota.NewBestEffort(counterStore, logg)
	counterWrites.OnFailure = func(op string) {
		metrics.CounterWriteFailures.WithLabelValues(op).Inc()
	}

	policy := quota.Policy{
		MaxBytesPerAccount:   cfg.Quota.MaxBytesPerAccount,
		MaxSingleObjectBytes: cfg.Quota.MaxSingleObjectBytes,
	}

	objectStore := gallery.NewMinIOStore(minioClient, cfg.MinIO.Bucket, cfg.MinIO.AccessURLTTL)
	galleryService := gallery.NewService(objectStore, counterStore, counterWrites, policy, logg)
	adminService := admin.NewService(counterStore)

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		Logger:         logg,
		DB:             dbPool,
		ObjectStore:    minioClient,
		AuthService:    authService,
		GalleryService: galleryService,
		AdminService:   adminService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("GoGallery API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
