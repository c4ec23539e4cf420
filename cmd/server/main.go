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

	"github.com/greenmomguide/review-backend/config"
	"github.com/greenmomguide/review-backend/internal/app/controller"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/internal/app/service"
	"github.com/greenmomguide/review-backend/internal/db"
	"github.com/greenmomguide/review-backend/internal/middleware"
	"github.com/greenmomguide/review-backend/internal/router"
	"github.com/greenmomguide/review-backend/internal/scheduler"
	"github.com/greenmomguide/review-backend/internal/storage"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"github.com/greenmomguide/review-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logCfg := logger.ConfigForEnvironment(cfg.Server.Environment, "review-backend")
	logger.Initialize(logCfg)

	logger.Info("Starting review backend", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     logCfg.Level,
		"delete_policy": cfg.Review.DeletePolicy,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: token blacklist lookups and the summary cache are skipped without it
	var summaryCache service.SummaryCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			summaryCache = redis.NewSummaryCache(redis.GetClient(), cfg.Review.SummaryCacheTTL)
		}
	}

	var objectStorage storage.ObjectStorage
	if cfg.S3.Bucket != "" {
		objectStorage = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	} else {
		logger.Warn("AWS_S3_BUCKET is empty, review images are kept in memory", nil)
		objectStorage = storage.NewMemoryStorage(fmt.Sprintf("http://localhost:%s/images", cfg.Server.Port))
	}

	deletePolicy, err := service.ParseDeletePolicy(cfg.Review.DeletePolicy)
	if err != nil {
		logger.Fatal("Invalid review delete policy", err)
	}

	// Initialize repositories
	conn := db.GetDB()
	reviewRepo := repository.NewReviewRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	memberRepo := repository.NewMemberRepository(conn)
	followUpRepo := repository.NewAdditionalReviewRepository(conn)
	reactionRepo := repository.NewReactionRepository(conn)
	reportRepo := repository.NewReportRepository(conn)

	// Initialize services
	authService := service.NewAuthService(memberRepo, cfg.JWT.Secret, redis.IsTokenBlacklisted)
	reviewService := service.NewReviewService(conn, reviewRepo, productRepo, memberRepo, objectStorage, summaryCache, deletePolicy)
	rankingService := service.NewRankingService(reviewRepo, productRepo, memberRepo, followUpRepo, reactionRepo, summaryCache)
	followUpService := service.NewFollowUpService(reviewRepo, followUpRepo, cfg.Review.FollowUpCooldown, time.Now)
	reactionService := service.NewReactionService(reviewRepo, reactionRepo, reportRepo)
	ratingService := service.NewRatingService(productRepo, reviewRepo)

	// 보정 작업은 live 리뷰 기준으로 집계를 덮어쓰므로 decrement 정책에서만 돌린다
	if cfg.Review.ReconcileSchedule != "" {
		if deletePolicy == service.DeleteDecrement {
			reconciler := scheduler.NewRatingReconcileScheduler(ratingService, cfg.Review.ReconcileSchedule)
			if err := reconciler.Start(); err != nil {
				logger.Fatal("Failed to start rating reconcile scheduler", err)
			}
			defer reconciler.Stop()
		} else {
			logger.Warn("REVIEW_RECONCILE_SCHEDULE ignored under retain policy", map[string]interface{}{
				"schedule": cfg.Review.ReconcileSchedule,
			})
		}
	}

	// Initialize controllers and router
	r := router.NewRouter(
		controller.NewReviewController(reviewService, rankingService),
		controller.NewFollowUpController(followUpService),
		controller.NewReactionController(reactionService),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	r.AddHealthCheck("database", func(ctx context.Context) error {
		return db.Ping(ctx, conn)
	})
	if summaryCache != nil {
		r.AddHealthCheck("redis", func(ctx context.Context) error {
			return redis.GetClient().Ping(ctx).Err()
		})
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
