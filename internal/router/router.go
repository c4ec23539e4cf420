package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/config"
	"github.com/greenmomguide/review-backend/internal/app/controller"
	"github.com/greenmomguide/review-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	reviewController   *controller.ReviewController
	followUpController *controller.FollowUpController
	reactionController *controller.ReactionController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
	healthChecks       []healthCheck
}

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

func NewRouter(
	reviewController *controller.ReviewController,
	followUpController *controller.FollowUpController,
	reactionController *controller.ReactionController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		reviewController:   reviewController,
		followUpController: followUpController,
		reactionController: reactionController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

// AddHealthCheck registers a dependency probed by GET /health.
func (r *Router) AddHealthCheck(name string, check func(ctx context.Context) error) {
	r.healthChecks = append(r.healthChecks, healthCheck{name: name, check: check})
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for _, hc := range r.healthChecks {
		if err := hc.check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[hc.name] = err.Error()
			continue
		}
		checks[hc.name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware("/health", "/metrics"))
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		review := api.Group("/review")
		{
			review.GET("", r.reviewController.GetReview)
			review.GET("/product", r.reviewController.GetReviewProduct)
			review.GET("/product/list/count", r.reviewController.CountProductReviews)
			review.GET("/summary", r.reviewController.GetSummary)
			review.GET("/best", r.authMiddleware.OptionalAuthenticate(), r.reviewController.GetBest)

			review.GET("/member/list", r.authMiddleware.Authenticate(), r.reviewController.ListMemberReviews)
			review.GET("/product/list", r.authMiddleware.Authenticate(), r.reviewController.ListProductReviews)
			review.GET("/status", r.authMiddleware.Authenticate(), r.reviewController.GetStatus)

			review.POST("", r.authMiddleware.Authenticate(), r.reviewController.CreateReview)
			review.PUT("", r.authMiddleware.Authenticate(), r.reviewController.UpdateReview)
			review.DELETE("", r.authMiddleware.Authenticate(), r.reviewController.DeleteReview)

			review.POST("/like", r.authMiddleware.Authenticate(), r.reactionController.Like)
			review.DELETE("/like", r.authMiddleware.Authenticate(), r.reactionController.Unlike)
			review.POST("/report", r.authMiddleware.Authenticate(), r.reactionController.Report)

			addition := review.Group("/addition")
			{
				addition.GET("", r.followUpController.ListFollowUps)
				addition.POST("", r.authMiddleware.Authenticate(), r.followUpController.AppendFollowUp)
				addition.PUT("", r.authMiddleware.Authenticate(), r.followUpController.EditFollowUp)
				addition.DELETE("", r.authMiddleware.Authenticate(), r.followUpController.DeleteFollowUp)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
