package service

import (
	"context"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
)

// SummaryCache holds rendered product summaries. A nil cache disables caching.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func summaryCacheKey(ref model.ProductRef) string {
	return ref.String()
}

// invalidateSummary drops the cached summary; cache errors never fail the caller.
func invalidateSummary(ctx context.Context, cache SummaryCache, ref model.ProductRef) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, summaryCacheKey(ref)); err != nil {
		logger.Warn("Failed to invalidate summary cache", map[string]interface{}{
			"product": ref.String(),
			"error":   err.Error(),
		})
	}
}
