package service

import (
	"fmt"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/pkg/logger"
)

// MeanRating returns rateSum / rateCount, or 0 for a product without ratings.
func MeanRating(p *model.Product) float64 {
	if p == nil || p.RateCount == 0 {
		return 0
	}
	return float64(p.RateSum) / float64(p.RateCount)
}

// CategoryTally counts reviews whose field equals value.
func CategoryTally(reviews []model.Review, field model.ScoreField, value int) int {
	count := 0
	for i := range reviews {
		if reviews[i].Score(field) == value {
			count++
		}
	}
	return count
}

// Histogram buckets one sub-score into [count(1), count(2), count(3)].
func Histogram(reviews []model.Review, field model.ScoreField) [3]int {
	var h [3]int
	for v := 1; v <= 3; v++ {
		h[v-1] = CategoryTally(reviews, field, v)
	}
	return h
}

// RatingService repairs the stored (rateSum, rateCount) aggregate from live reviews.
type RatingService interface {
	Reconcile(category model.ProductCategory) (int, error)
	ReconcileProduct(ref model.ProductRef) (bool, error)
}

type ratingService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

func NewRatingService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) RatingService {
	return &ratingService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

// Reconcile walks every product of category and returns how many aggregates were rewritten.
func (s *ratingService) Reconcile(category model.ProductCategory) (int, error) {
	ids, err := s.productRepo.ListIDs(category)
	if err != nil {
		return 0, fmt.Errorf("list product ids: %w", err)
	}

	fixed := 0
	for _, id := range ids {
		changed, err := s.ReconcileProduct(model.ProductRef{Category: category, ProductID: id})
		if err != nil {
			return fixed, err
		}
		if changed {
			fixed++
		}
	}

	logger.Info("Rating aggregates reconciled", map[string]interface{}{
		"category": category,
		"products": len(ids),
		"fixed":    fixed,
	})
	return fixed, nil
}

func (s *ratingService) ReconcileProduct(ref model.ProductRef) (bool, error) {
	product, err := s.productRepo.FindByRef(ref)
	if err != nil {
		if isNotFound(err) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	sum, count, err := s.reviewRepo.SumRatings(ref)
	if err != nil {
		return false, fmt.Errorf("sum ratings for %s: %w", ref, err)
	}
	if product.RateSum == sum && product.RateCount == count {
		return false, nil
	}

	logger.Warn("Rating aggregate drift detected", map[string]interface{}{
		"product":      ref.String(),
		"stored_sum":   product.RateSum,
		"stored_count": product.RateCount,
		"live_sum":     sum,
		"live_count":   count,
	})
	if err := s.productRepo.SetAggregate(ref, sum, count); err != nil {
		return false, fmt.Errorf("set aggregate for %s: %w", ref, err)
	}
	return true, nil
}
