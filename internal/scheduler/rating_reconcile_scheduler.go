package scheduler

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/service"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RatingReconcileScheduler 평점 집계(rateSum, rateCount) 보정 스케줄러
type RatingReconcileScheduler struct {
	cron          *cron.Cron
	schedule      string
	ratingService service.RatingService
}

// NewRatingReconcileScheduler schedule은 cron 표현식 (예: "0 4 * * *" = 매일 4시 0분)
func NewRatingReconcileScheduler(ratingService service.RatingService, schedule string) *RatingReconcileScheduler {
	return &RatingReconcileScheduler{
		cron:          cron.New(),
		schedule:      schedule,
		ratingService: ratingService,
	}
}

// RunOnce 모든 카테고리의 집계를 한 번 보정한다
func (s *RatingReconcileScheduler) RunOnce() {
	logger.Info("Starting scheduled rating reconcile", nil)

	total := 0
	for _, category := range []model.ProductCategory{model.CategoryLiving, model.CategoryCosmetic} {
		fixed, err := s.ratingService.Reconcile(category)
		if err != nil {
			logger.Error("Failed to reconcile rating aggregates", err, map[string]interface{}{
				"category": category,
			})
			continue
		}
		total += fixed
	}

	logger.Info("Finished scheduled rating reconcile", map[string]interface{}{
		"fixed": total,
	})
}

// Start 스케줄러 시작
func (s *RatingReconcileScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for rating reconcile", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Rating reconcile scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다.
func (s *RatingReconcileScheduler) Stop() {
	logger.Info("Stopping rating reconcile scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Rating reconcile scheduler stopped", nil)
}
