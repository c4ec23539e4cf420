package scheduler

import (
	"errors"
	"sync"
	"testing"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRatingService struct {
	mu       sync.Mutex
	calls    []model.ProductCategory
	failOn   model.ProductCategory
	fixedPer int
}

func (f *fakeRatingService) Reconcile(category model.ProductCategory) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, category)
	if category == f.failOn {
		return 0, errors.New("db down")
	}
	return f.fixedPer, nil
}

func (f *fakeRatingService) ReconcileProduct(model.ProductRef) (bool, error) {
	return false, nil
}

func TestRatingReconcileScheduler_RunOnce(t *testing.T) {
	svc := &fakeRatingService{failOn: model.CategoryLiving, fixedPer: 2}
	s := NewRatingReconcileScheduler(svc, "@daily")

	s.RunOnce()

	// 한 카테고리가 실패해도 나머지는 계속 진행한다
	assert.Equal(t, []model.ProductCategory{model.CategoryLiving, model.CategoryCosmetic}, svc.calls)
}

func TestRatingReconcileScheduler_Start(t *testing.T) {
	t.Run("Valid schedule", func(t *testing.T) {
		s := NewRatingReconcileScheduler(&fakeRatingService{}, "0 4 * * *")
		require.NoError(t, s.Start())
		s.Stop()
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		s := NewRatingReconcileScheduler(&fakeRatingService{}, "every day")
		assert.Error(t, s.Start())
	})
}
