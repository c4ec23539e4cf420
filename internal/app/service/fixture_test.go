package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/internal/db"
	"github.com/greenmomguide/review-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fixture struct {
	db           *gorm.DB
	reviewRepo   repository.ReviewRepository
	productRepo  repository.ProductRepository
	memberRepo   repository.MemberRepository
	followUpRepo repository.AdditionalReviewRepository
	reactionRepo repository.ReactionRepository
	reportRepo   repository.ReportRepository
	storage      *storage.MemoryStorage
	clock        *fakeClock

	living   *model.Product
	cosmetic *model.Product
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	f := &fixture{
		db:           testDB,
		reviewRepo:   repository.NewReviewRepository(testDB),
		productRepo:  repository.NewProductRepository(testDB),
		memberRepo:   repository.NewMemberRepository(testDB),
		followUpRepo: repository.NewAdditionalReviewRepository(testDB),
		reactionRepo: repository.NewReactionRepository(testDB),
		reportRepo:   repository.NewReportRepository(testDB),
		storage:      storage.NewMemoryStorage("https://cdn.test"),
		clock:        &fakeClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
	}

	f.living = &model.Product{Name: "천연 주방세제", Brand: "그린", Category: model.CategoryLiving}
	require.NoError(t, f.productRepo.Create(f.living))
	f.cosmetic = &model.Product{Name: "수분 크림", Brand: "맘스", Category: model.CategoryCosmetic}
	require.NoError(t, f.productRepo.Create(f.cosmetic))

	return f
}

func (f *fixture) reviewService(policy DeletePolicy) ReviewService {
	svc := NewReviewService(f.db, f.reviewRepo, f.productRepo, f.memberRepo, f.storage, nil, policy)
	svc.(*reviewService).now = f.clock.Now
	return svc
}

func (f *fixture) reviewServiceWithCache(policy DeletePolicy, cache SummaryCache) ReviewService {
	svc := NewReviewService(f.db, f.reviewRepo, f.productRepo, f.memberRepo, f.storage, cache, policy)
	svc.(*reviewService).now = f.clock.Now
	return svc
}

func (f *fixture) followUpService() FollowUpService {
	return NewFollowUpService(f.reviewRepo, f.followUpRepo, DefaultFollowUpCooldown, f.clock.Now)
}

func (f *fixture) rankingService(cache SummaryCache) RankingService {
	return NewRankingService(f.reviewRepo, f.productRepo, f.memberRepo, f.followUpRepo, f.reactionRepo, cache)
}

func (f *fixture) reactionService() ReactionService {
	return NewReactionService(f.reviewRepo, f.reactionRepo, f.reportRepo)
}

func (f *fixture) newMember(t *testing.T, n int) *model.Member {
	t.Helper()
	member := &model.Member{
		Email:    fmt.Sprintf("member%d@example.com", n),
		Nickname: fmt.Sprintf("member%d", n),
	}
	require.NoError(t, f.memberRepo.Create(member))
	return member
}

func (f *fixture) newMembers(t *testing.T, count int) []*model.Member {
	t.Helper()
	members := make([]*model.Member, count)
	for i := range members {
		members[i] = f.newMember(t, i+1)
	}
	return members
}

func validInput(rating int) ReviewInput {
	return ReviewInput{
		Rating:            rating,
		UseMonth:          3,
		Content:           "잘 쓰고 있어요",
		Functionality:     1,
		NonIrritating:     2,
		Sent:              3,
		CostEffectiveness: 1,
	}
}

func (f *fixture) createReview(t *testing.T, svc ReviewService, member *model.Member, ref model.ProductRef, rating int) *model.Review {
	t.Helper()
	review, err := svc.CreateReview(context.Background(), member.ID, ref, validInput(rating), nil)
	require.NoError(t, err)
	return review
}

func (f *fixture) reloadProduct(t *testing.T, ref model.ProductRef) *model.Product {
	t.Helper()
	product, err := f.productRepo.FindByRef(ref)
	require.NoError(t, err)
	return product
}

func jpeg(name, body string) ImageUpload {
	return ImageUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func keyFor(reviewID uint, index int, ext string) string {
	return fmt.Sprintf("review-images/%d-%d%s", reviewID, index, ext)
}
