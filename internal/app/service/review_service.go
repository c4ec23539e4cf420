package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/internal/storage"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
)

// DeletePolicy decides what a review deletion does to the product's rating aggregate.
type DeletePolicy string

const (
	// DeleteRetain leaves rateSum/rateCount untouched; deleted ratings keep counting.
	DeleteRetain DeletePolicy = "retain"
	// DeleteDecrement subtracts the deleted rating and one from the count.
	DeleteDecrement DeletePolicy = "decrement"
)

func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case DeleteRetain, DeleteDecrement:
		return DeletePolicy(s), nil
	case "":
		return DeleteRetain, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q", s)
	}
}

// ReviewInput 리뷰 작성/수정 입력값
type ReviewInput struct {
	Rating            int
	UseMonth          int // 사용 기간(개월). 수정 시 0이면 기준일 유지
	Content           string
	Functionality     int
	NonIrritating     int
	Sent              int
	CostEffectiveness int
}

func (in ReviewInput) validate(requireUseMonth bool) error {
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if requireUseMonth || in.UseMonth != 0 {
		if in.UseMonth < 1 || in.UseMonth > 12 {
			return fmt.Errorf("%w: useMonth must be between 1 and 12", ErrInvalidInput)
		}
	}
	scores := []struct {
		field model.ScoreField
		value int
	}{
		{model.ScoreFunctionality, in.Functionality},
		{model.ScoreNonIrritating, in.NonIrritating},
		{model.ScoreSent, in.Sent},
		{model.ScoreCostEffectiveness, in.CostEffectiveness},
	}
	for _, sc := range scores {
		if sc.value < 1 || sc.value > 3 {
			return fmt.Errorf("%w: %s must be between 1 and 3", ErrInvalidInput, sc.field)
		}
	}
	return nil
}

// ImageUpload is one image part of a multipart request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ReviewDetail 리뷰 상세 (이미지, 추가 리뷰, 상품 포함)
type ReviewDetail struct {
	Review            model.Review             `json:"review"`
	Images            []model.ReviewImage      `json:"images"`
	AdditionalReviews []model.AdditionalReview `json:"additionalReview"`
	Product           *model.Product           `json:"product"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, memberID uint, ref model.ProductRef, input ReviewInput, images []ImageUpload) (*model.Review, error)
	UpdateReview(ctx context.Context, memberID, reviewID uint, input ReviewInput, images []ImageUpload) (*model.Review, error)
	DeleteReview(ctx context.Context, memberID, reviewID uint) error
	GetReviewDetail(reviewID uint) (*ReviewDetail, error)
	HasReviewed(memberID uint, ref model.ProductRef) (bool, error)
	GetReviewProduct(reviewID uint) (*model.Product, error)
}

type reviewService struct {
	db           *gorm.DB
	reviewRepo   repository.ReviewRepository
	productRepo  repository.ProductRepository
	memberRepo   repository.MemberRepository
	storage      storage.ObjectStorage
	cache        SummaryCache
	deletePolicy DeletePolicy
	now          func() time.Time
}

func NewReviewService(
	db *gorm.DB,
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	objectStorage storage.ObjectStorage,
	cache SummaryCache,
	deletePolicy DeletePolicy,
) ReviewService {
	if deletePolicy == "" {
		deletePolicy = DeleteRetain
	}
	return &reviewService{
		db:           db,
		reviewRepo:   reviewRepo,
		productRepo:  productRepo,
		memberRepo:   memberRepo,
		storage:      objectStorage,
		cache:        cache,
		deletePolicy: deletePolicy,
		now:          time.Now,
	}
}

func validateImages(images []ImageUpload) error {
	for i, img := range images {
		if err := storage.ValidateImage(img.ContentType, img.Size); err != nil {
			return fmt.Errorf("%w: image %d: %w", ErrInvalidInput, i, err)
		}
	}
	return nil
}

// CreateReview 리뷰 작성. 리뷰 저장, 평점 집계 반영, 이미지 업로드가 한 트랜잭션으로 처리된다.
func (s *reviewService) CreateReview(ctx context.Context, memberID uint, ref model.ProductRef, input ReviewInput, images []ImageUpload) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"member_id": memberID,
		"product":   ref.String(),
		"rating":    input.Rating,
		"images":    len(images),
	})

	if err := input.validate(true); err != nil {
		return nil, err
	}
	if err := validateImages(images); err != nil {
		return nil, err
	}

	if _, err := s.memberRepo.FindByID(memberID); err != nil {
		if isNotFound(err) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if _, err := s.productRepo.FindByRef(ref); err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForMember(memberID, ref)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Review creation rejected: duplicate", map[string]interface{}{
			"member_id": memberID,
			"product":   ref.String(),
		})
		return nil, ErrDuplicateReview
	}

	review := &model.Review{
		MemberID:          memberID,
		ProductRef:        ref,
		Rating:            input.Rating,
		BaseDate:          s.now().AddDate(0, -input.UseMonth, 0),
		Content:           input.Content,
		Functionality:     input.Functionality,
		NonIrritating:     input.NonIrritating,
		Sent:              input.Sent,
		CostEffectiveness: input.CostEffectiveness,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateReview
			}
			return err
		}

		if err := s.productRepo.WithTx(tx).ApplyRatingDelta(ref, review.Rating, 1); err != nil {
			if isNotFound(err) {
				return ErrProductNotFound
			}
			return err
		}

		if len(images) == 0 {
			return nil
		}
		saved, err := s.storeImages(ctx, tx, review.ID, images)
		if err != nil {
			return err
		}
		review.Images = saved
		return nil
	})
	if err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"member_id": memberID,
			"product":   ref.String(),
		})
		return nil, err
	}

	invalidateSummary(ctx, s.cache, ref)
	reviewMutationsTotal.WithLabelValues("create", string(ref.Category)).Inc()

	logger.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"member_id": memberID,
		"product":   ref.String(),
	})
	return review, nil
}

// storeImages uploads in order and then replaces the review's image rows.
// 업로드 실패 시 이미 올라간 객체는 지우지 않는다.
func (s *reviewService) storeImages(ctx context.Context, tx *gorm.DB, reviewID uint, images []ImageUpload) ([]model.ReviewImage, error) {
	urls := make([]string, 0, len(images))
	for i, img := range images {
		key := storage.ReviewImageKey(reviewID, i, img.Filename)
		url, err := s.storage.Put(ctx, key, img.ContentType, img.Body)
		if err != nil {
			imageUploadsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		imageUploadsTotal.WithLabelValues("ok").Inc()
		urls = append(urls, url)
	}
	return s.reviewRepo.WithTx(tx).ReplaceImages(reviewID, urls)
}

func (s *reviewService) loadOwnedReview(memberID, reviewID uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.MemberID != memberID {
		logger.Warn("Review access denied: not the author", map[string]interface{}{
			"review_id": reviewID,
			"member_id": memberID,
			"owner_id":  review.MemberID,
		})
		return nil, ErrForbidden
	}
	return review, nil
}

// UpdateReview 리뷰 수정. 이미지는 항상 전체 교체된다.
func (s *reviewService) UpdateReview(ctx context.Context, memberID, reviewID uint, input ReviewInput, images []ImageUpload) (*model.Review, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}
	if err := validateImages(images); err != nil {
		return nil, err
	}

	review, err := s.loadOwnedReview(memberID, reviewID)
	if err != nil {
		return nil, err
	}

	delta := input.Rating - review.Rating
	review.Rating = input.Rating
	review.Content = input.Content
	review.Functionality = input.Functionality
	review.NonIrritating = input.NonIrritating
	review.Sent = input.Sent
	review.CostEffectiveness = input.CostEffectiveness
	if input.UseMonth != 0 {
		review.BaseDate = s.now().AddDate(0, -input.UseMonth, 0)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).ApplyRatingDelta(review.ProductRef, delta, 0); err != nil {
			if isNotFound(err) {
				return ErrProductNotFound
			}
			return err
		}
		if err := s.reviewRepo.WithTx(tx).Update(review); err != nil {
			return err
		}
		saved, err := s.storeImages(ctx, tx, review.ID, images)
		if err != nil {
			return err
		}
		review.Images = saved
		return nil
	})
	if err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}

	invalidateSummary(ctx, s.cache, review.ProductRef)
	reviewMutationsTotal.WithLabelValues("update", string(review.ProductRef.Category)).Inc()

	logger.Info("Review updated", map[string]interface{}{
		"review_id":    review.ID,
		"rating_delta": delta,
		"images":       len(images),
	})
	return review, nil
}

// DeleteReview 리뷰 삭제. 이미지/추가 리뷰/좋아요도 함께 지워지고 평점 집계는 삭제 정책을 따른다.
func (s *reviewService) DeleteReview(ctx context.Context, memberID, reviewID uint) error {
	review, err := s.loadOwnedReview(memberID, reviewID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Delete(review.ID); err != nil {
			if isNotFound(err) {
				return ErrReviewNotFound
			}
			return err
		}
		if s.deletePolicy != DeleteDecrement {
			return nil
		}
		err := s.productRepo.WithTx(tx).ApplyRatingDelta(review.ProductRef, -review.Rating, -1)
		if isNotFound(err) {
			logger.Warn("Product of deleted review is gone, skipping aggregate", map[string]interface{}{
				"review_id": review.ID,
				"product":   review.ProductRef.String(),
			})
			return nil
		}
		return err
	})
	if err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}

	invalidateSummary(ctx, s.cache, review.ProductRef)
	reviewMutationsTotal.WithLabelValues("delete", string(review.ProductRef.Category)).Inc()

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": review.ID,
		"policy":    s.deletePolicy,
	})
	return nil
}

func (s *reviewService) GetReviewDetail(reviewID uint) (*ReviewDetail, error) {
	review, err := s.reviewRepo.FindDetail(reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByRef(review.ProductRef)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	detail := &ReviewDetail{
		Review:            *review,
		Images:            review.Images,
		AdditionalReviews: review.FollowUps,
		Product:           product,
	}
	if detail.Images == nil {
		detail.Images = []model.ReviewImage{}
	}
	if detail.AdditionalReviews == nil {
		detail.AdditionalReviews = []model.AdditionalReview{}
	}
	return detail, nil
}

func (s *reviewService) HasReviewed(memberID uint, ref model.ProductRef) (bool, error) {
	return s.reviewRepo.ExistsForMember(memberID, ref)
}

// GetReviewProduct 리뷰가 달린 상품 조회
func (s *reviewService) GetReviewProduct(reviewID uint) (*model.Product, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	product, err := s.productRepo.FindByRef(review.ProductRef)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
