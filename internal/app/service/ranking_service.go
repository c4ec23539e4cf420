package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/pkg/logger"
)

// PageSize 리뷰 목록 페이지 크기
const PageSize = 6

// SummaryImageLimit 요약에 포함되는 최근 이미지 수
const SummaryImageLimit = 10

// SortKey 상품 리뷰 정렬 기준
type SortKey string

const (
	SortLate   SortKey = "late"   // 최신순
	SortLike   SortKey = "like"   // 좋아요순
	SortRating SortKey = "rating" // 평점순
)

// ParseSortKey falls back to SortLate for anything unknown.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortLike, SortRating:
		return SortKey(s)
	default:
		return SortLate
	}
}

// Pagination 1부터 시작하는 페이지 정보
type Pagination struct {
	Start         int
	End           int
	NextPageExist bool
	TotalPages    int
}

// Paginate slices total items into pages of size. Pages below 1 are treated as 1.
func Paginate(total, page, size int) Pagination {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	end := page * size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Pagination{
		Start:         start,
		End:           end,
		NextPageExist: total >= page*size,
		TotalPages:    (total + size - 1) / size,
	}
}

// ReviewRow 목록/베스트 리뷰의 한 행
type ReviewRow struct {
	ReviewOwner       *model.Member            `json:"reviewOwner"`
	Review            model.Review             `json:"review"`
	Images            []model.ReviewImage      `json:"images"`
	AdditionalReviews []model.AdditionalReview `json:"additionalReviews"`
	Like              bool                     `json:"like"`
	LikeCount         int                      `json:"likeCount"`
}

type ProductReviewPage struct {
	NextPageExist bool        `json:"nextPageExist"`
	TotalPages    int         `json:"totalPages"`
	Reviews       []ReviewRow `json:"reviews"`
}

type MemberReviewRow struct {
	Review     model.Review   `json:"review"`
	RecentDate *time.Time     `json:"recentDate"`
	Product    *model.Product `json:"product"`
}

type MemberReviewPage struct {
	Reviews    []MemberReviewRow `json:"reviews"`
	TotalPages int               `json:"totalPages"`
}

// ProductSummary 상품 리뷰 요약
type ProductSummary struct {
	Rating                 float64             `json:"rating"`
	FunctionalityCount     [3]int              `json:"functionalityCount"`
	NonIrritatingCount     [3]int              `json:"nonIrritatingCount"`
	SentCount              [3]int              `json:"sentCount"`
	CostEffectivenessCount [3]int              `json:"costEffectivenessCount"`
	Images                 []model.ReviewImage `json:"images"`
}

type RankingService interface {
	ListForProduct(viewerID uint, ref model.ProductRef, sortKey SortKey, page int) (*ProductReviewPage, error)
	ListForMember(memberID uint, category model.ProductCategory, page int) (*MemberReviewPage, error)
	BestReview(viewerID uint, ref model.ProductRef) (*ReviewRow, error)
	Summary(ctx context.Context, ref model.ProductRef) (*ProductSummary, error)
	CountForProduct(ref model.ProductRef) (int64, error)
}

type rankingService struct {
	reviewRepo   repository.ReviewRepository
	productRepo  repository.ProductRepository
	memberRepo   repository.MemberRepository
	followUpRepo repository.AdditionalReviewRepository
	reactionRepo repository.ReactionRepository
	cache        SummaryCache
}

func NewRankingService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	followUpRepo repository.AdditionalReviewRepository,
	reactionRepo repository.ReactionRepository,
	cache SummaryCache,
) RankingService {
	return &rankingService{
		reviewRepo:   reviewRepo,
		productRepo:  productRepo,
		memberRepo:   memberRepo,
		followUpRepo: followUpRepo,
		reactionRepo: reactionRepo,
		cache:        cache,
	}
}

func (s *rankingService) requireProduct(ref model.ProductRef) (*model.Product, error) {
	product, err := s.productRepo.FindByRef(ref)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func reviewIDs(reviews []model.Review) []uint {
	ids := make([]uint, len(reviews))
	for i := range reviews {
		ids[i] = reviews[i].ID
	}
	return ids
}

// sortReviews orders reviews that arrive in id ascending order. Ties keep that order.
func sortReviews(reviews []model.Review, key SortKey, likes map[uint]int) {
	switch key {
	case SortLike:
		sort.SliceStable(reviews, func(i, j int) bool {
			return likes[reviews[i].ID] > likes[reviews[j].ID]
		})
	case SortRating:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].Rating > reviews[j].Rating
		})
	default:
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].ID > reviews[j].ID
		})
	}
}

// buildRows resolves owner, images, follow-ups and the viewer's like for each review.
// viewerID 0 means an anonymous viewer.
func (s *rankingService) buildRows(viewerID uint, reviews []model.Review, likes map[uint]int) ([]ReviewRow, error) {
	rows := make([]ReviewRow, 0, len(reviews))
	if len(reviews) == 0 {
		return rows, nil
	}

	ids := reviewIDs(reviews)
	ownerIDs := make([]uint, len(reviews))
	for i := range reviews {
		ownerIDs[i] = reviews[i].MemberID
	}

	owners, err := s.memberRepo.FindByIDs(ownerIDs)
	if err != nil {
		return nil, err
	}
	images, err := s.reviewRepo.ListImages(ids)
	if err != nil {
		return nil, err
	}
	followUps, err := s.followUpRepo.ListByReviews(ids)
	if err != nil {
		return nil, err
	}
	reacted := map[uint]bool{}
	if viewerID != 0 {
		if reacted, err = s.reactionRepo.ReactedReviewIDs(viewerID, ids); err != nil {
			return nil, err
		}
	}

	for _, review := range reviews {
		row := ReviewRow{
			Review:            review,
			Images:            images[review.ID],
			AdditionalReviews: followUps[review.ID],
			Like:              reacted[review.ID],
			LikeCount:         likes[review.ID],
		}
		if owner, ok := owners[review.MemberID]; ok {
			row.ReviewOwner = &owner
		}
		if row.Images == nil {
			row.Images = []model.ReviewImage{}
		}
		if row.AdditionalReviews == nil {
			row.AdditionalReviews = []model.AdditionalReview{}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListForProduct 상품 리뷰 목록 (정렬 + 페이지)
func (s *rankingService) ListForProduct(viewerID uint, ref model.ProductRef, sortKey SortKey, page int) (*ProductReviewPage, error) {
	logger.Debug("Listing product reviews", map[string]interface{}{
		"product": ref.String(),
		"sorting": sortKey,
		"page":    page,
	})

	if _, err := s.requireProduct(ref); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ref)
	if err != nil {
		return nil, err
	}
	likes, err := s.reactionRepo.CountByReviews(reviewIDs(reviews))
	if err != nil {
		return nil, err
	}

	sortReviews(reviews, sortKey, likes)
	p := Paginate(len(reviews), page, PageSize)

	rows, err := s.buildRows(viewerID, reviews[p.Start:p.End], likes)
	if err != nil {
		return nil, err
	}
	return &ProductReviewPage{
		NextPageExist: p.NextPageExist,
		TotalPages:    p.TotalPages,
		Reviews:       rows,
	}, nil
}

// ListForMember 내가 쓴 리뷰 목록 (카테고리별)
func (s *rankingService) ListForMember(memberID uint, category model.ProductCategory, page int) (*MemberReviewPage, error) {
	reviews, err := s.reviewRepo.ListByMember(memberID, category)
	if err != nil {
		return nil, err
	}

	p := Paginate(len(reviews), page, PageSize)
	pageReviews := reviews[p.Start:p.End]

	followUps, err := s.followUpRepo.ListByReviews(reviewIDs(pageReviews))
	if err != nil {
		return nil, err
	}

	rows := make([]MemberReviewRow, 0, len(pageReviews))
	for _, review := range pageReviews {
		row := MemberReviewRow{Review: review}
		if seq := followUps[review.ID]; len(seq) > 0 {
			date := seq[len(seq)-1].Date
			row.RecentDate = &date
		}
		product, err := s.productRepo.FindByRef(review.ProductRef)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		row.Product = product
		rows = append(rows, row)
	}

	return &MemberReviewPage{
		Reviews:    rows,
		TotalPages: p.TotalPages,
	}, nil
}

// BestReview returns the most liked review, or nil when the product has none.
// 좋아요 수가 같으면 먼저 작성된 리뷰가 선택된다.
func (s *rankingService) BestReview(viewerID uint, ref model.ProductRef) (*ReviewRow, error) {
	if _, err := s.requireProduct(ref); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ref)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	likes, err := s.reactionRepo.CountByReviews(reviewIDs(reviews))
	if err != nil {
		return nil, err
	}
	sortReviews(reviews, SortLike, likes)

	rows, err := s.buildRows(viewerID, reviews[:1], likes)
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func emptySummary() *ProductSummary {
	return &ProductSummary{Images: []model.ReviewImage{}}
}

// Summary 평균 평점, 세부 항목 분포, 최근 이미지 10장
func (s *rankingService) Summary(ctx context.Context, ref model.ProductRef) (*ProductSummary, error) {
	key := summaryCacheKey(ref)
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var cached ProductSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	product, err := s.requireProduct(ref)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByProduct(ref)
	if err != nil {
		return nil, err
	}

	summary := emptySummary()
	if len(reviews) > 0 {
		images, err := s.reviewRepo.RecentImagesForProduct(ref, SummaryImageLimit)
		if err != nil {
			return nil, err
		}
		summary.Rating = MeanRating(product)
		summary.FunctionalityCount = Histogram(reviews, model.ScoreFunctionality)
		summary.NonIrritatingCount = Histogram(reviews, model.ScoreNonIrritating)
		summary.SentCount = Histogram(reviews, model.ScoreSent)
		summary.CostEffectivenessCount = Histogram(reviews, model.ScoreCostEffectiveness)
		if images != nil {
			summary.Images = images
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil {
				logger.Warn("Failed to cache product summary", map[string]interface{}{
					"product": ref.String(),
					"error":   err.Error(),
				})
			}
		}
	}
	return summary, nil
}

func (s *rankingService) CountForProduct(ref model.ProductRef) (int64, error) {
	if _, err := s.requireProduct(ref); err != nil {
		return 0, err
	}
	return s.reviewRepo.CountByProduct(ref)
}
