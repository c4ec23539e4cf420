package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/service"
	apperrors "github.com/greenmomguide/review-backend/internal/errors"
	"github.com/greenmomguide/review-backend/internal/middleware"
)

// maxMultipartMemory 멀티파트 본문 중 메모리에 둘 최대 크기. 초과분은 임시 파일로 간다.
const maxMultipartMemory = 32 << 20

type ReviewController struct {
	reviewService  service.ReviewService
	rankingService service.RankingService
}

func NewReviewController(reviewService service.ReviewService, rankingService service.RankingService) *ReviewController {
	return &ReviewController{
		reviewService:  reviewService,
		rankingService: rankingService,
	}
}

// parseID reads a positive integer id from a raw string.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// productRefFromQuery reads ?category=&id= into a ProductRef.
func productRefFromQuery(c *gin.Context) (model.ProductRef, bool) {
	id, ok := parseID(c.Query("id"))
	if !ok {
		return model.ProductRef{}, false
	}
	ref, err := model.NewProductRef(c.Query("category"), id)
	if err != nil {
		return model.ProductRef{}, false
	}
	return ref, true
}

func invalidRequest(c *gin.Context) {
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request")
}

// GetReview 리뷰 상세 조회
// GET /review?id=
func (ctrl *ReviewController) GetReview(c *gin.Context) {
	reviewID, ok := parseID(c.Query("id"))
	if !ok {
		invalidRequest(c)
		return
	}

	detail, err := ctrl.reviewService.GetReviewDetail(reviewID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Get review")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListMemberReviews 내가 쓴 리뷰 목록
// GET /review/member/list?category=&page=
func (ctrl *ReviewController) ListMemberReviews(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	category, err := model.ParseProductCategory(c.Query("category"))
	if err != nil {
		invalidRequest(c)
		return
	}

	page, err := ctrl.rankingService.ListForMember(memberID, category, parsePage(c.Query("page")))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "List member reviews")
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListProductReviews 상품 리뷰 목록 (정렬: late, like, rating)
// GET /review/product/list?category=&id=&page=&sorting=
func (ctrl *ReviewController) ListProductReviews(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	ref, ok := productRefFromQuery(c)
	if !ok {
		invalidRequest(c)
		return
	}

	sortKey := service.ParseSortKey(c.Query("sorting"))
	page, err := ctrl.rankingService.ListForProduct(memberID, ref, sortKey, parsePage(c.Query("page")))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "List product reviews")
		return
	}

	c.JSON(http.StatusOK, page)
}

// CountProductReviews 상품 리뷰 개수
// GET /review/product/list/count?category=&id=
func (ctrl *ReviewController) CountProductReviews(c *gin.Context) {
	ref, ok := productRefFromQuery(c)
	if !ok {
		invalidRequest(c)
		return
	}

	count, err := ctrl.rankingService.CountForProduct(ref)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Count product reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetStatus 해당 상품에 리뷰를 작성했는지
// GET /review/status?category=&id=
func (ctrl *ReviewController) GetStatus(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	ref, ok := productRefFromQuery(c)
	if !ok {
		invalidRequest(c)
		return
	}

	exist, err := ctrl.reviewService.HasReviewed(memberID, ref)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Get review status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"exist": exist})
}

// GetSummary 상품 리뷰 요약
// GET /review/summary?category=&id=
func (ctrl *ReviewController) GetSummary(c *gin.Context) {
	ref, ok := productRefFromQuery(c)
	if !ok {
		invalidRequest(c)
		return
	}

	summary, err := ctrl.rankingService.Summary(c.Request.Context(), ref)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Get review summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetBest 좋아요가 가장 많은 리뷰. 리뷰가 없으면 빈 객체.
// GET /review/best?category=&id=
func (ctrl *ReviewController) GetBest(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	ref, ok := productRefFromQuery(c)
	if !ok {
		invalidRequest(c)
		return
	}

	best, err := ctrl.rankingService.BestReview(memberID, ref)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Get best review")
		return
	}
	if best == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, best)
}

// GetReviewProduct 리뷰가 달린 상품
// GET /review/product?reviewId=
func (ctrl *ReviewController) GetReviewProduct(c *gin.Context) {
	reviewID, ok := parseID(c.Query("reviewId"))
	if !ok {
		invalidRequest(c)
		return
	}

	product, err := ctrl.reviewService.GetReviewProduct(reviewID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Get review product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// formInt reads a required integer form field.
func formInt(c *gin.Context, key string) (int, bool) {
	v, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0, false
	}
	return v, true
}

// bindReviewForm reads the score fields shared by create and update.
// useMonth is optional on update.
func bindReviewForm(c *gin.Context, requireUseMonth bool) (service.ReviewInput, bool) {
	var input service.ReviewInput
	fields := []struct {
		key string
		dst *int
	}{
		{"rating", &input.Rating},
		{"functionality", &input.Functionality},
		{"nonIrritating", &input.NonIrritating},
		{"sent", &input.Sent},
		{"costEffectiveness", &input.CostEffectiveness},
	}
	for _, f := range fields {
		v, ok := formInt(c, f.key)
		if !ok {
			return input, false
		}
		*f.dst = v
	}

	if requireUseMonth || c.PostForm("useMonth") != "" {
		v, ok := formInt(c, "useMonth")
		if !ok {
			return input, false
		}
		input.UseMonth = v
	}
	input.Content = c.PostForm("content")
	return input, true
}

// openImages opens every "images" part. The returned closer releases all of them.
func openImages(c *gin.Context) ([]service.ImageUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}

	var (
		uploads []service.ImageUpload
		files   []multipart.File
	)
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, file)
		uploads = append(uploads, service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
	}
	return uploads, closeAll, nil
}

// CreateReview 리뷰 작성 (multipart: category, productId, rating, useMonth, content, 세부 항목, images)
// POST /review
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	memberID, _ := middleware.GetMemberID(c)

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		invalidRequest(c)
		return
	}

	productID, ok := parseID(c.PostForm("productId"))
	if !ok {
		invalidRequest(c)
		return
	}
	ref, err := model.NewProductRef(c.PostForm("category"), productID)
	if err != nil {
		invalidRequest(c)
		return
	}

	input, ok := bindReviewForm(c, true)
	if !ok {
		invalidRequest(c)
		return
	}

	images, closeImages, err := openImages(c)
	if err != nil {
		log.Warn("Failed to read review images", map[string]interface{}{
			"error": err.Error(),
		})
		invalidRequest(c)
		return
	}
	defer closeImages()

	review, err := ctrl.reviewService.CreateReview(c.Request.Context(), memberID, ref, input, images)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Create review")
		return
	}

	c.JSON(http.StatusOK, review)
}

// UpdateReview 리뷰 수정. 이미지는 전부 교체된다.
// PUT /review
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	memberID, _ := middleware.GetMemberID(c)

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		invalidRequest(c)
		return
	}

	reviewID, ok := parseID(c.PostForm("reviewId"))
	if !ok {
		invalidRequest(c)
		return
	}

	input, ok := bindReviewForm(c, false)
	if !ok {
		invalidRequest(c)
		return
	}

	images, closeImages, err := openImages(c)
	if err != nil {
		log.Warn("Failed to read review images", map[string]interface{}{
			"error": err.Error(),
		})
		invalidRequest(c)
		return
	}
	defer closeImages()

	review, err := ctrl.reviewService.UpdateReview(c.Request.Context(), memberID, reviewID, input, images)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Update review")
		return
	}

	c.JSON(http.StatusOK, review)
}

type reviewIDRequest struct {
	ReviewID uint `json:"reviewId" binding:"required"`
}

// DeleteReview 리뷰 삭제
// DELETE /review  body: {reviewId}
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req reviewIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if err := ctrl.reviewService.DeleteReview(c.Request.Context(), memberID, req.ReviewID); err != nil {
		apperrors.RespondWithServiceError(c, err, "Delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
