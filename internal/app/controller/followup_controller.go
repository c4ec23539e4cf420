package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/internal/app/service"
	apperrors "github.com/greenmomguide/review-backend/internal/errors"
	"github.com/greenmomguide/review-backend/internal/middleware"
)

// FollowUpController 추가 리뷰 (/review/addition)
type FollowUpController struct {
	followUpService service.FollowUpService
}

func NewFollowUpController(followUpService service.FollowUpService) *FollowUpController {
	return &FollowUpController{
		followUpService: followUpService,
	}
}

type appendFollowUpRequest struct {
	ReviewID uint   `json:"reviewId" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Ended    bool   `json:"ended"`
}

type editFollowUpRequest struct {
	AdditionalReviewID uint   `json:"additionalReviewId" binding:"required"`
	Content            string `json:"content" binding:"required"`
}

type additionalReviewIDRequest struct {
	AdditionalReviewID uint `json:"additionalReviewId" binding:"required"`
}

// ListFollowUps 추가 리뷰 목록 (작성 순)
// GET /review/addition?reviewId=
func (ctrl *FollowUpController) ListFollowUps(c *gin.Context) {
	reviewID, ok := parseID(c.Query("reviewId"))
	if !ok {
		invalidRequest(c)
		return
	}

	entries, err := ctrl.followUpService.ListFollowUps(reviewID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "List additional reviews")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AppendFollowUp 추가 리뷰 작성. 마지막 작성 후 28일이 지나야 한다.
// POST /review/addition
func (ctrl *FollowUpController) AppendFollowUp(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req appendFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	entry, err := ctrl.followUpService.AppendFollowUp(memberID, req.ReviewID, req.Content, req.Ended)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Append additional review")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// EditFollowUp 추가 리뷰 내용 수정
// PUT /review/addition
func (ctrl *FollowUpController) EditFollowUp(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req editFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	entry, err := ctrl.followUpService.EditFollowUp(memberID, req.AdditionalReviewID, req.Content)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Edit additional review")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteFollowUp 추가 리뷰 삭제
// DELETE /review/addition
func (ctrl *FollowUpController) DeleteFollowUp(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req additionalReviewIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if err := ctrl.followUpService.DeleteFollowUp(memberID, req.AdditionalReviewID); err != nil {
		apperrors.RespondWithServiceError(c, err, "Delete additional review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
