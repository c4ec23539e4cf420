package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/internal/app/service"
	apperrors "github.com/greenmomguide/review-backend/internal/errors"
	"github.com/greenmomguide/review-backend/internal/middleware"
)

type ReactionController struct {
	reactionService service.ReactionService
}

func NewReactionController(reactionService service.ReactionService) *ReactionController {
	return &ReactionController{
		reactionService: reactionService,
	}
}

type reportRequest struct {
	ReviewID   uint    `json:"reviewId" binding:"required"`
	Reason     string  `json:"reason" binding:"required"`
	ReasonSpec *string `json:"reasonSpec"`
}

// Like 좋아요. 이미 눌렀으면 {like: false}
// POST /review/like
func (ctrl *ReactionController) Like(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req reviewIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	liked, err := ctrl.reactionService.Like(memberID, req.ReviewID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Like review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"like": liked})
}

// Unlike 좋아요 취소
// DELETE /review/like
func (ctrl *ReactionController) Unlike(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req reviewIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if err := ctrl.reactionService.Unlike(memberID, req.ReviewID); err != nil {
		apperrors.RespondWithServiceError(c, err, "Unlike review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Report 리뷰 신고
// POST /review/report
func (ctrl *ReactionController) Report(c *gin.Context) {
	memberID, _ := middleware.GetMemberID(c)

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	report, err := ctrl.reactionService.Report(memberID, req.ReviewID, req.Reason, req.ReasonSpec)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "Report review")
		return
	}

	c.JSON(http.StatusOK, report)
}
