package repository

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReactionRepository interface {
	Find(memberID, reviewID uint) (*model.Reaction, error)
	Create(reaction *model.Reaction) error
	Delete(id uint) error
	CountByReviews(reviewIDs []uint) (map[uint]int, error)
	ReactedReviewIDs(memberID uint, reviewIDs []uint) (map[uint]bool, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Find(memberID, reviewID uint) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.Where("member_id = ? AND review_id = ?", memberID, reviewID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(reaction *model.Reaction) error {
	logger.Debug("Creating reaction in database", map[string]interface{}{
		"member_id": reaction.MemberID,
		"review_id": reaction.ReviewID,
	})
	return r.db.Create(reaction).Error
}

func (r *reactionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Reaction{}, id).Error
}

// CountByReviews 리뷰별 좋아요 수. 좋아요가 없는 리뷰는 맵에 없다.
func (r *reactionRepository) CountByReviews(reviewIDs []uint) (map[uint]int, error) {
	result := make(map[uint]int, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ReviewID uint
		Total    int
	}
	err := r.db.Model(&model.Reaction{}).
		Select("review_id, COUNT(*) AS total").
		Where("review_id IN ?", reviewIDs).
		Group("review_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count reactions in database", err, map[string]interface{}{
			"review_count": len(reviewIDs),
		})
		return nil, err
	}
	for _, row := range rows {
		result[row.ReviewID] = row.Total
	}
	return result, nil
}

func (r *reactionRepository) ReactedReviewIDs(memberID uint, reviewIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := r.db.Model(&model.Reaction{}).
		Where("member_id = ? AND review_id IN ?", memberID, reviewIDs).
		Pluck("review_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

type ReportRepository interface {
	Create(report *model.Report) error
	ListByReview(reviewID uint) ([]model.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *model.Report) error {
	if err := r.db.Create(report).Error; err != nil {
		logger.Error("Failed to create report in database", err, map[string]interface{}{
			"member_id": report.MemberID,
			"review_id": report.ReviewID,
		})
		return err
	}
	return nil
}

func (r *reportRepository) ListByReview(reviewID uint) ([]model.Report, error) {
	var reports []model.Report
	if err := r.db.Where("review_id = ?", reviewID).Order("id ASC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
