package repository

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
)

type AdditionalReviewRepository interface {
	WithTx(tx *gorm.DB) AdditionalReviewRepository
	Create(entry *model.AdditionalReview) error
	FindByID(id uint) (*model.AdditionalReview, error)
	ListByReview(reviewID uint) ([]model.AdditionalReview, error)
	ListByReviews(reviewIDs []uint) (map[uint][]model.AdditionalReview, error)
	UpdateContent(id uint, content string) error
	Delete(id uint) error
}

type additionalReviewRepository struct {
	db *gorm.DB
}

func NewAdditionalReviewRepository(db *gorm.DB) AdditionalReviewRepository {
	return &additionalReviewRepository{db: db}
}

func (r *additionalReviewRepository) WithTx(tx *gorm.DB) AdditionalReviewRepository {
	return &additionalReviewRepository{db: tx}
}

func (r *additionalReviewRepository) Create(entry *model.AdditionalReview) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create additional review in database", err, map[string]interface{}{
			"review_id": entry.ReviewID,
		})
		return err
	}

	logger.Debug("Additional review created in database", map[string]interface{}{
		"additional_review_id": entry.ID,
		"review_id":            entry.ReviewID,
		"ended":                entry.Ended,
	})
	return nil
}

func (r *additionalReviewRepository) FindByID(id uint) (*model.AdditionalReview, error) {
	var entry model.AdditionalReview
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByReview 추가 리뷰 목록 (작성 순)
func (r *additionalReviewRepository) ListByReview(reviewID uint) ([]model.AdditionalReview, error) {
	var entries []model.AdditionalReview
	if err := r.db.Where("review_id = ?", reviewID).Order("id ASC").Find(&entries).Error; err != nil {
		logger.Error("Failed to list additional reviews in database", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return nil, err
	}
	return entries, nil
}

func (r *additionalReviewRepository) ListByReviews(reviewIDs []uint) (map[uint][]model.AdditionalReview, error) {
	result := make(map[uint][]model.AdditionalReview, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}

	var entries []model.AdditionalReview
	if err := r.db.Where("review_id IN ?", reviewIDs).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		result[e.ReviewID] = append(result[e.ReviewID], e)
	}
	return result, nil
}

// UpdateContent touches content only; date and ended stay as written.
func (r *additionalReviewRepository) UpdateContent(id uint, content string) error {
	result := r.db.Model(&model.AdditionalReview{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *additionalReviewRepository) Delete(id uint) error {
	result := r.db.Delete(&model.AdditionalReview{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
