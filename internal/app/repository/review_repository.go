package repository

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindDetail(id uint) (*model.Review, error)
	ExistsForMember(memberID uint, ref model.ProductRef) (bool, error)
	ListByProduct(ref model.ProductRef) ([]model.Review, error)
	ListByMember(memberID uint, category model.ProductCategory) ([]model.Review, error)
	CountByProduct(ref model.ProductRef) (int64, error)
	SumRatings(ref model.ProductRef) (sum int, count int, err error)
	Update(review *model.Review) error
	Delete(id uint) error

	ReplaceImages(reviewID uint, urls []string) ([]model.ReviewImage, error)
	ListImages(reviewIDs []uint) (map[uint][]model.ReviewImage, error)
	RecentImagesForProduct(ref model.ProductRef, limit int) ([]model.ReviewImage, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

// Create 리뷰 생성
func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"member_id": review.MemberID,
		"product":   review.ProductRef.String(),
		"rating":    review.Rating,
	})

	if err := r.db.Omit(clause.Associations).Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"member_id": review.MemberID,
			"product":   review.ProductRef.String(),
		})
		return err
	}

	logger.Debug("Review created in database", map[string]interface{}{
		"review_id": review.ID,
	})
	return nil
}

// FindByID ID로 리뷰 조회 (연관 데이터 없이)
func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindDetail 이미지와 추가 리뷰를 함께 조회
func (r *reviewRepository) FindDetail(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsForMember 회원이 해당 상품에 리뷰를 작성했는지 확인
func (r *reviewRepository) ExistsForMember(memberID uint, ref model.ProductRef) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("member_id = ? AND product_category = ? AND product_id = ?", memberID, ref.Category, ref.ProductID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByProduct returns the product's reviews in insertion order.
func (r *reviewRepository) ListByProduct(ref model.ProductRef) ([]model.Review, error) {
	logger.Debug("Listing reviews by product in database", map[string]interface{}{
		"product": ref.String(),
	})

	var reviews []model.Review
	err := r.db.
		Where("product_category = ? AND product_id = ?", ref.Category, ref.ProductID).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews by product in database", err, map[string]interface{}{
			"product": ref.String(),
		})
		return nil, err
	}
	return reviews, nil
}

// ListByMember returns the member's reviews of one category in insertion order.
func (r *reviewRepository) ListByMember(memberID uint, category model.ProductCategory) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.
		Where("member_id = ? AND product_category = ?", memberID, category).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews by member in database", err, map[string]interface{}{
			"member_id": memberID,
			"category":  category,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) CountByProduct(ref model.ProductRef) (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("product_category = ? AND product_id = ?", ref.Category, ref.ProductID).
		Count(&count).Error
	return count, err
}

// SumRatings scans the live review set; used only to reconcile the stored aggregate.
func (r *reviewRepository) SumRatings(ref model.ProductRef) (int, int, error) {
	var row struct {
		Sum   int
		Count int
	}
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(SUM(rating), 0) AS sum, COUNT(*) AS count").
		Where("product_category = ? AND product_id = ?", ref.Category, ref.ProductID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Sum, row.Count, nil
}

// Update 리뷰 수정
func (r *reviewRepository) Update(review *model.Review) error {
	if err := r.db.Omit(clause.Associations).Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

// Delete removes the review together with its images, follow-ups and reactions.
// Reports are kept for moderation history.
func (r *reviewRepository) Delete(id uint) error {
	logger.Debug("Deleting review in database", map[string]interface{}{
		"review_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&model.AdditionalReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Review{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceImages drops every image row of the review and inserts urls in order.
func (r *reviewRepository) ReplaceImages(reviewID uint, urls []string) ([]model.ReviewImage, error) {
	images := make([]model.ReviewImage, 0, len(urls))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&model.ReviewImage{}).Error; err != nil {
			return err
		}
		for _, url := range urls {
			images = append(images, model.ReviewImage{ReviewID: reviewID, URL: url})
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		logger.Error("Failed to replace review images in database", err, map[string]interface{}{
			"review_id": reviewID,
			"count":     len(urls),
		})
		return nil, err
	}
	return images, nil
}

// ListImages groups image rows by review, each group in id order.
func (r *reviewRepository) ListImages(reviewIDs []uint) (map[uint][]model.ReviewImage, error) {
	result := make(map[uint][]model.ReviewImage, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}

	var images []model.ReviewImage
	if err := r.db.Where("review_id IN ?", reviewIDs).Order("id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	for _, img := range images {
		result[img.ReviewID] = append(result[img.ReviewID], img)
	}
	return result, nil
}

// RecentImagesForProduct returns the newest images across all of the product's reviews.
func (r *reviewRepository) RecentImagesForProduct(ref model.ProductRef, limit int) ([]model.ReviewImage, error) {
	var images []model.ReviewImage
	err := r.db.
		Joins("JOIN reviews ON reviews.id = review_images.review_id").
		Where("reviews.product_category = ? AND reviews.product_id = ?", ref.Category, ref.ProductID).
		Order("review_images.id DESC").
		Limit(limit).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}
