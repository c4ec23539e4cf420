package model

import "time"

// Review 상품 리뷰 모델
type Review struct {
	ID        uint      `gorm:"primarykey" json:"index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	MemberID   uint       `gorm:"not null;uniqueIndex:idx_reviews_member_product,priority:1" json:"memberId"` // 작성자 ID
	ProductRef ProductRef `gorm:"embedded" json:"product"`                                                 // 리뷰 대상 상품

	Rating            int       `gorm:"not null" json:"rating"`                 // 평점 (1-5)
	BaseDate          time.Time `json:"baseDate"`                               // 사용 시작 기준일
	Content           string    `gorm:"type:text;not null;default:''" json:"content"`
	Functionality     int       `gorm:"not null" json:"functionality"`     // 기능 (1-3)
	NonIrritating     int       `gorm:"not null" json:"nonIrritating"`     // 무자극 (1-3)
	Sent              int       `gorm:"not null" json:"sent"`              // 향 (1-3)
	CostEffectiveness int       `gorm:"not null" json:"costEffectiveness"` // 가성비 (1-3)

	Images    []ReviewImage      `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	FollowUps []AdditionalReview `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ScoreField 세부 항목 점수 필드
type ScoreField string

const (
	ScoreFunctionality     ScoreField = "functionality"
	ScoreNonIrritating     ScoreField = "nonIrritating"
	ScoreSent              ScoreField = "sent"
	ScoreCostEffectiveness ScoreField = "costEffectiveness"
)

// Score returns the value of one of the 1-3 sub-scores, or 0 for an unknown field.
func (r *Review) Score(field ScoreField) int {
	switch field {
	case ScoreFunctionality:
		return r.Functionality
	case ScoreNonIrritating:
		return r.NonIrritating
	case ScoreSent:
		return r.Sent
	case ScoreCostEffectiveness:
		return r.CostEffectiveness
	default:
		return 0
	}
}

// ReviewImage 리뷰 이미지
type ReviewImage struct {
	ID        uint      `gorm:"primarykey" json:"index"`
	ReviewID  uint      `gorm:"not null;index" json:"reviewId"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}
