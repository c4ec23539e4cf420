package model

import "time"

// AdditionalReview 추가 리뷰 (사용 후기 후속 글)
type AdditionalReview struct {
	ID        uint      `gorm:"primarykey" json:"index"`
	ReviewID  uint      `gorm:"not null;index" json:"reviewId"`
	Date      time.Time `gorm:"not null" json:"date"`            // 작성 시각, 28일 간격 계산 기준
	Content   string    `gorm:"type:text;not null" json:"content"`
	Ended     bool      `gorm:"not null;default:false" json:"ended"` // 마지막 추가 리뷰 여부
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AdditionalReview) TableName() string {
	return "additional_reviews"
}

// FollowUpState 리뷰별 추가 리뷰 진행 상태
type FollowUpState string

const (
	FollowUpNone   FollowUpState = "none"
	FollowUpActive FollowUpState = "active"
	FollowUpEnded  FollowUpState = "ended"
)

// FollowUpStateOf derives the state from a creation-ordered sequence.
func FollowUpStateOf(seq []AdditionalReview) FollowUpState {
	if len(seq) == 0 {
		return FollowUpNone
	}
	if seq[len(seq)-1].Ended {
		return FollowUpEnded
	}
	return FollowUpActive
}
