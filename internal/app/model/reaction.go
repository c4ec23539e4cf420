package model

import "time"

// Reaction 리뷰 좋아요. 회원-리뷰 쌍당 최대 1개.
type Reaction struct {
	ID         uint      `gorm:"primarykey" json:"index"`
	MemberID   uint      `gorm:"not null;uniqueIndex:idx_reactions_member_review,priority:1" json:"memberId"`
	ReviewID   uint      `gorm:"not null;uniqueIndex:idx_reactions_member_review,priority:2;index" json:"reviewId"`
	Assessment bool      `gorm:"not null;default:true" json:"assessment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Reaction) TableName() string {
	return "review_reactions"
}

// Report 리뷰 신고. 같은 회원이 여러 번 신고할 수 있다.
type Report struct {
	ID         uint      `gorm:"primarykey" json:"index"`
	MemberID   uint      `gorm:"not null;index" json:"memberId"`
	ReviewID   uint      `gorm:"not null;index" json:"reviewId"`
	Reason     string    `gorm:"not null" json:"reason"`
	ReasonSpec *string   `gorm:"type:text" json:"reasonSpec,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Report) TableName() string {
	return "review_reports"
}
