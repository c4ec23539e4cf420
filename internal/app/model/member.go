package model

import "time"

// Member 회원 모델. 가입/로그인은 외부 인증 서비스가 담당하고 여기서는 리뷰 작성자 식별만 한다.
type Member struct {
	ID           uint      `gorm:"primarykey" json:"id"`                 // 회원 ID
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`    // 이메일
	Nickname     string    `gorm:"uniqueIndex;not null" json:"nickName"` // 닉네임
	ProfileImage string    `json:"profileImage,omitempty"`               // 프로필 이미지 URL
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Member) TableName() string {
	return "members"
}

// MemberIdentity 토큰에서 꺼낸 회원 식별 정보
type MemberIdentity struct {
	MemberID uint
	Email    string
	Nickname string
}

// Valid reports whether every part of the triple is present.
func (i MemberIdentity) Valid() bool {
	return i.MemberID != 0 && i.Email != "" && i.Nickname != ""
}
