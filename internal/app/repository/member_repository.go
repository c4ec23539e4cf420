package repository

import (
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(member *model.Member) error
	FindByID(id uint) (*model.Member, error)
	FindByIdentity(identity model.MemberIdentity) (*model.Member, error)
	FindByIDs(ids []uint) (map[uint]model.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(member *model.Member) error {
	if err := r.db.Create(member).Error; err != nil {
		logger.Error("Failed to create member in database", err, map[string]interface{}{
			"email": member.Email,
		})
		return err
	}
	return nil
}

func (r *memberRepository) FindByID(id uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByIdentity matches the (id, email, nickname) triple carried by an access token.
func (r *memberRepository) FindByIdentity(identity model.MemberIdentity) (*model.Member, error) {
	logger.Debug("Finding member by identity in database", map[string]interface{}{
		"member_id": identity.MemberID,
	})

	var member model.Member
	err := r.db.
		Where("id = ? AND email = ? AND nickname = ?", identity.MemberID, identity.Email, identity.Nickname).
		First(&member).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find member by identity in database", err, map[string]interface{}{
				"member_id": identity.MemberID,
			})
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByIDs(ids []uint) (map[uint]model.Member, error) {
	result := make(map[uint]model.Member, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var members []model.Member
	if err := r.db.Where("id IN ?", ids).Find(&members).Error; err != nil {
		logger.Error("Failed to find members by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	for _, m := range members {
		result[m.ID] = m
	}
	return result, nil
}
