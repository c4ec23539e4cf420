package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/pkg/logger"
)

// DefaultFollowUpCooldown 추가 리뷰 작성 최소 간격
const DefaultFollowUpCooldown = 28 * 24 * time.Hour

type FollowUpService interface {
	AppendFollowUp(memberID, reviewID uint, content string, ended bool) (*model.AdditionalReview, error)
	EditFollowUp(memberID, additionalReviewID uint, content string) (*model.AdditionalReview, error)
	DeleteFollowUp(memberID, additionalReviewID uint) error
	ListFollowUps(reviewID uint) ([]model.AdditionalReview, error)
}

type followUpService struct {
	reviewRepo   repository.ReviewRepository
	followUpRepo repository.AdditionalReviewRepository
	cooldown     time.Duration
	now          func() time.Time
}

func NewFollowUpService(
	reviewRepo repository.ReviewRepository,
	followUpRepo repository.AdditionalReviewRepository,
	cooldown time.Duration,
	now func() time.Time,
) FollowUpService {
	if cooldown <= 0 {
		cooldown = DefaultFollowUpCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &followUpService{
		reviewRepo:   reviewRepo,
		followUpRepo: followUpRepo,
		cooldown:     cooldown,
		now:          now,
	}
}

func (s *followUpService) ownedReview(memberID, reviewID uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.MemberID != memberID {
		logger.Warn("Additional review access denied: not the author", map[string]interface{}{
			"review_id": reviewID,
			"member_id": memberID,
		})
		return nil, ErrForbidden
	}
	return review, nil
}

// checkGate decides whether a new entry may follow seq. Ended wins over the cooldown.
func (s *followUpService) checkGate(seq []model.AdditionalReview) error {
	switch model.FollowUpStateOf(seq) {
	case model.FollowUpNone:
		return nil
	case model.FollowUpEnded:
		return ErrStreamEnded
	}

	last := seq[len(seq)-1]
	if elapsed := s.now().Sub(last.Date); elapsed < s.cooldown {
		return fmt.Errorf("%w: %s remaining", ErrCooldownActive, (s.cooldown - elapsed).Round(time.Hour))
	}
	return nil
}

// AppendFollowUp 추가 리뷰 작성. ended=true면 이후 추가 리뷰를 받지 않는다.
func (s *followUpService) AppendFollowUp(memberID, reviewID uint, content string, ended bool) (*model.AdditionalReview, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	if _, err := s.ownedReview(memberID, reviewID); err != nil {
		return nil, err
	}

	seq, err := s.followUpRepo.ListByReview(reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.checkGate(seq); err != nil {
		result := "cooldown"
		if errors.Is(err, ErrStreamEnded) {
			result = "ended"
		}
		followUpResultsTotal.WithLabelValues(result).Inc()
		logger.Warn("Additional review rejected", map[string]interface{}{
			"review_id": reviewID,
			"entries":   len(seq),
			"reason":    err.Error(),
		})
		return nil, err
	}

	entry := &model.AdditionalReview{
		ReviewID: reviewID,
		Date:     s.now(),
		Content:  content,
		Ended:    ended,
	}
	if err := s.followUpRepo.Create(entry); err != nil {
		return nil, err
	}

	followUpResultsTotal.WithLabelValues("appended").Inc()
	logger.Info("Additional review appended", map[string]interface{}{
		"review_id":            reviewID,
		"additional_review_id": entry.ID,
		"sequence":             len(seq) + 1,
		"ended":                ended,
	})
	return entry, nil
}

func (s *followUpService) ownedEntry(memberID, additionalReviewID uint) (*model.AdditionalReview, error) {
	entry, err := s.followUpRepo.FindByID(additionalReviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrFollowUpNotFound
		}
		return nil, err
	}
	if _, err := s.ownedReview(memberID, entry.ReviewID); err != nil {
		return nil, err
	}
	return entry, nil
}

// EditFollowUp replaces content only; date and ended stay as written.
func (s *followUpService) EditFollowUp(memberID, additionalReviewID uint, content string) (*model.AdditionalReview, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	entry, err := s.ownedEntry(memberID, additionalReviewID)
	if err != nil {
		return nil, err
	}

	if err := s.followUpRepo.UpdateContent(entry.ID, content); err != nil {
		if isNotFound(err) {
			return nil, ErrFollowUpNotFound
		}
		return nil, err
	}
	entry.Content = content
	return entry, nil
}

func (s *followUpService) DeleteFollowUp(memberID, additionalReviewID uint) error {
	entry, err := s.ownedEntry(memberID, additionalReviewID)
	if err != nil {
		return err
	}

	if err := s.followUpRepo.Delete(entry.ID); err != nil {
		if isNotFound(err) {
			return ErrFollowUpNotFound
		}
		return err
	}

	logger.Info("Additional review deleted", map[string]interface{}{
		"additional_review_id": entry.ID,
		"review_id":            entry.ReviewID,
	})
	return nil
}

func (s *followUpService) ListFollowUps(reviewID uint) ([]model.AdditionalReview, error) {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	seq, err := s.followUpRepo.ListByReview(reviewID)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		seq = []model.AdditionalReview{}
	}
	return seq, nil
}
