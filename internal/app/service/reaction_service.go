package service

import (
	"fmt"
	"strings"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/pkg/logger"
)

type ReactionService interface {
	Like(memberID, reviewID uint) (bool, error)
	Unlike(memberID, reviewID uint) error
	Report(memberID, reviewID uint, reason string, reasonSpec *string) (*model.Report, error)
}

type reactionService struct {
	reviewRepo   repository.ReviewRepository
	reactionRepo repository.ReactionRepository
	reportRepo   repository.ReportRepository
}

func NewReactionService(
	reviewRepo repository.ReviewRepository,
	reactionRepo repository.ReactionRepository,
	reportRepo repository.ReportRepository,
) ReactionService {
	return &reactionService{
		reviewRepo:   reviewRepo,
		reactionRepo: reactionRepo,
		reportRepo:   reportRepo,
	}
}

func (s *reactionService) requireReview(reviewID uint) error {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

// Like 좋아요. 이미 눌렀으면 false를 돌려주고 아무것도 만들지 않는다.
func (s *reactionService) Like(memberID, reviewID uint) (bool, error) {
	if err := s.requireReview(reviewID); err != nil {
		return false, err
	}

	if _, err := s.reactionRepo.Find(memberID, reviewID); err == nil {
		reactionEventsTotal.WithLabelValues("like_noop").Inc()
		return false, nil
	} else if !isNotFound(err) {
		return false, err
	}

	err := s.reactionRepo.Create(&model.Reaction{
		MemberID:   memberID,
		ReviewID:   reviewID,
		Assessment: true,
	})
	if err != nil {
		// 동시에 두 번 누른 경우
		if isUniqueViolation(err) {
			reactionEventsTotal.WithLabelValues("like_noop").Inc()
			return false, nil
		}
		return false, err
	}

	reactionEventsTotal.WithLabelValues("like").Inc()
	return true, nil
}

func (s *reactionService) Unlike(memberID, reviewID uint) error {
	if err := s.requireReview(reviewID); err != nil {
		return err
	}

	reaction, err := s.reactionRepo.Find(memberID, reviewID)
	if err != nil {
		if isNotFound(err) {
			return ErrAlreadyUnliked
		}
		return err
	}
	if err := s.reactionRepo.Delete(reaction.ID); err != nil {
		return err
	}

	reactionEventsTotal.WithLabelValues("unlike").Inc()
	return nil
}

// Report 리뷰 신고. 같은 리뷰를 여러 번 신고할 수 있다.
func (s *reactionService) Report(memberID, reviewID uint, reason string, reasonSpec *string) (*model.Report, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if err := s.requireReview(reviewID); err != nil {
		return nil, err
	}

	report := &model.Report{
		MemberID:   memberID,
		ReviewID:   reviewID,
		Reason:     reason,
		ReasonSpec: reasonSpec,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	reactionEventsTotal.WithLabelValues("report").Inc()
	logger.Info("Review reported", map[string]interface{}{
		"report_id": report.ID,
		"review_id": reviewID,
		"member_id": memberID,
		"reason":    reason,
	})
	return report, nil
}
