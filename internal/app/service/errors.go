package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrMemberNotFound   = errors.New("member not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrFollowUpNotFound = errors.New("additional review not found")
	ErrDuplicateReview  = errors.New("review already exists for this product")
	ErrCooldownActive   = errors.New("can post after one month")
	ErrStreamEnded      = errors.New("already ended review")
	ErrAlreadyUnliked   = errors.New("already like canceled")
	ErrStorage          = errors.New("object storage failure")
)

// isUniqueViolation reports a unique-index conflict from either postgres or sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
