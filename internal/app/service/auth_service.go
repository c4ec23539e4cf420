package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/pkg/logger"
	"github.com/greenmomguide/review-backend/pkg/util"
)

// ErrTokenExpired is wrapped together with ErrUnauthorized for expired tokens.
var ErrTokenExpired = errors.New("token expired")

// RevocationChecker reports whether a raw token has been revoked (logged out).
type RevocationChecker func(ctx context.Context, token string) (bool, error)

// AuthService verifies tokens issued by the external auth service and maps them to members.
type AuthService interface {
	VerifyToken(ctx context.Context, rawToken string) (model.MemberIdentity, error)
	ResolveMember(identity model.MemberIdentity) (*model.Member, error)
}

type authService struct {
	memberRepo repository.MemberRepository
	jwtSecret  string
	isRevoked  RevocationChecker
}

func NewAuthService(memberRepo repository.MemberRepository, jwtSecret string, isRevoked RevocationChecker) AuthService {
	return &authService{
		memberRepo: memberRepo,
		jwtSecret:  jwtSecret,
		isRevoked:  isRevoked,
	}
}

func (s *authService) VerifyToken(ctx context.Context, rawToken string) (model.MemberIdentity, error) {
	claims, err := util.ValidateToken(rawToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return model.MemberIdentity{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrTokenExpired)
		}
		return model.MemberIdentity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if s.isRevoked != nil {
		revoked, err := s.isRevoked(ctx, rawToken)
		if err != nil {
			// 블랙리스트 저장소 장애 시 토큰 서명만으로 통과시킨다
			logger.Warn("Token revocation check failed", map[string]interface{}{
				"member_id": claims.MemberID,
				"error":     err.Error(),
			})
		} else if revoked {
			return model.MemberIdentity{}, fmt.Errorf("%w: token revoked", ErrUnauthorized)
		}
	}

	identity := model.MemberIdentity{
		MemberID: claims.MemberID,
		Email:    claims.Email,
		Nickname: claims.Nickname,
	}
	if !identity.Valid() {
		return model.MemberIdentity{}, fmt.Errorf("%w: incomplete claims", ErrUnauthorized)
	}
	return identity, nil
}

// ResolveMember re-reads the member by the full (id, email, nickname) triple.
func (s *authService) ResolveMember(identity model.MemberIdentity) (*model.Member, error) {
	if !identity.Valid() {
		return nil, ErrUnauthorized
	}

	member, err := s.memberRepo.FindByIdentity(identity)
	if err != nil {
		if isNotFound(err) {
			logger.Warn("Member identity does not match", map[string]interface{}{
				"member_id": identity.MemberID,
			})
			return nil, ErrForbidden
		}
		return nil, err
	}
	return member, nil
}
