package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/greenmomguide/review-backend/internal/app/service"
	"github.com/greenmomguide/review-backend/internal/storage"
	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int    // HTTP 상태 코드
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

type sentinelMapping struct {
	err  error
	info ErrorInfo
}

// 순서가 중요하다. ErrTokenExpired는 ErrUnauthorized와 함께 감싸지므로 먼저 검사한다.
var sentinelMappings = []sentinelMapping{
	{service.ErrTokenExpired, ErrorInfo{http.StatusUnauthorized, AuthTokenExpired, "토큰이 만료되었습니다. 다시 로그인해주세요"}},
	{service.ErrUnauthorized, ErrorInfo{http.StatusUnauthorized, AuthUnauthorized, "로그인이 필요합니다"}},
	{service.ErrForbidden, ErrorInfo{http.StatusBadRequest, AuthzForbidden, "접근 권한이 없습니다"}},
	{storage.ErrUnsupportedContentType, ErrorInfo{http.StatusBadRequest, UploadInvalidFileType, "지원하지 않는 이미지 형식입니다"}},
	{service.ErrInvalidInput, ErrorInfo{http.StatusBadRequest, ValidationInvalidInput, "입력값이 올바르지 않습니다"}},
	{service.ErrMemberNotFound, ErrorInfo{http.StatusBadRequest, MemberNotFound, "회원을 찾을 수 없습니다"}},
	{service.ErrProductNotFound, ErrorInfo{http.StatusBadRequest, ProductNotFound, "상품을 찾을 수 없습니다"}},
	{service.ErrReviewNotFound, ErrorInfo{http.StatusBadRequest, ReviewNotFound, "리뷰를 찾을 수 없습니다"}},
	{service.ErrFollowUpNotFound, ErrorInfo{http.StatusBadRequest, ReviewFollowUpNotFound, "추가 리뷰를 찾을 수 없습니다"}},
	{service.ErrDuplicateReview, ErrorInfo{http.StatusBadRequest, ReviewAlreadyExists, "이미 리뷰를 작성한 상품입니다"}},
	{service.ErrCooldownActive, ErrorInfo{http.StatusBadRequest, ReviewFollowUpCooldown, "추가 리뷰는 한 달 후에 작성할 수 있습니다"}},
	{service.ErrStreamEnded, ErrorInfo{http.StatusBadRequest, ReviewFollowUpEnded, "이미 종료된 리뷰입니다"}},
	{service.ErrAlreadyUnliked, ErrorInfo{http.StatusBadRequest, ReviewAlreadyUnliked, "이미 좋아요를 취소했습니다"}},
	{service.ErrStorage, ErrorInfo{http.StatusInternalServerError, UploadFailed, "이미지 업로드에 실패했습니다. 잠시 후 다시 시도해주세요"}},
}

// FromServiceError 서비스 에러를 (상태 코드, 에러 코드, 메시지)로 변환
// 클라이언트 오류는 400, 저장소 및 예상하지 못한 오류는 500
func FromServiceError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{http.StatusInternalServerError, InternalServerError, "서버 오류가 발생했습니다"}
	}

	for _, m := range sentinelMappings {
		if errors.Is(err, m.err) {
			info := m.info
			if m.err == service.ErrInvalidInput {
				info.Message = detailMessage(err, info.Message)
			}
			return info
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{http.StatusBadRequest, ReviewNotFound, "요청한 데이터를 찾을 수 없습니다"}
	}

	errStrLower := strings.ToLower(err.Error())
	if strings.Contains(errStrLower, "sql") || strings.Contains(errStrLower, "database") || strings.Contains(errStrLower, "connection") {
		return ErrorInfo{http.StatusInternalServerError, InternalDatabaseError, "데이터베이스 오류가 발생했습니다. 잠시 후 다시 시도해주세요"}
	}
	return ErrorInfo{http.StatusInternalServerError, InternalServerError, "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"}
}

// detailMessage "invalid input: rating must be 1..5" 에서 뒷부분을 꺼낸다.
func detailMessage(err error, fallback string) string {
	msg := err.Error()
	prefix := service.ErrInvalidInput.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		if detail := strings.TrimSpace(msg[idx+len(prefix):]); detail != "" {
			return detail
		}
	}
	return fallback
}
