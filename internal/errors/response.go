package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/pkg/logger"
)

// ErrorResponse 에러 응답 본문
type ErrorResponse struct {
	Error     string `json:"error"`               // 에러 코드 (codes.go)
	Message   string `json:"message"`             // 사용자에게 보여줄 메시지
	RequestID string `json:"requestId,omitempty"` // 로그 추적용
}

// RespondWithError writes the envelope and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: c.GetString("request_id"),
	})
}

// RespondWithServiceError maps err through FromServiceError. 5xx causes are logged
// and attached to the context so the request log carries them.
func RespondWithServiceError(c *gin.Context, err error, action string) {
	info := FromServiceError(err)
	if info.Status >= http.StatusInternalServerError {
		if err != nil {
			_ = c.Error(err)
		}
		logger.Error(action+" failed", err, logger.Fields{
			"path":       c.Request.URL.Path,
			"error_code": info.Code,
			"request_id": c.GetString("request_id"),
		})
	}
	RespondWithError(c, info.Status, info.Code, info.Message)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}
