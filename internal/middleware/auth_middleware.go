package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/service"
	"github.com/greenmomguide/review-backend/internal/errors"
)

// Context keys for member information
const (
	MemberIDKey       = "member_id"
	MemberEmailKey    = "member_email"
	MemberNicknameKey = "member_nickname"
	MemberKey         = "member"
)

type AuthMiddleware struct {
	authService service.AuthService
}

func NewAuthMiddleware(authService service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// bearerToken extracts the token from "Bearer <token>". ok is false when the header is malformed.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate verifies the token and re-resolves the member (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "로그인이 필요합니다")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "인증 형식이 올바르지 않습니다")
			c.Abort()
			return
		}

		identity, err := m.authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			errors.RespondWithServiceError(c, err, "Verify token")
			c.Abort()
			return
		}

		member, err := m.authService.ResolveMember(identity)
		if err != nil {
			log.Warn("Member resolution failed", map[string]interface{}{
				"member_id": identity.MemberID,
				"error":     err.Error(),
			})
			errors.RespondWithServiceError(c, err, "Resolve member")
			c.Abort()
			return
		}

		setMember(c, member)

		log.Debug("Member authenticated successfully", map[string]interface{}{
			"member_id": member.ID,
		})

		c.Next()
	}
}

// OptionalAuthenticate sets member info when a valid token is present
// - If token is missing or invalid: continues as guest
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		identity, err := m.authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		member, err := m.authService.ResolveMember(identity)
		if err != nil {
			log.Debug("Member resolution failed - continuing as guest", map[string]interface{}{
				"member_id": identity.MemberID,
			})
			c.Next()
			return
		}

		setMember(c, member)
		c.Next()
	}
}

func setMember(c *gin.Context, member *model.Member) {
	c.Set(MemberIDKey, member.ID)
	c.Set(MemberEmailKey, member.Email)
	c.Set(MemberNicknameKey, member.Nickname)
	c.Set(MemberKey, member)
}

// GetMemberID extracts member ID from context
func GetMemberID(c *gin.Context) (uint, bool) {
	memberID, exists := c.Get(MemberIDKey)
	if !exists {
		return 0, false
	}
	return memberID.(uint), true
}

// GetMember extracts the resolved member from context
func GetMember(c *gin.Context) (*model.Member, bool) {
	member, exists := c.Get(MemberKey)
	if !exists {
		return nil, false
	}
	return member.(*model.Member), true
}
