package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/kopdigital/koperasi-backend/internal/services"
	"github.com/kopdigital/koperasi-backend/pkg/errutil"
	"github.com/kopdigital/koperasi-backend/pkg/jwt"
	"go.uber.org/zap"
)

// Context keys set by the authentication middlewares.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
	ContextMember    = "member"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "code": errutil.StatusUnauthorized})
			return
		}

		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer ", "code": errutil.StatusUnauthorized})
			return
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			zap.L().Debug("token validation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired", "code": errutil.StatusUnauthorized})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "code": errutil.StatusUnauthorized})
			}
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// MemberMiddleware loads the caller's member record. With requireActive set,
// members that are not active are refused with 403.
func MemberMiddleware(members services.MemberService, requireActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, err := members.GetByUserID(c.Request.Context(), c.GetString(ContextUserID))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if requireActive && !member.IsActive() {
			_ = c.Error(errutil.Forbidden("member account is not active", nil))
			c.Abort()
			return
		}
		c.Set(ContextMember, member)
		c.Next()
	}
}

// RequireRole refuses callers whose token does not carry one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		_ = c.Error(errutil.Forbidden("insufficient permissions", nil))
		c.Abort()
	}
}

// CurrentMember returns the member stored by MemberMiddleware.
func CurrentMember(c *gin.Context) (*models.Member, bool) {
	v, ok := c.Get(ContextMember)
	if !ok {
		return nil, false
	}
	member, ok := v.(*models.Member)
	return member, ok && member != nil
}
