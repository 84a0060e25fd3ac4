package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bitwise74/social-api/internal/auth"
	"bitwise74/social-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAuthMiddleware checks the bearer token on every request and resolves
// it to a live user. Tokens are stateless, so the user lookup runs each
// time; a deleted account invalidates its outstanding tokens immediately.
func NewAuthMiddleware(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "missing_token",
				"requestID": requestID,
			})
			return
		}

		user, err := a.AuthenticateRequest(tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "token_expired",
					"requestID": requestID,
				})
			case errors.Is(err, security.ErrTokenWrongKind):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "token_wrong_kind",
					"requestID": requestID,
				})
			case errors.Is(err, security.ErrTokenMalformed):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "token_invalid",
					"requestID": requestID,
				})
			case errors.Is(err, auth.ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "user_not_found",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "internal_server_error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to authenticate request", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}

// bearerToken pulls the access token from the Authorization header, with
// the auth_token cookie as a fallback for browser clients
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := c.Cookie("auth_token")
	if err != nil {
		return ""
	}

	return cookie
}
