package user

import (
	"errors"
	"net/http"

	"bitwise74/social-api/internal"
	"bitwise74/social-api/internal/auth"
	"bitwise74/social-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserConfirm redeems the confirmation token from the registration email
func UserConfirm(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No confirmation token provided",
			"requestID": requestID,
		})
		return
	}

	email, err := d.Auth.Confirm(token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Token expired",
				"requestID": requestID,
			})
		case errors.Is(err, security.ErrTokenWrongKind):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Wrong token kind",
				"requestID": requestID,
			})
		case errors.Is(err, security.ErrTokenMalformed):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid token",
				"requestID": requestID,
			})
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "user_not_found",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to confirm user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	zap.L().Info("User confirmed", zap.String("email", email), zap.String("requestID", requestID))

	c.JSON(http.StatusOK, gin.H{
		"message":   "User confirmed",
		"requestID": requestID,
	})
}
