package user

import (
	"errors"
	"net/http"

	"bitwise74/social-api/internal"
	"bitwise74/social-api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	accessToken, err := d.Auth.Login(data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Same status and message whether the email or the password
			// was wrong
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     auth.ErrInvalidCredentials.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, auth.ErrEmailNotConfirmed):
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "account_not_confirmed",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to log in user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	sslEnabled := viper.GetBool("host.ssl.enabled")

	c.SetCookie("auth_token", accessToken, 60*30, "/", "", sslEnabled, true)
	c.SetCookie("logged_in", "1", 60*30, "/", "", sslEnabled, false)
	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}
