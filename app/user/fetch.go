package user

import (
	"net/http"

	"bitwise74/social-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFetch returns the caller's profile and their latest posts
func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	email := c.MustGet("userEmail").(string)

	posts, err := d.Store.ListPostsByUser(userID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userID": userID,
		"email":  email,
		"posts":  posts,
	})
}
