package post

import (
	"net/http"
	"strconv"

	"bitwise74/social-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultListLimit = 50

func PostList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}

	posts, err := d.Store.ListPosts(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, posts)
}
