package post

import (
	"errors"
	"net/http"

	"bitwise74/social-api/internal"
	"bitwise74/social-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostFetch returns a single post together with its comments
func PostFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	postID := c.Param("id")

	found, err := d.Store.FindPost(postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Post not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	comments, err := d.Store.ListComments(postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch comments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     found,
		"comments": comments,
	})
}
