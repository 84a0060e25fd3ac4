package post

import (
	"errors"
	"net/http"

	"bitwise74/social-api/internal"
	"bitwise74/social-api/internal/model"
	"bitwise74/social-api/internal/store"
	"bitwise74/social-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type commentBody struct {
	Body string `json:"body"`
}

// CommentCreate adds a comment to an existing post
func CommentCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	postID := c.Param("id")

	var data commentBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.CommentValidator(data.Body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if _, err := d.Store.FindPost(postID); err != nil {
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

		zap.L().Error("Failed to check post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	commentID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate comment ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	newComment := &model.Comment{
		ID:     commentID,
		PostID: postID,
		UserID: userID,
		Body:   data.Body,
	}

	if err := d.Store.CreateComment(newComment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, newComment)
}

// CommentList returns all comments on a post, oldest first
func CommentList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	postID := c.Param("id")

	comments, err := d.Store.ListComments(postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list comments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, comments)
}
