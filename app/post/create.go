// Package post contains the post and comment endpoints
package post

import (
	"fmt"
	"net/http"

	"bitwise74/social-api/internal"
	"bitwise74/social-api/internal/model"
	"bitwise74/social-api/internal/service"
	"bitwise74/social-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type createBody struct {
	Body   string `json:"body"`
	Prompt string `json:"prompt"`
}

// PostCreate stores a new post. When a prompt is supplied the response
// doesn't wait for the image: a deferred job generates it, attaches it
// and mails the author afterwards.
func PostCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	email := c.MustGet("userEmail").(string)

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.PostValidator(data.Body, data.Prompt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	postID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate post ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	newPost := &model.Post{
		ID:     postID,
		UserID: userID,
		Body:   data.Body,
	}

	if err := d.Store.CreatePost(newPost); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Prompt != "" {
		scheme := "http"
		if viper.GetBool("host.ssl.enabled") {
			scheme = "https"
		}

		postURL := fmt.Sprintf("%s://%s/api/posts/%s", scheme, viper.GetString("host.domain"), postID)

		job := service.NewImageAttachJob(d.Images, d.Mailer, d.Store, email, postID, postURL, data.Prompt)
		if err := d.JobQueue.Submit(job); err != nil {
			// The post stands either way, the image just never arrives
			zap.L().Error("Failed to submit image job", zap.Error(err), zap.String("postID", postID))
		}
	}

	c.JSON(http.StatusCreated, newPost)
}
