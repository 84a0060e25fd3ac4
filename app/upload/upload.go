// Package upload ships user files to S3-compatible object storage
package upload

import (
	"fmt"
	"net/http"
	"path/filepath"

	"bitwise74/social-api/internal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const keyCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// FileUpload stores a multipart file in the bucket and returns its
// public URL, which clients can then reference from posts
func FileUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer file.Close()

	key, err := gonanoid.Generate(keyCharset, 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate file key", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	key += filepath.Ext(header.Filename)

	uploader := manager.NewUploader(d.S3.C)

	_, err = uploader.Upload(c.Request.Context(), &s3.PutObjectInput{
		Bucket:      d.S3.Bucket,
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(header.Header.Get("Content-Type")),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "There was an error uploading the file",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload file to S3",
			zap.Error(err),
			zap.String("requestID", requestID),
			zap.String("userID", userID),
		)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("Successfully uploaded file %s", header.Filename),
		"file_url": fmt.Sprintf("%s/%s", d.S3.PublicURL, key),
	})
}
