package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/sirupsen/logrus"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type uploadImageResponse struct {
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ObjectKey    string `json:"object_key"`
}

// uploadImageHandler takes a multipart image, stores the original and a
// 200px thumbnail in the bucket and returns both public URLs. The client
// saves the returned URL on the product or staff record afterwards.
func uploadImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		requestID := requestIDFromHeaders(c)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if !imageMimeTypes[mimeType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
			return
		}

		entity := sanitizeSegment(strings.ToLower(c.DefaultPostForm("entity", "products")))
		if entity == "" {
			entity = "products"
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext == "" {
			ext = extensionFromMimeType(mimeType)
		}
		objectKey := path.Join(entity, uuid.New().String()+ext)

		ctx := c.Request.Context()
		if err := utils.UploadBytesToGCS(ctx, objectKey, data, mimeType); err != nil {
			logUploadError(logger, "uploadImageHandler", requestID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}

		thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
			logUploadError(logger, "uploadImageHandler", requestID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate thumbnail"})
			return
		}
		thumbnailKey := thumbnailObjectKey(objectKey)
		if err := utils.UploadBytesToGCS(ctx, thumbnailKey, buf.Bytes(), "image/jpeg"); err != nil {
			logUploadError(logger, "uploadImageHandler", requestID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store thumbnail"})
			return
		}

		logger.WithFields(logrus.Fields{
			"mime_type":  mimeType,
			"size":       len(data),
			"object_key": objectKey,
		}).Info("[upload.image]")

		c.JSON(http.StatusOK, gin.H{
			"data": uploadImageResponse{
				ImageURL:     utils.BuildObjectAccessURL(objectKey),
				ThumbnailURL: utils.BuildObjectAccessURL(thumbnailKey),
				ObjectKey:    objectKey,
			},
		})
	}
}

// deleteImageHandler removes an uploaded object and its thumbnail. The key
// parameter accepts either the raw object key or the stored access URL.
func deleteImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		objectKey := utils.ExtractObjectKeyFromURL(c.Query("key"))
		if objectKey == "" || strings.Contains(objectKey, "..") || strings.HasPrefix(objectKey, "/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
			return
		}

		ctx := c.Request.Context()
		if err := utils.DeleteObjectFromGCS(ctx, objectKey); err != nil {
			logUploadError(config.GetLogger(), "deleteImageHandler", requestIDFromHeaders(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
			return
		}
		// thumbnail removal is best-effort
		_ = utils.DeleteObjectFromGCS(ctx, thumbnailObjectKey(objectKey))

		c.JSON(http.StatusOK, gin.H{"data": objectKey})
	}
}

func thumbnailObjectKey(objectKey string) string {
	dir := path.Dir(objectKey)
	filename := path.Base(objectKey)
	return path.Join(dir, "thumbnails", filename)
}

func sanitizeSegment(input string) string {
	var out strings.Builder
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func extensionFromMimeType(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}

func logUploadError(logger *logrus.Logger, funcName string, requestID string, err error) {
	config.LogError(logger, "uploads", funcName, requestID, nil, err)
}

func requestIDFromHeaders(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Correlation-Id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.GetHeader("X-Request-Id")); id != "" {
		return id
	}
	return fmt.Sprintf("upload-%d", time.Now().UnixNano())
}
