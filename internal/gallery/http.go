package gallery

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/almas-d/gogallery/internal/auth"
	"github.com/almas-d/gogallery/internal/namespace"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts gallery operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/files", handler.listFiles)
	group.POST("/files", handler.uploadFile)
	group.GET("/files/usage", handler.usage)
	group.DELETE("/files/*objectKey", handler.deleteFile)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	accountID, _, ok := auth.RequireAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file payload"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	object, err := h.service.Upload(c.Request.Context(), accountID, Upload{
		Name:        fileHeader.Filename,
		SizeBytes:   fileHeader.Size,
		ContentType: contentType,
		Reader:      file,
	}, nil)
	if err != nil {
		switch {
		case errors.Is(err, ErrObjectTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		case errors.Is(err, ErrQuotaExceeded):
			c.JSON(http.StatusBadRequest, gin.H{"error": "storage quota exceeded"})
		case errors.Is(err, ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusCreated, object)
}

func (h *httpHandler) listFiles(c *gin.Context) {
	accountID, _, ok := auth.RequireAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.service.List(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": list})
}

func (h *httpHandler) usage(c *gin.Context) {
	accountID, _, ok := auth.RequireAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	report, err := h.service.Usage(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read usage"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *httpHandler) deleteFile(c *gin.Context) {
	accountID, _, ok := auth.RequireAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	objectKey := strings.TrimPrefix(c.Param("objectKey"), "/")

	var knownSize int64
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size parameter"})
			return
		}
		knownSize = parsed
	}

	if err := h.service.Delete(c.Request.Context(), accountID, objectKey, knownSize); err != nil {
		switch {
		case errors.Is(err, namespace.ErrInvalidKeyFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object key"})
		case errors.Is(err, ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
