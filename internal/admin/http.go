package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts admin endpoints under the provided (admin-guarded)
// router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/usage", handler.globalUsage)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) globalUsage(c *gin.Context) {
	report, err := h.service.GlobalUsage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate usage"})
		return
	}
	c.JSON(http.StatusOK, report)
}
