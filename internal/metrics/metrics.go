package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gogallery_http_requests_total",
		Help: "HTTP requests by method, path, and status.",
	}, []string{"method", "path", "status"})

	// CounterWriteFailures counts absorbed counter-store write failures,
	// labelled by operation (increment, overwrite). These never fail the
	// user-visible request, so the metric is the only place they surface
	// besides logs.
	CounterWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gogallery_counter_write_failures_total",
		Help: "Best-effort counter writes that failed and were absorbed.",
	}, []string{"op"})

	// ReconciliationPasses counts completed listing reconciliations.
	ReconciliationPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gogallery_reconciliation_passes_total",
		Help: "Listing-triggered counter reconciliation passes.",
	})

	// UploadedBytes accumulates bytes accepted by successful uploads.
	UploadedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gogallery_uploaded_bytes_total",
		Help: "Bytes accepted by successful uploads.",
	})
)

// Middleware counts requests per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}
