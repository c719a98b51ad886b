package logger

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationHeader carries the request correlation id across services.
const CorrelationHeader = "X-Correlation-ID"

const contextLoggerKey = "gogalleryLogger"

// Init builds the process-wide zap logger. The LOG_LEVEL environment variable
// selects the minimum level (debug, info, warn, error); production encoding
// is used unless LOG_FORMAT=console.
func Init() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(raw))); err == nil {
			level = parsed
		}
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}

// Middleware attaches a correlation id to every request, logs request
// completion, and stores a request-scoped logger in the gin context.
func Middleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Writer.Header().Set(CorrelationHeader, correlationID)

		reqLogger := base.With(
			zap.String("correlation_id", correlationID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set(contextLoggerKey, reqLogger)

		start := time.Now()
		c.Next()

		reqLogger.Info("request completed",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// FromContext returns the request-scoped logger, falling back to a no-op
// logger when the middleware did not run.
func FromContext(c *gin.Context) *zap.Logger {
	if value, exists := c.Get(contextLoggerKey); exists {
		if l, ok := value.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
