package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/policyhub/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	rateLimitReasonRate         = "rate"
	rateLimitReasonExportActive = "export-in-progress"
)

// CatalogRateLimit applies the per client token bucket. Redis failures
// surface as 503 rather than letting traffic through unmetered.
func (s *Server) CatalogRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)

		res, err := s.limiter.Allow(ctx, endpoint, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("catalog rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			s.denyRateLimit(c, endpoint, rateLimitReasonRate)
			return
		}
		c.Next()
	}
}

// ExportLock allows a single export per client at a time.
func (s *Server) ExportLock() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		clientKey := c.ClientIP()

		token, ok, err := s.limiter.TryLockExport(ctx, clientKey)
		if err != nil {
			logger.FromContext(ctx).Warn("export lock failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !ok {
			c.Header("Retry-After", "1")
			s.denyRateLimit(c, normalizeRateLimitEndpoint(c), rateLimitReasonExportActive)
			return
		}
		defer func() {
			if err := s.limiter.ReleaseExport(ctx, clientKey, token); err != nil {
				logger.FromContext(ctx).Warn("export unlock failed", zap.Error(err))
			}
		}()

		c.Next()
	}
}

func (s *Server) denyRateLimit(c *gin.Context, endpoint, reason string) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("catalog rate limit exceeded",
		zap.String("reason", reason),
		zap.String("endpoint", endpoint),
	)
	s.obsMetrics.RecordRateLimitDenied(ctx, endpoint)

	c.Header("X-Rate-Limited-Reason", reason)
	AbortWithError(c, ErrRateLimited)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
