package handler

import (
	"strconv"

	"github.com/BloggingApp/blog-console/internal/metrics"
	"github.com/gin-gonic/gin"
)

func metricsMiddleware(c *gin.Context) {
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
}
