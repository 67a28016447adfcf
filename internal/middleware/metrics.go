package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"coursecatalog/api/internal/metrics"
)

// Metrics records every request against its route template so that ids in
// the path do not explode label cardinality.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
