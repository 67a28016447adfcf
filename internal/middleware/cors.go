package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS echoes allowed origins back. Entries are exact origins or wildcard
// subdomain patterns such as https://*.example.app. An empty list allows none.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	var wildcards []originPattern
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if p, ok := parseOriginPattern(origin); ok {
			wildcards = append(wildcards, p)
			continue
		}
		originMap[origin] = struct{}{}
	}

	allowed := func(origin string) bool {
		if _, ok := originMap[origin]; ok {
			return true
		}
		for _, p := range wildcards {
			if p.match(origin) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			if allowed(origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			}
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type originPattern struct {
	scheme string
	suffix string
}

func parseOriginPattern(origin string) (originPattern, bool) {
	scheme, host, ok := strings.Cut(origin, "://")
	if !ok || !strings.HasPrefix(host, "*.") || len(host) < 3 {
		return originPattern{}, false
	}
	return originPattern{scheme: scheme, suffix: host[1:]}, true
}

// match accepts one or more subdomain labels in front of the suffix, never
// the bare domain.
func (p originPattern) match(origin string) bool {
	scheme, host, ok := strings.Cut(origin, "://")
	if !ok || scheme != p.scheme {
		return false
	}
	sub, found := strings.CutSuffix(host, p.suffix)
	return found && sub != "" && !strings.ContainsAny(sub, "/:")
}
