package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursecatalog/api/internal/apperr"
	"coursecatalog/api/internal/security"
)

const msgNotAuthorized = "Not authorized"

type TokenVerifier interface {
	Verify(token string) (security.Identity, error)
}

// Auth rejects requests without a valid bearer token. The verified identity
// is not forwarded; handlers behind it act the same for every student.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c)
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenStr == "" {
			abortUnauthenticated(c)
			return
		}

		if _, err := verifier.Verify(tokenStr); err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.Unauthenticated(msgNotAuthorized).Response())
}
