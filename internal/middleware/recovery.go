package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coursecatalog/api/internal/apperr"
)

// Recovery turns a handler panic into a 500 with the generic server error
// body. If the handler already started writing, the response is left as is.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			log.Error().
				Str("panic", fmt.Sprint(r)).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Str("request_id", RequestIDFrom(c)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			cause := fmt.Errorf("panic: %v", r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, apperr.Internal(cause).Response())
		}()
		c.Next()
	}
}
