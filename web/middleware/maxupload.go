package middleware

import (
	"fmt"
	"net/http"

	"rx-vault/web/session"

	"github.com/gin-gonic/gin"
)

// MaxUploadSize rejects requests whose declared size exceeds the configured
// limit before the handler runs, and caps undeclared bodies with
// http.MaxBytesReader so a lying client cannot stream past the limit either.
func MaxUploadSize(maxBytes int64, maxMB int) gin.HandlerFunc {
	message := SizeLimitMessage(maxMB)
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			session.Flash(c, "error", message)
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// SizeLimitMessage returns the flash text used when an upload exceeds the
// configured maximum.
func SizeLimitMessage(maxMB int) string {
	return fmt.Sprintf("File too large. Maximum allowed size is %dMB.", maxMB)
}
