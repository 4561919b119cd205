package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose body exceeds maxBytes. Requests without a
// Content-Length header are still capped through MaxBytesReader, which makes
// later reads fail once the limit is crossed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("ERR_REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
