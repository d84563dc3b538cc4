package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/media"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
)

// multipartOverhead covers form fields and part headers on top of file bytes.
const multipartOverhead = 1 << 20

// UploadLimits caps the request body to what the gateway could accept so an
// oversized upload fails before it is buffered.
func UploadLimits(limits media.Limits) gin.HandlerFunc {
	maxFiles := int64(limits.MaxFiles)
	if maxFiles <= 0 {
		maxFiles = 1
	}
	maxBody := limits.MaxFileBytes*maxFiles + multipartOverhead

	return func(c *gin.Context) {
		if limits.MaxFileBytes > 0 && c.Request.Body != nil {
			if c.Request.ContentLength > maxBody {
				response.Abort(c, response.NewPayloadTooLarge("request body too large"))
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
		}
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from an UploadLimits cap.
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
