package middleware

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidateContentType only lets multipart/form-data uploads through.
func ValidateContentType() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		mediaType, params, err := mime.ParseMediaType(ctx.GetHeader("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
			ctx.AbortWithStatus(http.StatusBadRequest)
			return
		}
		ctx.Next()
	}
}
