package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders stops browsers from sniffing or framing returned images.
func SecurityHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("X-Content-Type-Options", "nosniff")
		ctx.Header("X-Frame-Options", "DENY")
		ctx.Header("Content-Security-Policy", "default-src 'none'")
		ctx.Header("Cache-Control", "no-store")
		ctx.Next()
	}
}
