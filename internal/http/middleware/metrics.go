package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

func Metrics(observer HTTPObserver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveHTTP(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
