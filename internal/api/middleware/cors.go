package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware サイト側（別オリジン）からの /posts 取得を許可する
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		origin := c.Request.Header.Get("Origin")

		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, Range, X-Trace-Id, x-debug-token, x-import-token")
			c.Header("Access-Control-Allow-Expose-Headers", "Content-Length, Content-Range, Accept-Ranges, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		// ブラウザの OPTIONS プリフライト
		if method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
