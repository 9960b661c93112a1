package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/response"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenAuthMiddleware 専用ヘッダか Bearer での単純トークン認証。
// expected が空（未設定）のときは常に拒否する。
func TokenAuthMiddleware(header string, expected func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		want := strings.TrimSpace(expected())
		if want == "" {
			response.Error(c, service.ErrTokenInvalid)
			c.Abort()
			return
		}

		got := strings.TrimSpace(c.GetHeader(header))
		if got == "" {
			auth := c.GetHeader("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				got = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}

		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			response.Error(c, service.ErrTokenInvalid)
			c.Abort()
			return
		}

		c.Next()
	}
}
