package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/response"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
)

// LineSignatureMiddleware LINE Webhook の署名検証。
// チャネルシークレットによる生ボディの HMAC-SHA256 と
// x-line-signature ヘッダを突き合わせる。
// ボディは後段のバインドのために詰め直す。
func LineSignatureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := config.Cfg.Line.ChannelSecret
		if secret == "" {
			response.Error(c, service.ErrBadSignature)
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(c.GetHeader("x-line-signature"))) {
			response.Error(c, service.ErrBadSignature)
			c.Abort()
			return
		}

		c.Next()
	}
}
