package api

import (
	"net/http"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/middleware"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// version /health で返すアプリバージョン
const version = "1.0.0"

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Code":    200,
			"Message": "ok",
			"Data":    gin.H{"version": version},
		})
	})

	// LINE Webhook は署名検証のみ（トークン認証なし）
	webhookGroup := r.Group("/line-webhook")
	webhookGroup.Use(middleware.LineSignatureMiddleware())
	{
		webhookGroup.POST("", group.WebhookHandler.Receive)
	}

	// サイト側が読む公開エンドポイント
	r.GET("/posts", group.PostHandler.List)
	r.GET("/media/*key", group.MediaHandler.Serve)

	apiGroup := r.Group("/api")
	{
		// 旧サイト互換の /api/news 等
		apiGroup.GET("/:type", group.PostHandler.ListByPathType)
	}

	importGroup := r.Group("/import")
	importGroup.Use(middleware.TokenAuthMiddleware("x-import-token", func() string {
		return config.Cfg.Import.Token
	}))
	{
		importGroup.GET("", group.ImportHandler.Run)
		importGroup.POST("", group.ImportHandler.Run)
	}

	debugGroup := r.Group("/debug-last")
	debugGroup.Use(middleware.TokenAuthMiddleware("x-debug-token", func() string {
		return config.Cfg.Debug.Token
	}))
	{
		debugGroup.GET("", group.DebugHandler.LastLogs)
	}

	return r
}
