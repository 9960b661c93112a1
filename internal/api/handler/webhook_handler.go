package handler

import (
	"context"
	log "log/slog"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/response"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	ingestSvc service.IngestService
}

func NewWebhookHandler(ingestSvc service.IngestService) *WebhookHandler {
	return &WebhookHandler{
		ingestSvc: ingestSvc,
	}
}

// Receive LINE プラットフォームからの Webhook。
// 再送を避けるため、本文が読めても読めなくても 200 を返す。
// 既定では応答後に非同期で処理する（sync_processing で同期に切替可）。
func (s *WebhookHandler) Receive(c *gin.Context) {
	var payload dto.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.WarnContext(c.Request.Context(), "Webhook ボディの解析に失敗", "err", err)
		response.Success(c, "OK")
		return
	}

	if config.Cfg.Server.SyncProcessing {
		s.ingestSvc.ProcessWebhook(c.Request.Context(), &payload)
		response.Success(c, "OK")
		return
	}

	// 応答を先に返し、処理はリクエストのキャンセルと切り離して続ける
	bg := context.WithoutCancel(c.Request.Context())
	go s.ingestSvc.ProcessWebhook(bg, &payload)

	response.Success(c, "OK")
}
