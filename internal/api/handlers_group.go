package api

import "github.com/haruhisa-hosei/hosei-content-api/internal/api/handler"

// HandlersGroup 初期化済みの全 Handler をまとめて持つ
type HandlersGroup struct {
	WebhookHandler *handler.WebhookHandler
	PostHandler    *handler.PostHandler
	MediaHandler   *handler.MediaHandler
	ImportHandler  *handler.ImportHandler
	DebugHandler   *handler.DebugHandler
}
