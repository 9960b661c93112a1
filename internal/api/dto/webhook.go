package dto

// WebhookPayload LINE Messaging API の Webhook ボディ
type WebhookPayload struct {
	Destination string          `json:"destination"`
	Events      []*WebhookEvent `json:"events"`
}

// WebhookEvent 1イベント。message 以外（follow 等）は無視する
type WebhookEvent struct {
	Type       string         `json:"type"`
	ReplyToken string         `json:"replyToken"`
	Source     WebhookSource  `json:"source"`
	Message    WebhookMessage `json:"message"`
}

type WebhookSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// WebhookMessage text / image / video のみ扱う
type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}
