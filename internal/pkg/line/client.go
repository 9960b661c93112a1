package line

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/debuglog"

	"github.com/go-resty/resty/v2"
)

const (
	apiBase     = "https://api.line.me"
	apiDataBase = "https://api-data.line.me"
)

// Message LINE Messaging API のメッセージオブジェクト（text のみ使う）
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textMessages(texts []string) []Message {
	msgs := make([]Message, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		msgs = append(msgs, Message{Type: "text", Text: t})
	}
	return msgs
}

// Messenger 管理者への返信とメッセージ素材の取得
type Messenger interface {
	ReplyText(ctx context.Context, replyToken string, texts ...string) error
	PushText(ctx context.Context, to string, texts ...string) error
	// ReplyOrPush reply を試し、トークン失効なら push に切り替える。失敗しても握り潰す
	ReplyOrPush(ctx context.Context, replyToken, to string, texts ...string)
	FetchContent(ctx context.Context, messageID string) ([]byte, string, error)
}

type Client struct {
	http *resty.Client
}

func NewClient() *Client {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetAuthToken(config.Cfg.Line.ChannelAccessToken)

	return &Client{http: client}
}

func (c *Client) ReplyText(ctx context.Context, replyToken string, texts ...string) error {
	msgs := textMessages(texts)
	if len(msgs) == 0 {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"replyToken": replyToken,
			"messages":   msgs,
		}).
		Post(apiBase + "/v2/bot/message/reply")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("line reply failed: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (c *Client) PushText(ctx context.Context, to string, texts ...string) error {
	msgs := textMessages(texts)
	if len(msgs) == 0 || to == "" {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"to":       to,
			"messages": msgs,
		}).
		Post(apiBase + "/v2/bot/message/push")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("line push failed: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ReplyOrPush 遅延処理では replyToken が切れていることがあるので push へ落とす
func (c *Client) ReplyOrPush(ctx context.Context, replyToken, to string, texts ...string) {
	if replyToken != "" {
		if err := c.ReplyText(ctx, replyToken, texts...); err == nil {
			return
		} else {
			log.WarnContext(ctx, "LINE reply に失敗、push へフォールバック", "err", err)
			debuglog.Append(ctx, consts.DebugScopeLine, "reply failed, fallback to push: %v", err)
		}
	}

	if err := c.PushText(ctx, to, texts...); err != nil {
		log.ErrorContext(ctx, "LINE push にも失敗", "err", err)
		debuglog.Append(ctx, consts.DebugScopeLine, "push failed: %v", err)
	}
}

// FetchContent 画像・動画などのメッセージ素材をダウンロードする
func (c *Client) FetchContent(ctx context.Context, messageID string) ([]byte, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/v2/bot/message/%s/content", apiDataBase, messageID))
	if err != nil {
		return nil, "", err
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("line content fetch failed: status=%d", resp.StatusCode())
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}
