package llm

import (
	"context"
	log "log/slog"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/debuglog"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
)

// ErrProvider 生成AI呼び出しの失敗。HTTP層では 502 に写像される
var ErrProvider = errors.New("生成AIの応答が不正です")

// VisionDraft 画像からの自動読取結果。分類と下書きコピーを一度に持つ
type VisionDraft struct {
	Type       string  `json:"type"`
	HasEvent   bool    `json:"has_event_info"`
	Date       string  `json:"date"`
	JaHTML     string  `json:"ja_html"`
	EnHTML     string  `json:"en_html"`
	Confidence float64 `json:"confidence"`
}

// Classifier 受信画像の行き先判定と下書き生成
type Classifier interface {
	GenerateFromImage(ctx context.Context, imageDataURL string) (*VisionDraft, error)
}

type VisionClassifier struct {
	Model llms.Model
}

func NewClassifier() *VisionClassifier {
	return &VisionClassifier{Model: llmClient}
}

func (c *VisionClassifier) GenerateFromImage(ctx context.Context, imageDataURL string) (*VisionDraft, error) {
	resp, err := fetchModelByImage(ctx, c.Model, visionClassifyPrompt, imageDataURL, 0.1, true)
	if err != nil {
		log.WarnContext(ctx, "画像の自動読取に失敗", "err", err)
		debuglog.Append(ctx, consts.DebugScopeOpenAI, "vision generate failed: %v", err)
		return nil, errors.Wrapf(ErrProvider, "画像読取: %v", err)
	}

	var out VisionDraft
	if err = json.Unmarshal([]byte(stripJSONFence(firstChoice(resp))), &out); err != nil {
		log.WarnContext(ctx, "画像読取結果の解析に失敗", "err", err)
		debuglog.Append(ctx, consts.DebugScopeOpenAI, "vision parse failed: %v", err)
		return nil, errors.Wrapf(ErrProvider, "読取結果の解析: %v", err)
	}

	out.Type = strings.ToLower(strings.TrimSpace(out.Type))
	if !command.IsPostType(out.Type) {
		out.Type = command.TypeVoice
	}
	out.Date = command.NormalizeDateOrToday(out.Date)
	out.JaHTML = command.NL2BR(out.JaHTML)
	out.EnHTML = command.NL2BR(out.EnHTML)
	if out.EnHTML == "" {
		out.EnHTML = out.JaHTML
	}
	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 1 {
		out.Confidence = 1
	}

	return &out, nil
}
