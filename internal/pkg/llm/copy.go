package llm

import (
	"context"
	log "log/slog"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/debuglog"

	json "github.com/goccy/go-json"
	"github.com/tmc/langchaingo/llms"
)

// ボタンラベルの既定値
const (
	DefaultBtnJA = "詳細を見る"
	DefaultBtnEN = "View Details"
)

// Copy 日英の投稿文とボタンラベル
type Copy struct {
	JA    string `json:"ja"`
	EN    string `json:"en"`
	BTNJA string `json:"btnJa"`
	BTNEN string `json:"btnEn"`
}

// Generator 投稿コピーの生成器
type Generator interface {
	GenerateCopy(ctx context.Context, postType, content string) (*Copy, error)
}

// ModelGenerator 主モデルでの生成 → Gemini 翻訳の順で粘る生成器。
// 全滅しても原文をそのまま返す（生成失敗で投稿は止めない）。
type ModelGenerator struct {
	Primary    llms.Model
	Translator llms.Model
}

func NewGenerator() *ModelGenerator {
	return &ModelGenerator{
		Primary:    llmClient,
		Translator: geminiClient,
	}
}

func (g *ModelGenerator) GenerateCopy(ctx context.Context, postType, content string) (*Copy, error) {
	raw := strings.TrimSpace(content)

	c := &Copy{
		JA:    raw,
		BTNJA: DefaultBtnJA,
		BTNEN: DefaultBtnEN,
	}

	if config.Cfg.LLM.UseJSONSchema {
		g.generateSingleShot(ctx, postType, raw, c)
	} else {
		g.generateTwoStep(ctx, postType, raw, c)
	}

	g.ensureEnglish(ctx, c)
	return c, nil
}

type copyRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// generateSingleShot JSON 一発生成。失敗しても c は原文のまま生きている
func (g *ModelGenerator) generateSingleShot(ctx context.Context, postType, raw string, c *Copy) {
	reqJSON, err := json.Marshal(copyRequest{Type: postType, Content: raw})
	if err != nil {
		return
	}

	resp, err := fetchModel(ctx, g.Primary, config.Cfg.LLM.TextModel,
		copyPrompt, string(reqJSON), 0.3, true)
	if err != nil {
		log.WarnContext(ctx, "コピー一発生成に失敗", "err", err)
		debuglog.Append(ctx, consts.DebugScopeOpenAI, "copy single-shot failed: %v", err)
		return
	}

	var out Copy
	if err = json.Unmarshal([]byte(stripJSONFence(firstChoice(resp))), &out); err != nil {
		log.WarnContext(ctx, "コピー生成結果の解析に失敗", "err", err)
		debuglog.Append(ctx, consts.DebugScopeOpenAI, "copy parse failed: %v", err)
		return
	}

	if ja := strings.TrimSpace(out.JA); ja != "" {
		c.JA = ja
	}
	c.EN = strings.TrimSpace(out.EN)
	if btn := strings.TrimSpace(out.BTNJA); btn != "" {
		c.BTNJA = btn
	}
	if btn := strings.TrimSpace(out.BTNEN); btn != "" {
		c.BTNEN = btn
	}
}

// generateTwoStep 日本語整文 → 英訳の二段生成
func (g *ModelGenerator) generateTwoStep(ctx context.Context, postType, raw string, c *Copy) {
	resp, err := fetchModel(ctx, g.Primary, config.Cfg.LLM.TextModel,
		rewritePrompt, rewriteUserPrompt(postType, raw), 0.3, false)
	if err != nil {
		debuglog.Append(ctx, consts.DebugScopeOpenAI, "copy rewrite failed: %v", err)
	} else if ja := strings.TrimSpace(firstChoice(resp)); ja != "" {
		c.JA = ja
	}

	resp, err = fetchModel(ctx, g.Primary, config.Cfg.LLM.TextModel,
		translatePrompt, c.JA, 0.2, false)
	if err != nil {
		debuglog.Append(ctx, consts.DebugScopeOpenAI, "translate failed: %v", err)
		return
	}
	c.EN = strings.TrimSpace(firstChoice(resp))
}

func rewriteUserPrompt(postType, raw string) string {
	if postType == command.TypeNews {
		return "Input:\n" + raw + "\n\nTask: Rewrite as a short neutral news line (Japanese only)."
	}
	return "Input:\n" + raw + "\n\nTask: Rewrite as a concise voice post (Japanese only)."
}

// ensureEnglish 英文が空・短すぎ・日本語まじりなら Gemini で取り直す。
// それでもダメなら日本語文をそのまま使う
func (g *ModelGenerator) ensureEnglish(ctx context.Context, c *Copy) {
	if badEnglish(c.EN) && g.Translator != nil {
		resp, err := fetchModel(ctx, g.Translator, config.Cfg.Gemini.Model,
			translatePrompt, c.JA, 0.2, false)
		if err != nil {
			log.WarnContext(ctx, "Gemini 翻訳にも失敗", "err", err)
			debuglog.Append(ctx, consts.DebugScopeGemini, "translate failed: %v", err)
		} else if en := strings.TrimSpace(firstChoice(resp)); en != "" {
			c.EN = en
		}
	}
	if c.EN == "" {
		c.EN = c.JA
	}
}

func badEnglish(en string) bool {
	return en == "" || len(en) < 4 || command.LooksJapanese(en)
}
