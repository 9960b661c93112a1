package llm

import (
	"context"
	log "log/slog"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

// geminiClient 翻訳フォールバック用。APIキー未設定なら nil のまま
var geminiClient llms.Model

var copyPrompt string
var rewritePrompt string
var translatePrompt string
var visionClassifyPrompt string

func InitLLM() error {
	cfg := config.Cfg.LLM

	llm, err := openai.New(
		openai.WithModel(cfg.TextModel),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)

	if err != nil {
		log.Error("AIモデルの初期化に失敗", "err", err)
		return err
	}

	llmClient = llm

	if gcfg := config.Cfg.Gemini; gcfg.ApiKey != "" {
		gem, err := googleai.New(context.Background(),
			googleai.WithAPIKey(gcfg.ApiKey),
			googleai.WithDefaultModel(gcfg.Model),
		)
		if err != nil {
			// 翻訳フォールバックが無いだけなので起動は続ける
			log.Warn("Gemini クライアントの初期化に失敗", "err", err)
		} else {
			geminiClient = gem
		}
	}

	// prompt はテキストファイルから読む
	copyPrompt = readPrompt("./prompts/copy.txt")
	rewritePrompt = readPrompt("./prompts/rewrite.txt")
	translatePrompt = readPrompt("./prompts/translate.txt")
	visionClassifyPrompt = readPrompt("./prompts/vision-classify.txt")

	return nil
}
