package llm

import (
	"context"
	"errors"
	log "log/slog"
	"os"
	"strings"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"

	"github.com/tmc/langchaingo/llms"
)

func readPrompt(file string) string {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Error("promptファイルの読み込みに失敗", "err", err)
		return ""
	}
	return string(data)
}

func requestTimeout() time.Duration {
	secs := config.Cfg.LLM.TimeoutSeconds
	if secs <= 0 {
		secs = 12
	}
	return time.Duration(secs) * time.Second
}

func fetchModel(ctx context.Context, model llms.Model, modelName, systemPrompt, userPrompt string, temp float64, jsonMode bool) (*llms.ContentResponse, error) {
	if model == nil {
		return nil, errors.New("llm client is not initialized")
	}
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer TextSem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout())
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	opts := []llms.CallOption{
		llms.WithModel(modelName),
		llms.WithTemperature(temp),
	}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	log.InfoContext(ctx, "AIモデルへリクエスト", "model", modelName)
	return model.GenerateContent(ctx, messages, opts...)
}

func fetchModelByImage(ctx context.Context, model llms.Model, systemPrompt, imageURL string, temp float64, jsonMode bool) (*llms.ContentResponse, error) {
	if model == nil {
		return nil, errors.New("llm client is not initialized")
	}
	if err := ImageSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer ImageSem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout())
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.ImageURLPart(imageURL),
			},
		},
	}

	opts := []llms.CallOption{
		llms.WithModel(config.Cfg.LLM.VisionModel),
		llms.WithTemperature(temp),
	}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	log.InfoContext(ctx, "AIモデルへリクエスト", "model", config.Cfg.LLM.VisionModel)
	return model.GenerateContent(ctx, messages, opts...)
}

// firstChoice 先頭 choice の本文。無ければ空文字
func firstChoice(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Content
}

// stripJSONFence ```json フェンスを剥がす
func stripJSONFence(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
