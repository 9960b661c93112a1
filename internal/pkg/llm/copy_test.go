package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	out string
	err error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.out}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.out, f.err
}

func setupTestConfig(useJSONSchema bool) {
	config.Cfg = &config.Config{}
	config.Cfg.LLM.TextModel = "test-model"
	config.Cfg.LLM.VisionModel = "test-vision"
	config.Cfg.LLM.UseJSONSchema = useJSONSchema
	config.Cfg.LLM.TimeoutSeconds = 5
	config.Cfg.Gemini.Model = "test-gemini"
}

func TestGenerateCopySingleShot(t *testing.T) {
	setupTestConfig(true)

	g := &ModelGenerator{
		Primary: &fakeModel{out: "```json\n{\"ja\":\"夏の公演のお知らせ\",\"en\":\"Summer performance announcement\",\"btnJa\":\"チケット\",\"btnEn\":\"Tickets\"}\n```"},
	}

	c, err := g.GenerateCopy(context.Background(), "news", "夏の公演 7/20")
	require.NoError(t, err)
	assert.Equal(t, "夏の公演のお知らせ", c.JA)
	assert.Equal(t, "Summer performance announcement", c.EN)
	assert.Equal(t, "チケット", c.BTNJA)
	assert.Equal(t, "Tickets", c.BTNEN)
}

func TestGenerateCopyFallbackToTranslator(t *testing.T) {
	setupTestConfig(true)

	// 主モデル全滅でも Gemini 翻訳が通れば EN は埋まる
	g := &ModelGenerator{
		Primary:    &fakeModel{err: errors.New("upstream 500")},
		Translator: &fakeModel{out: "Announcement of the summer performance"},
	}

	c, err := g.GenerateCopy(context.Background(), "news", "夏の公演のお知らせ")
	require.NoError(t, err)
	assert.Equal(t, "夏の公演のお知らせ", c.JA)
	assert.Equal(t, "Announcement of the summer performance", c.EN)
	assert.Equal(t, DefaultBtnJA, c.BTNJA)
	assert.Equal(t, DefaultBtnEN, c.BTNEN)
}

func TestGenerateCopyAllFailed(t *testing.T) {
	setupTestConfig(false)

	// 翻訳まで全滅なら EN は JA を流用する
	g := &ModelGenerator{
		Primary:    &fakeModel{err: errors.New("upstream 500")},
		Translator: &fakeModel{err: errors.New("quota exceeded")},
	}

	c, err := g.GenerateCopy(context.Background(), "voice", "今日はいい天気")
	require.NoError(t, err)
	assert.Equal(t, "今日はいい天気", c.JA)
	assert.Equal(t, "今日はいい天気", c.EN)
}

func TestGenerateFromImage(t *testing.T) {
	setupTestConfig(true)

	c := &VisionClassifier{Model: &fakeModel{
		out: `{"type":"NEWS","has_event_info":true,"date":"2026.09.01","ja_html":"秋の公演","en_html":"Autumn performance","confidence":1.4}`,
	}}

	draft, err := c.GenerateFromImage(context.Background(), "data:image/jpeg;base64,xxxx")
	require.NoError(t, err)
	assert.Equal(t, "news", draft.Type)
	assert.True(t, draft.HasEvent)
	assert.Equal(t, "2026.09.01", draft.Date)
	assert.Equal(t, "秋の公演", draft.JaHTML)
	assert.InDelta(t, 1.0, draft.Confidence, 0.0001)
}

func TestGenerateFromImageUnknownType(t *testing.T) {
	setupTestConfig(true)

	c := &VisionClassifier{Model: &fakeModel{
		out: `{"type":"poster","confidence":0.95,"ja_html":"なにかの画像"}`,
	}}

	draft, err := c.GenerateFromImage(context.Background(), "data:image/jpeg;base64,xxxx")
	require.NoError(t, err)
	assert.Equal(t, "voice", draft.Type)
	// en が空なら ja を流用する
	assert.Equal(t, draft.JaHTML, draft.EnHTML)
}

func TestGenerateFromImageProviderError(t *testing.T) {
	setupTestConfig(true)

	// 生成失敗も応答の解析失敗も ErrProvider に寄せる
	c := &VisionClassifier{Model: &fakeModel{err: errors.New("upstream 500")}}
	_, err := c.GenerateFromImage(context.Background(), "data:image/jpeg;base64,xxxx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvider))

	c = &VisionClassifier{Model: &fakeModel{out: "これはJSONではありません"}}
	_, err = c.GenerateFromImage(context.Background(), "data:image/jpeg;base64,xxxx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvider))
}
