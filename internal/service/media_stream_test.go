package service

import (
	"testing"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name   string
		header string
		total  int64
		start  int64
		end    int64
	}{
		{"両端指定", "bytes=0-499", 1000, 0, 499},
		{"開始のみ", "bytes=500-", 1000, 500, 999},
		{"末尾バイト数", "bytes=-200", 1000, 800, 999},
		{"末尾指定がサイズ超過", "bytes=-5000", 1000, 0, 999},
		{"終端がサイズ超過なら丸める", "bytes=900-5000", 1000, 900, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := resolveRange(tt.header, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestResolveRangeInvalid(t *testing.T) {
	for _, header := range []string{
		"bytes=-",
		"bytes=abc-",
		"items=0-10",
		"bytes=1000-",
		"bytes=500-100",
	} {
		_, _, err := resolveRange(header, 1000)
		assert.ErrorIs(t, err, ErrRangeInvalid, header)
	}
}

func TestNormalizeSrcForOutput(t *testing.T) {
	tests := []struct {
		name string
		base string
		in   string
		out  string
	}{
		{"URLはそのまま", "", "https://raw.githubusercontent.com/x/y.jpg", "https://raw.githubusercontent.com/x/y.jpg"},
		{"minioキーは公開ベースへ", "https://cdn.example.com", "media/video/202608/u/m.mp4", "https://cdn.example.com/media/video/202608/u/m.mp4"},
		{"公開ベース無しは自前配信", "", "media/video/202608/u/m.mp4", "/media/" + "media%2Fvideo%2F202608%2Fu%2Fm.mp4"},
		{"GitHubファイル名はそのまま", "", "voice_20260828_m_1.jpg", "voice_20260828_m_1.jpg"},
		{"空は空", "", "", ""},
	}
	if config.Cfg == nil {
		config.Cfg = &config.Config{}
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := config.Cfg.MinIO.PublicBase
			config.Cfg.MinIO.PublicBase = tt.base
			t.Cleanup(func() { config.Cfg.MinIO.PublicBase = old })

			assert.Equal(t, tt.out, NormalizeSrcForOutput(tt.in))
		})
	}
}
