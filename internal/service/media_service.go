package service

import (
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"math/rand/v2"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/github"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/minio"
)

// 画像の保存先
const (
	StoredKindGitHub = "github"
	StoredKindMinIO  = "minio"
)

// StoredImage 受信画像の保存結果。Src は GitHub ファイル名か minio オブジェクトキー
type StoredImage struct {
	Kind string
	Src  string
}

// MediaService 受信メディアの保存。画像はサイズで GitHub / minio に振り分ける
type MediaService interface {
	StoreImage(ctx context.Context, userID, messageID string, data []byte, contentType string) (*StoredImage, error)
	StoreVideo(ctx context.Context, userID, messageID string, data []byte, contentType string) (string, error)
	StorePoster(ctx context.Context, userID, videoMessageID string, data []byte, contentType string) (string, error)
	Discard(ctx context.Context, keys ...string)
}

type MediaServiceImpl struct {
	uploader github.Uploader
}

func NewMediaService(uploader github.Uploader) MediaService {
	return &MediaServiceImpl{
		uploader: uploader,
	}
}

// StoreImage 小さい画像は GitHub（サイト直参照）、大きい画像は minio へ
func (s *MediaServiceImpl) StoreImage(ctx context.Context, userID, messageID string, data []byte, contentType string) (*StoredImage, error) {
	if int64(len(data)) > config.Cfg.Media.GitHubMaxBytes {
		key := minioKeyForImage(userID, messageID, extFromContentType(contentType))
		if _, err := minio.UploadObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return nil, err
		}
		return &StoredImage{Kind: StoredKindMinIO, Src: key}, nil
	}

	filename := githubImageFilename(messageID, extFromContentType(contentType))
	url, err := s.uploader.UploadImage(ctx, "images/"+filename, data)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "画像を GitHub へ保存", "filename", filename, "url", url)

	// サイト側はファイル名から既存ルールでパスを組み立てるため、URL ではなくファイル名を持つ
	return &StoredImage{Kind: StoredKindGitHub, Src: filename}, nil
}

func (s *MediaServiceImpl) StoreVideo(ctx context.Context, userID, messageID string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "video/mp4"
	}
	key := minioKeyForVideo(userID, messageID)
	if _, err := minio.UploadObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MediaServiceImpl) StorePoster(ctx context.Context, userID, videoMessageID string, data []byte, contentType string) (string, error) {
	key := minioKeyForPoster(userID, videoMessageID, extFromContentType(contentType))
	if _, err := minio.UploadObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Discard 参照されなくなった minio オブジェクトを消す。失敗はログに留める
func (s *MediaServiceImpl) Discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if !strings.HasPrefix(key, "media/") {
			continue
		}
		if err := minio.DeleteObject(ctx, key); err != nil {
			log.WarnContext(ctx, "不要メディアの削除に失敗", "key", key, "err", err)
		}
	}
}

func extFromContentType(ct string) string {
	s := strings.ToLower(ct)
	switch {
	case strings.Contains(s, "png"):
		return "png"
	case strings.Contains(s, "webp"):
		return "webp"
	case strings.Contains(s, "gif"):
		return "gif"
	}
	return "jpg"
}

// yearMonthJST 今日のJST年月 "YYYYMM"
func yearMonthJST() string {
	padded := command.TodayJST()
	return strings.ReplaceAll(padded[:7], ".", "")
}

func minioKeyForImage(userID, messageID, ext string) string {
	return fmt.Sprintf("media/image/%s/%s/%s.%s", yearMonthJST(), userID, messageID, ext)
}

func minioKeyForVideo(userID, messageID string) string {
	return fmt.Sprintf("media/video/%s/%s/%s.mp4", yearMonthJST(), userID, messageID)
}

func minioKeyForPoster(userID, videoMessageID, ext string) string {
	return fmt.Sprintf("media/poster/%s/%s/%s.%s", yearMonthJST(), userID, videoMessageID, ext)
}

func githubImageFilename(messageID, ext string) string {
	date := strings.ReplaceAll(command.TodayJST(), ".", "")
	return fmt.Sprintf("voice_%s_%s_%d.%s", date, messageID, rand.IntN(1000), ext)
}
