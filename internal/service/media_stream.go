package service

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/minio"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// MediaChunk 配信する実体。Partial のとき Start/End は 206 の範囲
type MediaChunk struct {
	Reader      io.ReadCloser
	ContentType string
	Total       int64
	Start       int64
	End         int64
	Partial     bool
}

// MediaStreamService minio に置いた動画・大型画像の配信。
// 動画シークのための Range 指定に対応する
type MediaStreamService interface {
	Fetch(ctx context.Context, key, rangeHeader string) (*MediaChunk, error)
}

type MediaStreamServiceImpl struct{}

func NewMediaStreamService() MediaStreamService {
	return &MediaStreamServiceImpl{}
}

var bytesRangeRe = regexp.MustCompile(`^bytes=(\d*)-(\d*)$`)

func (s *MediaStreamServiceImpl) Fetch(ctx context.Context, key, rangeHeader string) (*MediaChunk, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return nil, ErrMediaKeyMissing
	}
	// 配信対象は取り込み時に media/ 配下へ置いたものだけ
	if !strings.HasPrefix(key, "media/") {
		return nil, ErrMediaNotFound
	}

	info, err := minio.StatObject(ctx, key)
	if err != nil {
		if miniogo.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrMediaNotFound
		}
		return nil, errors.Wrap(err, "メディアのメタ情報取得に失敗")
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	chunk := &MediaChunk{
		ContentType: contentType,
		Total:       info.Size,
		Start:       0,
		End:         info.Size - 1,
	}

	if rangeHeader != "" {
		start, end, err := resolveRange(rangeHeader, info.Size)
		if err != nil {
			return nil, err
		}
		chunk.Start = start
		chunk.End = end
		chunk.Partial = true
	}

	var obj io.ReadCloser
	if chunk.Partial {
		obj, err = minio.GetObject(ctx, key, chunk.Start, chunk.End)
	} else {
		obj, err = minio.GetObject(ctx, key, 0, -1)
	}
	if err != nil {
		return nil, errors.Wrap(err, "メディアの取得に失敗")
	}
	chunk.Reader = obj
	return chunk, nil
}

// resolveRange "bytes=a-b" / "bytes=a-" / "bytes=-b" を実範囲へ解決する
func resolveRange(header string, total int64) (int64, int64, error) {
	m := bytesRangeRe.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, 0, ErrRangeInvalid
	}

	// bytes=-b は末尾 b バイト
	if m[1] == "" {
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, ErrRangeInvalid
		}
		start := total - n
		if start < 0 {
			start = 0
		}
		return start, total - 1, nil
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || start >= total {
		return 0, 0, ErrRangeInvalid
	}

	end := total - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil || end < start {
			return 0, 0, ErrRangeInvalid
		}
		if end > total-1 {
			end = total - 1
		}
	}
	return start, end, nil
}
