package handler

import (
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"net/url"

	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	streamSvc service.MediaStreamService
}

func NewMediaHandler(streamSvc service.MediaStreamService) *MediaHandler {
	return &MediaHandler{
		streamSvc: streamSvc,
	}
}

// Serve GET /media/*key minio 上のオブジェクトをそのまま流す。
// 動画プレーヤーのシークのため Range と 206 に対応する
func (s *MediaHandler) Serve(c *gin.Context) {
	key := c.Param("key")
	if decoded, err := url.PathUnescape(key); err == nil {
		key = decoded
	}

	chunk, err := s.streamSvc.Fetch(c.Request.Context(), key, c.GetHeader("Range"))
	if err != nil {
		// プレーヤー相手なので JSON 封装ではなく素の HTTP ステータスで返す
		switch {
		case errors.Is(err, service.ErrMediaNotFound), errors.Is(err, service.ErrMediaKeyMissing):
			c.Status(http.StatusNotFound)
		case errors.Is(err, service.ErrRangeInvalid):
			c.Status(http.StatusRequestedRangeNotSatisfiable)
		default:
			log.ErrorContext(c.Request.Context(), "メディア配信に失敗", "err", err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	defer func() {
		if cerr := chunk.Reader.Close(); cerr != nil {
			log.WarnContext(c.Request.Context(), "メディアのクローズに失敗", "err", cerr)
		}
	}()

	c.Header("Accept-Ranges", "bytes")
	// 保存キーは内容に対して不変なので長期キャッシュでよい
	c.Header("Cache-Control", "public, max-age=31536000, immutable")

	if chunk.Partial {
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", chunk.Start, chunk.End, chunk.Total))
		c.DataFromReader(http.StatusPartialContent, chunk.End-chunk.Start+1, chunk.ContentType, chunk.Reader, nil)
		return
	}

	c.DataFromReader(http.StatusOK, chunk.Total, chunk.ContentType, chunk.Reader, nil)
}
