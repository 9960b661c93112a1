package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/minio"
	"github.com/haruhisa-hosei/hosei-content-api/internal/repository"

	"github.com/jinzhu/copier"
)

type PostService interface {
	List(ctx context.Context, q *dto.ListPostsDTO) ([]*dto.PostDTO, error)
}

type PostServiceImpl struct {
	postRepo repository.PostRepo
}

func NewPostService(postRepo repository.PostRepo) PostService {
	return &PostServiceImpl{
		postRepo: postRepo,
	}
}

func (s *PostServiceImpl) List(ctx context.Context, q *dto.ListPostsDTO) ([]*dto.PostDTO, error) {
	postType := strings.ToLower(strings.TrimSpace(q.Type))
	if postType == "" {
		postType = command.TypeNews
	}
	if !command.IsPostType(postType) {
		return nil, ErrInvalidType
	}

	onlyEnabled := q.OnlyEnabled != "0"
	limit := clampInt(q.Limit, 20, 1, 500)
	offset := clampInt(q.Offset, 0, 0, 1_000_000)

	posts, err := s.postRepo.List(ctx, postType, onlyEnabled, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		d := &dto.PostDTO{}
		if err = copier.Copy(d, p); err != nil {
			return nil, err
		}
		d.CreatedAt = p.CreatedAt.Format(time.RFC3339)
		d.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)

		d.ImageSrc = NormalizeSrcForOutput(p.ImageSrc)
		d.MediaSrc = NormalizeSrcForOutput(p.MediaSrc)
		d.PosterSrc = NormalizeSrcForOutput(p.PosterSrc)

		out = append(out, d)
	}
	return out, nil
}

// NormalizeSrcForOutput 保存形式のままの src を配信可能な形へ。
// URL はそのまま、minio キーは公開ベースか /media/ 経由、
// GitHub ファイル名はフロント側の既存ルールに任せてそのまま返す
func NormalizeSrcForOutput(src string) string {
	s := strings.TrimSpace(src)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if strings.HasPrefix(s, "media/") {
		if strings.TrimSpace(config.Cfg.MinIO.PublicBase) != "" {
			return minio.PublicURL(s)
		}
		return "/media/" + url.PathEscape(s)
	}
	return s
}

func clampInt(v, def, min, max int) int {
	if v == 0 {
		v = def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
