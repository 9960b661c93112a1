package session

import (
	"context"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/redis"

	json "github.com/goccy/go-json"
)

type redisStore struct{}

// NewRedisStore redis ベースの会話状態ストアを返す
func NewRedisStore() Store {
	return &redisStore{}
}

func (s *redisStore) GetPendingImage(ctx context.Context, userID string) (*PendingImage, error) {
	var p PendingImage
	ok, err := getJSON(ctx, consts.PendingImageKey+userID, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *redisStore) SetPendingImage(ctx context.Context, userID string, p *PendingImage) error {
	return setJSON(ctx, consts.PendingImageKey+userID, p, PendingTTL)
}

func (s *redisStore) ClearPendingImage(ctx context.Context, userID string) error {
	return redis.DeleteKey(ctx, consts.PendingImageKey+userID)
}

func (s *redisStore) GetPendingVideo(ctx context.Context, userID string) (*PendingVideo, error) {
	var p PendingVideo
	ok, err := getJSON(ctx, consts.PendingVideoKey+userID, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *redisStore) SetPendingVideo(ctx context.Context, userID string, p *PendingVideo) error {
	return setJSON(ctx, consts.PendingVideoKey+userID, p, PendingTTL)
}

func (s *redisStore) ClearPendingVideo(ctx context.Context, userID string) error {
	return redis.DeleteKey(ctx, consts.PendingVideoKey+userID)
}

func (s *redisStore) GetEditing(ctx context.Context, userID string) (*Editing, error) {
	var e Editing
	ok, err := getJSON(ctx, consts.EditingKey+userID, &e)
	if err != nil || !ok {
		return nil, err
	}
	return &e, nil
}

func (s *redisStore) SetEditing(ctx context.Context, userID string, e *Editing) error {
	return setJSON(ctx, consts.EditingKey+userID, e, EditingTTL)
}

func (s *redisStore) ClearEditing(ctx context.Context, userID string) error {
	return redis.DeleteKey(ctx, consts.EditingKey+userID)
}

func (s *redisStore) GetNextType(ctx context.Context, userID string) (string, error) {
	return redis.GetValue(ctx, consts.NextTypeKey+userID)
}

func (s *redisStore) SetNextType(ctx context.Context, userID string, postType string) error {
	return redis.SetWithExpiration(ctx, consts.NextTypeKey+userID, postType, NextTypeTTL)
}

func (s *redisStore) ClearNextType(ctx context.Context, userID string) error {
	return redis.DeleteKey(ctx, consts.NextTypeKey+userID)
}

func getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := redis.GetValue(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err = json.Unmarshal([]byte(raw), out); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, key, raw, ttl)
}
