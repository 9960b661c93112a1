package session

import (
	"context"
	"time"
)

// ステージ（ペンディング画像・動画の現在の待ち状態）
const (
	StageAwaitConfirmOrText = "await_confirm_or_text"
	StageAwaitPoster        = "await_poster"
	StageAwaitText          = "await_text"
)

// 各状態の生存期間
const (
	PendingTTL  = 20 * time.Minute
	EditingTTL  = 30 * time.Minute
	NextTypeTTL = 30 * time.Minute
)

// Draft 生成済みの投稿ドラフト。確定コマンドまで保持する
type Draft struct {
	Type  string `json:"type"`
	Date  string `json:"date"`
	JA    string `json:"ja"`
	EN    string `json:"en"`
	BTNJA string `json:"btnja"`
	BTNEN string `json:"btnen"`
	URL   string `json:"url"`
}

// PendingImage 行き先未確定の受信画像
type PendingImage struct {
	ImageSrc   string `json:"image_src"`
	Stage      string `json:"stage"`
	ForcedType string `json:"forced_type,omitempty"`
	Draft      *Draft `json:"draft,omitempty"`
}

// PendingVideo ポスター画像待ちの受信動画
type PendingVideo struct {
	Stage          string `json:"stage"`
	VideoKey       string `json:"video_key"`
	PosterKey      string `json:"poster_key,omitempty"`
	VideoMessageID string `json:"video_message_id"`
}

// Editing 編集モード中の対象投稿
type Editing struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Store ユーザー単位の会話状態ストア
type Store interface {
	GetPendingImage(ctx context.Context, userID string) (*PendingImage, error)
	SetPendingImage(ctx context.Context, userID string, p *PendingImage) error
	ClearPendingImage(ctx context.Context, userID string) error

	GetPendingVideo(ctx context.Context, userID string) (*PendingVideo, error)
	SetPendingVideo(ctx context.Context, userID string, p *PendingVideo) error
	ClearPendingVideo(ctx context.Context, userID string) error

	GetEditing(ctx context.Context, userID string) (*Editing, error)
	SetEditing(ctx context.Context, userID string, e *Editing) error
	ClearEditing(ctx context.Context, userID string) error

	GetNextType(ctx context.Context, userID string) (string, error)
	SetNextType(ctx context.Context, userID string, postType string) error
	ClearNextType(ctx context.Context, userID string) error
}
