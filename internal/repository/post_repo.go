package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/model"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/command"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepo interface {
	Upsert(ctx context.Context, post *model.Post) (int64, error)
	InsertIgnore(ctx context.Context, post *model.Post) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (bool, error)
	Disable(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context, postType string, onlyEnabled bool, limit, offset int) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// upsertColumns legacy_key 衝突時に上書きするカラム
var upsertColumns = []string{
	"type", "date", "ja_html", "en_html",
	"ja_link_text", "ja_link_href", "en_link_text", "en_link_href",
	"image_src", "image_kind", "enabled", "view_date",
	"media_type", "media_src", "poster_src", "updated_at",
}

// Upsert legacy_key で冪等に書き込み、確定した ID を返す
func (s PostRepoImpl) Upsert(ctx context.Context, post *model.Post) (int64, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "legacy_key"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(post).Error
	if err != nil {
		return 0, err
	}

	// 衝突更新時は ID が埋まらないことがあるので legacy_key で引き直す
	if post.ID == 0 {
		var saved model.Post
		if err = s.db.WithContext(ctx).
			Select("id").
			Where("legacy_key = ?", post.LegacyKey).
			First(&saved).Error; err != nil {
			return 0, err
		}
		post.ID = saved.ID
	}
	return post.ID, nil
}

// InsertIgnore legacy_key が既にあれば何もしない。挿入したかどうかを返す
func (s PostRepoImpl) InsertIgnore(ctx context.Context, post *model.Post) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "legacy_key"}},
		DoNothing: true,
	}).Create(post)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s PostRepoImpl) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateFields 指定カラムだけを更新する。対象行が無ければ false
func (s PostRepoImpl) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Disable ソフト削除。enabled='FALSE' に倒し、変化した行数を返す
func (s PostRepoImpl) Disable(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id IN ? AND enabled <> ?", ids, consts.EnabledFalse).
		Update("enabled", consts.EnabledFalse)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// dateKeyExpr 日付文字列から区切りを落とした比較用キー
const dateKeyExpr = "REPLACE(REPLACE(REPLACE(REPLACE(date,'.',''),'/',''),' ',''),':','')"

// List 種別ごとの掲載順で一覧を返す。
// voice は投稿順、news / archive は日付の新しい順
func (s PostRepoImpl) List(ctx context.Context, postType string, onlyEnabled bool, limit, offset int) ([]*model.Post, error) {
	q := s.db.WithContext(ctx).Model(&model.Post{}).Where("type = ?", postType)
	if onlyEnabled {
		q = q.Where("enabled = ?", consts.EnabledTrue)
	}

	if postType == command.TypeVoice {
		q = q.Order("created_at DESC, id DESC")
	} else {
		q = q.Order("LENGTH(" + dateKeyExpr + ") DESC").
			Order(dateKeyExpr + " DESC").
			Order("id DESC")
	}

	var posts []*model.Post
	err := q.Limit(limit).Offset(offset).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// LegacyKey 投稿の冪等キーを導出する。
// archive は日付単位で一意、news / voice は本文署名のハッシュで常に決定的。
// それ以外（日付なしの archive を含む）はランダムキー
func LegacyKey(postType, date, signature string) string {
	if postType == command.TypeArchive && date != "" {
		return "archive:date:" + date
	}
	switch postType {
	case command.TypeNews, command.TypeVoice:
		return postType + ":" + date + ":" + signatureHash(signature)
	}
	return postType + ":" + date + ":" + uuid.NewString()
}

// signatureHash 署名の SHA-1 先頭10桁。空署名は空のまま返す
func signatureHash(signature string) string {
	if signature == "" {
		return ""
	}
	sum := sha1.Sum([]byte(signature))
	return hex.EncodeToString(sum[:])[:10]
}

// LegacyKeyFromCSVRow レガシーCSVの1行から冪等キーを導出する
func LegacyKeyFromCSVRow(postType string, row map[string]string, normalizedDate string) string {
	date := strings.TrimSpace(normalizedDate)
	if date == "" {
		date = strings.TrimSpace(row["date"])
	}
	if postType == command.TypeArchive && date != "" {
		return "archive:date:" + date
	}

	id := strings.TrimSpace(row["id"])
	switch {
	case id != "" && date != "":
		return postType + ":id:" + id + ":" + date
	case id != "":
		return postType + ":id:" + id
	case date != "":
		return postType + ":date:" + date
	}
	return postType + ":row:" + uuid.NewString()
}
