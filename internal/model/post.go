package model

import (
	"time"
)

// Post サイト掲載用の投稿。enabled はレガシーサイト互換で TRUE/FALSE のテキスト
type Post struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Type       string    `gorm:"type:varchar(16);not null;index:idx_type" json:"type"`
	Date       string    `gorm:"type:varchar(16);not null" json:"date"`
	JaHTML     string    `gorm:"column:ja_html;type:text" json:"ja_html"`
	EnHTML     string    `gorm:"column:en_html;type:text" json:"en_html"`
	JaLinkText string    `gorm:"column:ja_link_text;type:varchar(255)" json:"ja_link_text"`
	JaLinkHref string    `gorm:"column:ja_link_href;type:varchar(1024)" json:"ja_link_href"`
	EnLinkText string    `gorm:"column:en_link_text;type:varchar(255)" json:"en_link_text"`
	EnLinkHref string    `gorm:"column:en_link_href;type:varchar(1024)" json:"en_link_href"`
	ImageSrc   string    `gorm:"column:image_src;type:varchar(1024)" json:"image_src"`
	ImageKind  string    `gorm:"column:image_kind;type:varchar(32)" json:"image_kind"`
	Enabled    string    `gorm:"type:varchar(8);not null;default:TRUE" json:"enabled"`
	ViewDate   string    `gorm:"column:view_date;type:varchar(16)" json:"view_date"`
	MediaType  string    `gorm:"column:media_type;type:varchar(16);not null;default:image" json:"media_type"`
	MediaSrc   string    `gorm:"column:media_src;type:varchar(1024)" json:"media_src"`
	PosterSrc  string    `gorm:"column:poster_src;type:varchar(1024)" json:"poster_src"`
	LegacyKey  string    `gorm:"column:legacy_key;type:varchar(255);not null;uniqueIndex:uk_legacy_key" json:"legacy_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
