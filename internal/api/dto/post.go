package dto

// PostDTO サイト側が読む投稿1件。src 系は出力時に使える形へ正規化済み
type PostDTO struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Date       string `json:"date"`
	ViewDate   string `json:"view_date"`
	JaHTML     string `json:"ja_html"`
	EnHTML     string `json:"en_html"`
	JaLinkText string `json:"ja_link_text"`
	JaLinkHref string `json:"ja_link_href"`
	EnLinkText string `json:"en_link_text"`
	EnLinkHref string `json:"en_link_href"`
	ImageSrc   string `json:"image_src"`
	ImageKind  string `json:"image_kind"`
	MediaType  string `json:"media_type"`
	MediaSrc   string `json:"media_src"`
	PosterSrc  string `json:"poster_src"`
	Enabled    string `json:"enabled"`
	LegacyKey  string `json:"legacy_key"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ListPostsDTO /posts のクエリパラメータ
type ListPostsDTO struct {
	Type        string `form:"type"`
	OnlyEnabled string `form:"onlyEnabled"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}
