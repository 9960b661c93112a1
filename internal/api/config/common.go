package config

// Config 設定全体
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"database"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Line   LineConfig   `mapstructure:"line"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	GitHub GitHubConfig `mapstructure:"github"`
	MinIO  MinIOConfig  `mapstructure:"minio"`
	Media  MediaConfig  `mapstructure:"media"`
	Vision VisionConfig `mapstructure:"vision"`
	Import ImportConfig `mapstructure:"import"`
	Debug  DebugConfig  `mapstructure:"debug"`
}

// ServerConfig HTTPサーバ設定
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// SyncProcessing true なら webhook をレスポンス返却前に同期処理する。
	// false なら即時 200 を返して後処理に回す（replyToken 失効時は push 救済）。
	SyncProcessing bool `mapstructure:"sync_processing"`
}

// DBConfig データベース設定
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LineConfig LINE Messaging API 設定
type LineConfig struct {
	ChannelSecret      string `mapstructure:"channel_secret"`
	ChannelAccessToken string `mapstructure:"channel_access_token"`
	AdminUserID        string `mapstructure:"admin_user_id"`
}

// LLMConfig 主系プロバイダ（OpenAI互換）設定
type LLMConfig struct {
	URL         string `mapstructure:"url"`
	ApiKey      string `mapstructure:"api_key"`
	TextModel   string `mapstructure:"text_model"`
	VisionModel string `mapstructure:"vision_model"`
	// UseJSONSchema true なら一発スキーマ生成、false なら JA整形→EN翻訳 の二段生成
	UseJSONSchema  bool `mapstructure:"use_json_schema"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
}

// GeminiConfig 翻訳フォールバック用プロバイダ設定
type GeminiConfig struct {
	ApiKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// GitHubConfig 画像アセットホスト（サイトリポジトリ）設定
type GitHubConfig struct {
	Token  string `mapstructure:"token"`
	Owner  string `mapstructure:"owner"`
	Repo   string `mapstructure:"repo"`
	Branch string `mapstructure:"branch"`
}

// MinIOConfig オブジェクトストレージ（R2互換）設定
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// PublicBase カスタムドメイン。空なら /media/ プロキシ経由で配信する
	PublicBase string `mapstructure:"public_base"`
}

// MediaConfig メディア取込設定
type MediaConfig struct {
	// GitHubMaxBytes これを超える画像は GitHub ではなくオブジェクトストレージへ
	GitHubMaxBytes int64 `mapstructure:"github_max_bytes"`
}

// VisionConfig 画像自動分類の信頼度しきい値
type VisionConfig struct {
	AutopostMinConf      float64 `mapstructure:"autopost_min_conf"`
	AutopostVoiceMinConf float64 `mapstructure:"autopost_voice_min_conf"`
}

// ImportConfig 旧スプレッドシートCSV取込設定
type ImportConfig struct {
	Token      string `mapstructure:"token"`
	Cron       string `mapstructure:"cron"`
	NewsCSV    string `mapstructure:"news_csv"`
	VoiceCSV   string `mapstructure:"voice_csv"`
	ArchiveCSV string `mapstructure:"archive_csv"`
}

// DebugConfig 診断ログ閲覧トークン
type DebugConfig struct {
	Token string `mapstructure:"token"`
}
