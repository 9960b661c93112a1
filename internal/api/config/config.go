package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全体からアクセスできる設定インスタンス
var Cfg *Config

// LoadConfig ファイルから設定を読み込んで Cfg に反映する
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.sync_processing", true)
	viper.SetDefault("llm.timeout_seconds", 12)
	viper.SetDefault("llm.use_json_schema", true)
	viper.SetDefault("media.github_max_bytes", 2_500_000)
	viper.SetDefault("vision.autopost_min_conf", 0.85)
	viper.SetDefault("vision.autopost_voice_min_conf", 0.90)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Media.GitHubMaxBytes = clampInt64(cfg.Media.GitHubMaxBytes, 2_500_000, 100_000, 20_000_000)
	cfg.Vision.AutopostMinConf = clampFloat(cfg.Vision.AutopostMinConf, 0.85, 0, 1)
	cfg.Vision.AutopostVoiceMinConf = clampFloat(cfg.Vision.AutopostVoiceMinConf, 0.90, 0, 1)

	Cfg = &cfg

	return nil
}

func clampInt64(v, def, min, max int64) int64 {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, def, min, max float64) float64 {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
