package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string
	DatabaseURL      string // あれば最優先

	JWTSecret string // 管理APIのBearerトークン検証用

	LogLevel string // zapのレベル（info / debug ...）

	GoEnv string // dev / prod
	FEURL string // フロントURL（CORS）
}

// Loadは環境変数から設定を読む。
func Load() (Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "xshop")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("GO_ENV", "dev")
	viper.SetDefault("FE_URL", "http://localhost:3000")

	cfg := Config{
		Port: viper.GetString("PORT"),

		PostgresUser:     viper.GetString("POSTGRES_USER"),
		PostgresPassword: viper.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       viper.GetString("POSTGRES_DB"),
		PostgresHost:     viper.GetString("POSTGRES_HOST"),
		PostgresPort:     viper.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		DatabaseURL:      viper.GetString("DATABASE_URL"),

		JWTSecret: viper.GetString("JWT_SECRET"),

		LogLevel: viper.GetString("LOG_LEVEL"),

		GoEnv: viper.GetString("GO_ENV"),
		FEURL: viper.GetString("FE_URL"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
