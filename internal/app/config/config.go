// Package config はサーバーの設定を.envと環境変数から読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"kanban_backend/internal/platform/db"
	"kanban_backend/internal/platform/redis"
)

// Config はサーバー全体の設定を保持します。
type Config struct {
	Port string

	DB               db.Config
	DBConnectTimeout time.Duration
	RunMigrations    bool

	// JWTSecret が空の場合、ログインは500を返し、保護ルートはすべて拒否されます。
	JWTSecret string
	JWTTTL    time.Duration

	// ClientOrigins はCORSで許可するオリジンです。空の場合CORSヘッダーは付与されません。
	ClientOrigins []string
	StaticDir     string

	Redis        redis.Config
	UserCacheTTL time.Duration

	LogLevel  string
	LogFormat string
}

// Load は.envファイル（存在する場合）を読み込み、環境変数から設定を構築します。
// 既に設定されている環境変数は.envの値で上書きされません。
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Info(".env not found; using system environment variables", "file", f)
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port: v.GetString("PORT"),
		DB: db.Config{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			URL:             v.GetString("DB_URL"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			InstanceName:    v.GetString("INSTANCE_CONNECTION_NAME"),
			SQLitePath:      v.GetString("SQLITE_PATH"),
			LogLevel:        v.GetString("DB_LOG_LEVEL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		DBConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		RunMigrations:    v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:        v.GetString("JWT_SECRET_KEY"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		ClientOrigins:    splitList(v.GetString("CLIENT_ORIGIN")),
		StaticDir:        v.GetString("STATIC_DIR"),
		Redis: redis.Config{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		UserCacheTTL: v.GetDuration("USER_CACHE_TTL"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = v.GetString("JWT_SECRET")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr はListen用のアドレス（:PORT）を返します。
func (c *Config) Addr() string {
	return ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3001")
	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "kanban_db")
	v.SetDefault("SQLITE_PATH", "kanban.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONNECT_TIMEOUT", "60s")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("USER_CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverMySQL, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres, mysql or sqlite)", c.DB.Driver)
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
