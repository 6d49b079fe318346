package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv は他のテストや開発者の環境変数の影響を受けないよう、関連キーを空にします。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DRIVER", "DB_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"INSTANCE_CONNECTION_NAME", "SQLITE_PATH", "RUN_MIGRATIONS", "DB_LOG_LEVEL",
		"JWT_SECRET_KEY", "JWT_SECRET", "JWT_TTL", "CLIENT_ORIGIN", "STATIC_DIR",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "USER_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

// TestLoad_Defaults は環境変数が未設定の場合のデフォルト値を検証します。
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "kanban_db", cfg.DB.Name)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Empty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.ClientOrigins)
	assert.False(t, cfg.Redis.Enabled())
}

// TestLoad_FromEnv は環境変数から設定が正しく読み込まれることを検証します。
func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CLIENT_ORIGIN", "http://localhost:3000, https://kanban.example.com")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("USER_CACHE_TTL", "90s")

	cfg, err := Load(missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "envuser", cfg.DB.User)
	assert.Equal(t, "envpass", cfg.DB.Password)
	assert.Equal(t, "envdb", cfg.DB.Name)
	assert.Equal(t, "envhost", cfg.DB.Host)
	assert.Equal(t, "3307", cfg.DB.Port)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://kanban.example.com"}, cfg.ClientOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Second, cfg.UserCacheTTL)
}

// TestLoad_JWTSecretFallback はJWT_SECRET_KEYが未設定の場合にJWT_SECRETを使うことを検証します。
func TestLoad_JWTSecretFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "legacy")

	cfg, err := Load(missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.JWTSecret)
}

// TestLoad_DotEnv は.envファイルの値が読み込まれ、既存の環境変数が優先されることを検証します。
func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER=sqlite\nSQLITE_PATH=/tmp/dotenv.db\nPORT=4000\n"), 0o600))
	t.Setenv("PORT", "5000")

	cfg, err := Load(envFile)

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/dotenv.db", cfg.DB.SQLitePath)
	assert.Equal(t, "5000", cfg.Port, "process env wins over .env")
}

// TestLoad_Invalid は不正な設定がエラーになることを検証します。
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"zero ttl", "JWT_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(missingEnvFile(t))

			assert.Error(t, err)
		})
	}
}
