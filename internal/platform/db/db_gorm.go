// Package db はGORM接続の確立とスキーマ移行を提供します。
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ticketentity "kanban_backend/internal/feature/tickets/domain/entity"
	userentity "kanban_backend/internal/feature/users/domain/entity"
)

// サポートするドライバー名
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの待機間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver string
	// URL が設定されている場合、個別の接続パラメータより優先されます。
	URL          string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string
	SQLitePath   string
	LogLevel     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// BuildDSN は設定からドライバーに応じたDSN文字列を構築します。
// InstanceNameが設定されている場合、Cloud SQLのUnixソケット接続を使用します。
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	switch cfg.Driver {
	case DriverMySQL:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return "kanban.db"
		}
		return cfg.SQLitePath
	default:
		host, port := cfg.Host, cfg.Port
		if cfg.InstanceName != "" {
			host = "/cloudsql/" + cfg.InstanceName
		}
		parts := []string{
			"host=" + host,
			"user=" + cfg.User,
			"password=" + cfg.Password,
			"dbname=" + cfg.Name,
		}
		if port != "" && cfg.InstanceName == "" {
			parts = append(parts, "port="+port)
		}
		parts = append(parts, "sslmode=disable", "TimeZone=UTC")
		return strings.Join(parts, " ")
	}
}

// Dialector はドライバー名に対応するGORMダイアレクトを返します。
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return gmysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// ParseLogLevel はDB_LOG_LEVELの値をGORMのログレベルに変換します。未知の値はWarnです。
func ParseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

// ConnectWithRetry はタイムアウトまで一定間隔で接続を再試行します。
// openerはテストで差し替え可能です。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, opener)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// Open は設定に従って接続し、コネクションプールを構成します。
func Open(cfg Config, timeout time.Duration) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(ParseLogLevel(cfg.LogLevel))}

	db, err := ConnectWithRetry(dsn, timeout, func(dsn string) (*gorm.DB, error) {
		dialector, err := Dialector(cfg.Driver, dsn)
		if err != nil {
			return nil, err
		}
		return gorm.Open(dialector, gormCfg)
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLiteは単一ライターのため接続を1本に制限
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// Migrate はusersとticketsのテーブルを作成・更新します。
// ticketsは外部キー制約 assigned_user_id → users.id (ON DELETE SET NULL) を持ちます。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userentity.User{}, &ticketentity.Ticket{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Reset はテーブルを削除してから再作成します。シードの--resetで使用します。
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&ticketentity.Ticket{}, &userentity.User{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return Migrate(db)
}
