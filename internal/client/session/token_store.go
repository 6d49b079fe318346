// Package session はクライアント側のログイントークンをファイルに保存します。
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken は保存済みトークンがない場合に返されます。
var ErrNoToken = errors.New("no token stored")

// Profile はトークンから読み取ったログイン情報です。
type Profile struct {
	Username  string
	ExpiresAt time.Time
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenStore はトークンを1つのファイルで保持します。
type TokenStore struct {
	path string
}

// NewTokenStore は指定パスを使うTokenStoreを作成します。
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultPath はユーザー設定ディレクトリ配下のトークンファイルのパスを返します。
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "kanban", "token"), nil
}

// Path returns the file backing the store.
func (s *TokenStore) Path() string {
	return s.path
}

// Token は保存済みのトークンを返します。ファイルがない場合は空文字です。
func (s *TokenStore) Token() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Save はトークンを所有者のみ読み書き可能なファイルに書き込みます。
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear はトークンを削除します。既に存在しない場合もエラーにしません。
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// LoggedIn はトークンが存在し、nowの時点で期限切れでない場合にtrueを返します。
// 署名は検証しません。判断するのはサーバーです。
// exp がない、または読み取れないトークンはログアウト扱いです。
func (s *TokenStore) LoggedIn(now time.Time) bool {
	p, err := s.Profile()
	if err != nil || p.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(p.ExpiresAt)
}

// Profile はトークンを署名検証なしでデコードし、ユーザー名と期限を返します。
func (s *TokenStore) Profile() (Profile, error) {
	token, err := s.Token()
	if err != nil {
		return Profile{}, err
	}
	if token == "" {
		return Profile{}, ErrNoToken
	}

	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Profile{}, fmt.Errorf("failed to decode token: %w", err)
	}

	p := Profile{Username: c.Username}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p, nil
}
