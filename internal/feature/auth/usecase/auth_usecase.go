// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	userentity "kanban_backend/internal/feature/users/domain/entity"
	userusecase "kanban_backend/internal/feature/users/usecase"
)

// dummyHash はユーザーが存在しない場合に比較対象とするbcryptハッシュです。
// 存在しないユーザーでも比較コストを発生させ、応答時間からユーザー名を推測されないようにします。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserFinder はログイン時のユーザー検索を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserFinder interface {
	// FindByUsername は完全一致でユーザーを取得します。
	// 存在しない場合はuserusecase.ErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*userentity.User, error)
}

// PasswordComparer はハッシュと平文パスワードを比較します。
type PasswordComparer interface {
	Compare(hash, plain string) error
}

// TokenGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は指定されたユーザー名の署名済みJWTトークンを生成します。
	GenerateToken(username string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserFinder
	compare  PasswordComparer
	tokenGen TokenGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserFinder, compare PasswordComparer, tokenGen TokenGenerator) *authUsecase {
	return &authUsecase{
		users:    users,
		compare:  compare,
		tokenGen: tokenGen,
	}
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// ユーザーが存在しない場合とパスワード不一致の場合はどちらもErrInvalidCredentialsを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, userusecase.ErrUserNotFound) {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := u.compare.Compare(passwordHash, password)
	if user == nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := u.tokenGen.GenerateToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
