// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kanban_backend/internal/feature/users/domain/entity"
	"kanban_backend/internal/feature/users/usecase"
	"kanban_backend/internal/platform/db"
	"kanban_backend/internal/platform/password"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQL・MySQL・SQLiteのいずれのダイアレクトでも動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// List はID順にすべてのユーザーを返します。
func (r *userGorm) List(ctx context.Context) ([]entity.User, error) {
	users := []entity.User{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByUsername はユーザー名の完全一致でユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create はユーザーをデータベースに追加します。
// パスワードがハッシュでない場合は永続化せずusecase.ErrInvalidUserを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return fmt.Errorf("%w: nil user", usecase.ErrInvalidUser)
	}
	if !password.IsHash(u.Password) {
		return fmt.Errorf("%w: refusing to store an unhashed password", usecase.ErrInvalidUser)
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Update はユーザー名とパスワードを上書きします。
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	if u == nil || u.ID == 0 {
		return fmt.Errorf("%w: missing user id", usecase.ErrInvalidUser)
	}
	if !password.IsHash(u.Password) {
		return fmt.Errorf("%w: refusing to store an unhashed password", usecase.ErrInvalidUser)
	}
	res := r.db.WithContext(ctx).
		Model(u).
		Select("Username", "Password", "UpdatedAt").
		Updates(u)
	if res.Error != nil {
		return translateError(res.Error)
	}
	return nil
}

// Delete は割り当て済みチケットを未割り当てに戻してからユーザーを削除します。
// 両方の操作は1つのトランザクションで実行されます。
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("tickets").
			Where("assigned_user_id = ?", id).
			Update("assigned_user_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
}

func translateError(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return usecase.ErrUsernameTaken
	case db.IsConstraintViolation(err):
		return fmt.Errorf("%w: %v", usecase.ErrInvalidUser, err)
	}
	return err
}
