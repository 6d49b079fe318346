// Package dto はusersフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"kanban_backend/internal/feature/users/domain/entity"
)

// UserReq は/api/usersの作成・更新リクエストボディを表します。
// 更新時にpasswordを省略すると現在のパスワードが維持されます。
type UserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRes はユーザーの公開フィールドのみを含むレスポンスです。
// パスワードはどのコードパスでも出力されません。
type UserRes struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserRes はエンティティからレスポンスDTOを生成します。
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserListRes は常に非nilのスライスを返します。
func NewUserListRes(users []entity.User) []UserRes {
	out := make([]UserRes, 0, len(users))
	for i := range users {
		out = append(out, NewUserRes(&users[i]))
	}
	return out
}
