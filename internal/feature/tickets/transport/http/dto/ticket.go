// Package dto はticketsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"kanban_backend/internal/feature/tickets/domain/entity"
)

// TicketReq は作成・更新リクエストのボディです。
// assignedUserIdがnullまたは省略された場合、チケットは未割り当てになります。
type TicketReq struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	AssignedUserID *uint  `json:"assignedUserId"`
}

// AssignedUserRes は担当ユーザーの公開フィールドです。
type AssignedUserRes struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// TicketRes はチケットのレスポンス表現です。
type TicketRes struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	AssignedUserID *uint            `json:"assignedUserId"`
	AssignedUser   *AssignedUserRes `json:"assignedUser"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// NewTicketRes はエンティティからレスポンスDTOを生成します。
func NewTicketRes(t *entity.Ticket) TicketRes {
	res := TicketRes{
		ID:             t.ID,
		Name:           t.Name,
		Description:    t.Description,
		Status:         string(t.Status),
		AssignedUserID: t.AssignedUserID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.AssignedUser != nil {
		res.AssignedUser = &AssignedUserRes{ID: t.AssignedUser.ID, Username: t.AssignedUser.Username}
	}
	return res
}

// NewTicketListRes は常に非nilのスライスを返します。
func NewTicketListRes(tickets []entity.Ticket) []TicketRes {
	out := make([]TicketRes, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketRes(&tickets[i]))
	}
	return out
}
