// Package form は作成・編集フォームの下書きを扱います。
package form

import (
	"context"
	"errors"

	"kanban_backend/internal/client/api"
)

const (
	msgCreateFailed = "Could not create ticket. Please try again."
	msgUpdateFailed = "Could not update ticket. Please try again."
	msgLoadFailed   = "Could not load ticket. Please try again."
)

// ErrLoadTicket は編集対象のチケットを取得できなかった場合に返されます。
var ErrLoadTicket = errors.New(msgLoadFailed)

// API はフォームが使用するサーバー呼び出しです。
type API interface {
	GetTicket(ctx context.Context, id uint) (*api.Ticket, error)
	CreateTicket(ctx context.Context, in api.TicketInput) (*api.Ticket, error)
	UpdateTicket(ctx context.Context, id uint, in api.TicketInput) (*api.Ticket, error)
}

// Draft はチケットのローカルな下書きです。
// ID が0の場合は新規作成、それ以外は既存チケットの編集です。
type Draft struct {
	ID    uint
	Input api.TicketInput
	// Err は直前の送信が失敗した場合のメッセージです。
	Err string
}

// NewDraft は新規作成用の下書きを返します。ステータスの初期値はTodoです。
func NewDraft() *Draft {
	return &Draft{Input: api.TicketInput{Status: "Todo"}}
}

// EditDraft は既存チケットのコピーから下書きを作成します。
func EditDraft(t *api.Ticket) *Draft {
	d := &Draft{
		ID: t.ID,
		Input: api.TicketInput{
			Name:        t.Name,
			Description: t.Description,
			Status:      t.Status,
		},
	}
	if t.AssignedUserID != nil {
		id := *t.AssignedUserID
		d.Input.AssignedUserID = &id
	}
	return d
}

// LoadDraft はサーバーからチケットを取得して編集用の下書きを作成します。
func LoadDraft(ctx context.Context, a API, id uint) (*Draft, error) {
	t, err := a.GetTicket(ctx, id)
	if err != nil {
		return nil, errors.Join(ErrLoadTicket, err)
	}
	return EditDraft(t), nil
}

// IsNew reports whether submitting creates a ticket.
func (d *Draft) IsNew() bool {
	return d.ID == 0
}

// Submit は下書き全体を送信します。
// 失敗した場合は下書きをそのまま残し、Errにメッセージを設定します。
func (d *Draft) Submit(ctx context.Context, a API) (*api.Ticket, error) {
	var (
		t   *api.Ticket
		err error
		msg string
	)
	if d.IsNew() {
		t, err = a.CreateTicket(ctx, d.Input)
		msg = msgCreateFailed
	} else {
		t, err = a.UpdateTicket(ctx, d.ID, d.Input)
		msg = msgUpdateFailed
	}
	if err != nil {
		d.Err = msg
		return nil, err
	}

	d.Err = ""
	d.ID = t.ID
	return t, nil
}
