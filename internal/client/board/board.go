// Package board はカンバンボード画面の状態を管理します。
package board

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kanban_backend/internal/client/api"
)

// Lanes はボードに表示するレーンです（表示順）。
var Lanes = []string{"Todo", "In Progress", "Done"}

// 並び替えキー
const (
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortName      = "name"
)

const (
	msgLoadTickets  = "Could not load tickets. Please try again."
	msgLoadUsers    = "Could not load users. Please try again."
	msgDeleteTicket = "Could not delete ticket. Please try again."
)

// ErrNotLoggedIn はローカルのトークンが無いか期限切れの場合に返されます。
var ErrNotLoggedIn = errors.New("not logged in")

// API はボードが使用するサーバー呼び出しです。
type API interface {
	ListTickets(ctx context.Context, sortBy, filterUser string) ([]api.Ticket, error)
	ListUsers(ctx context.Context) ([]api.User, error)
	DeleteTicket(ctx context.Context, id uint) (string, error)
}

// Session はローカルのログイン状態を判定します。
type Session interface {
	LoggedIn(now time.Time) bool
}

// Lane は1つのステータスに属するチケットの列です。
type Lane struct {
	Status  string
	Tickets []api.Ticket
}

// Option はユーザーフィルターの選択肢です。
type Option struct {
	Value string
	Label string
}

// Board はボードの状態です。メソッドは並行に呼び出せます。
type Board struct {
	api     API
	session Session
	now     func() time.Time

	mu         sync.Mutex
	sortBy     string
	filterUser string
	tickets    []api.Ticket
	users      []api.User
	ticketErr  string
	userErr    string
	actionErr  string
	// seq はチケット取得ごとに増加し、古いレスポンスの適用を防ぎます。
	seq uint64
}

// New は作成日時順・全ユーザー表示のBoardを作成します。
func New(a API, s Session) *Board {
	return &Board{
		api:        a,
		session:    s,
		now:        time.Now,
		sortBy:     SortCreatedAt,
		filterUser: api.FilterAll,
	}
}

// Load はログイン状態を確認し、チケットとユーザーを並行に読み込みます。
// ユーザーの取得失敗はチケットの表示を妨げません。
func (b *Board) Load(ctx context.Context) error {
	if !b.session.LoggedIn(b.now()) {
		return ErrNotLoggedIn
	}

	// チケットの失敗でユーザー取得をキャンセルしないようWithContextは使わない
	var g errgroup.Group
	g.Go(func() error {
		return b.fetchTickets(ctx)
	})
	g.Go(func() error {
		b.fetchUsers(ctx)
		return nil
	})
	return g.Wait()
}

// Select は並び替えキーとフィルターを取得せずに設定します。続けてLoadを呼び出してください。
// 空文字の値は変更しません。
func (b *Board) Select(sortBy, filterUser string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sortBy != "" {
		b.sortBy = sortBy
	}
	if filterUser != "" {
		b.filterUser = filterUser
	}
}

// SetSort は並び替えキーを変更し、チケットを再取得します。
func (b *Board) SetSort(ctx context.Context, sortBy string) error {
	b.mu.Lock()
	b.sortBy = sortBy
	b.mu.Unlock()
	return b.fetchTickets(ctx)
}

// SetFilter はユーザーフィルターを変更し、チケットを再取得します。
func (b *Board) SetFilter(ctx context.Context, filterUser string) error {
	b.mu.Lock()
	b.filterUser = filterUser
	b.mu.Unlock()
	return b.fetchTickets(ctx)
}

// Delete はサーバーでチケットを削除してから一覧を再取得します。
// ローカルの一覧はサーバーの確認なしに変更しません。
func (b *Board) Delete(ctx context.Context, id uint) error {
	if _, err := b.api.DeleteTicket(ctx, id); err != nil {
		b.mu.Lock()
		b.actionErr = msgDeleteTicket
		b.mu.Unlock()
		return err
	}
	b.mu.Lock()
	b.actionErr = ""
	b.mu.Unlock()
	return b.fetchTickets(ctx)
}

func (b *Board) fetchTickets(ctx context.Context) error {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	sortBy, filterUser := b.sortBy, b.filterUser
	b.mu.Unlock()

	tickets, err := b.api.ListTickets(ctx, sortBy, filterUser)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		// より新しい取得が開始済み
		return nil
	}
	if err != nil {
		b.tickets = nil
		b.ticketErr = msgLoadTickets
		return err
	}
	b.tickets = tickets
	b.ticketErr = ""
	return nil
}

func (b *Board) fetchUsers(ctx context.Context) {
	users, err := b.api.ListUsers(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.userErr = msgLoadUsers
		return
	}
	b.users = users
	b.userErr = ""
}

// SortBy returns the current sort key.
func (b *Board) SortBy() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortBy
}

// Filter returns the current user filter.
func (b *Board) Filter() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filterUser
}

// Tickets は現在のチケット一覧のコピーを返します。取得失敗時は空です。
func (b *Board) Tickets() []api.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Ticket{}, b.tickets...)
}

// Users returns a copy of the loaded users.
func (b *Board) Users() []api.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.User{}, b.users...)
}

// Err はユーザーに表示するエラーメッセージを返します。無ければ空文字です。
func (b *Board) Err() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, msg := range []string{b.actionErr, b.ticketErr, b.userErr} {
		if msg != "" {
			return msg
		}
	}
	return ""
}

// Swimlanes はチケットをLanesの順でステータスごとにまとめます。
// 未知のステータスのチケットはどのレーンにも含まれません。
func (b *Board) Swimlanes() []Lane {
	b.mu.Lock()
	defer b.mu.Unlock()

	lanes := make([]Lane, len(Lanes))
	for i, status := range Lanes {
		lanes[i] = Lane{Status: status, Tickets: []api.Ticket{}}
		for _, t := range b.tickets {
			if t.Status == status {
				lanes[i].Tickets = append(lanes[i].Tickets, t)
			}
		}
	}
	return lanes
}

// FilterOptions はAll、unassigned、各ユーザーの順でフィルターの選択肢を返します。
func (b *Board) FilterOptions() []Option {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := []Option{
		{Value: api.FilterAll, Label: "All"},
		{Value: api.FilterUnassigned, Label: "Unassigned"},
	}
	for _, u := range b.users {
		opts = append(opts, Option{Value: strconv.FormatUint(uint64(u.ID), 10), Label: u.Username})
	}
	return opts
}
