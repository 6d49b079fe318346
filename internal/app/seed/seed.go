// Package seed はデモ用の初期データを投入します。
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ticketentity "kanban_backend/internal/feature/tickets/domain/entity"
	ticketusecase "kanban_backend/internal/feature/tickets/usecase"
	userentity "kanban_backend/internal/feature/users/domain/entity"
	userusecase "kanban_backend/internal/feature/users/usecase"
)

// DefaultPassword は全シードユーザー共通のパスワードです。
const DefaultPassword = "password"

// Usernames はシードされるユーザー名です。
var Usernames = []string{"JollyGuru", "SunnyScribe", "RadiantComet"}

// UserCreator はユーザー作成とユーザー名検索を行います。
type UserCreator interface {
	CreateUser(ctx context.Context, username, password string) (*userentity.User, error)
}

// UserFinder は既存ユーザーの検索に使用します。
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*userentity.User, error)
}

// TicketCreator はチケット作成を行います。
type TicketCreator interface {
	CreateTicket(ctx context.Context, in ticketusecase.TicketInput) (*ticketentity.Ticket, error)
}

type ticketSeed struct {
	name        string
	description string
	status      ticketentity.Status
	// assignee はUsernamesのインデックス。-1は未割り当て。
	assignee int
}

var tickets = []ticketSeed{
	{"Set up project board", "Create the three swimlanes and invite the team.", ticketentity.StatusDone, 0},
	{"Design login page", "Username and password form that stores the token on success.", ticketentity.StatusInProgress, 1},
	{"Write API docs", "Document every /api endpoint with example payloads.", ticketentity.StatusTodo, 2},
	{"Add ticket sorting", "Sort the board by name, created or updated date.", ticketentity.StatusTodo, 0},
	{"Triage bug reports", "Nobody owns this yet.", ticketentity.StatusTodo, -1},
	{"Deploy to staging", "Run migrations and smoke test the board.", ticketentity.StatusInProgress, -1},
}

// Run はユーザーとチケットを投入します。
// 既に存在するユーザーは再作成せず、そのIDをチケットの担当に使用します。
func Run(ctx context.Context, users UserCreator, finder UserFinder, tc TicketCreator) error {
	ids := make([]uint, len(Usernames))
	for i, name := range Usernames {
		u, err := users.CreateUser(ctx, name, DefaultPassword)
		if errors.Is(err, userusecase.ErrUsernameTaken) {
			u, err = finder.FindByUsername(ctx, name)
			slog.Info("seed user already exists", "username", name)
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", name, err)
		}
		ids[i] = u.ID
	}

	for _, s := range tickets {
		in := ticketusecase.TicketInput{Name: s.name, Description: s.description, Status: string(s.status)}
		if s.assignee >= 0 {
			id := ids[s.assignee]
			in.AssignedUserID = &id
		}
		if _, err := tc.CreateTicket(ctx, in); err != nil {
			return fmt.Errorf("seed ticket %q: %w", s.name, err)
		}
	}

	slog.Info("seed completed", "users", len(ids), "tickets", len(tickets))
	return nil
}
