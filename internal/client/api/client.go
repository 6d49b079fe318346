// Package api はkanbanサーバーのREST APIを呼び出すクライアントです。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	platformhttp "kanban_backend/internal/platform/http"
)

// FilterAll はユーザーで絞り込まない場合のフィルター値です。
const FilterAll = "All"

// FilterUnassigned は担当者なしのチケットに絞り込むフィルター値です。
const FilterUnassigned = "unassigned"

// User はユーザーの公開情報です。
type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AssignedUser はチケットに結合される担当者の公開情報です。
type AssignedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Ticket はサーバーが返すチケットです。
type Ticket struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Status         string        `json:"status"`
	AssignedUserID *uint         `json:"assignedUserId"`
	AssignedUser   *AssignedUser `json:"assignedUser"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TicketInput は作成・更新時に送信する内容です。
type TicketInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	AssignedUserID *uint  `json:"assignedUserId"`
}

// Error は2xx以外のレスポンスを表します。
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// StatusOf はerrが*Errorの場合にそのHTTPステータスを返します。それ以外は0です。
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// TokenSource は保護APIに付与するトークンを提供します。
type TokenSource interface {
	Token() (string, error)
}

// Client はkanbanサーバーのAPIクライアントです。
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New はClientを作成します。httpClientがnilの場合はplatform/httpの既定クライアントを使用します。
func New(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = platformhttp.NewHTTPClient(0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// Login は認証してトークンを返します。トークンの保存は呼び出し元の責務です。
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res, false); err != nil {
		return "", err
	}
	return res.Token, nil
}

// ListTickets はチケット一覧を取得します。filterUserがAllまたは空の場合userIdは送信しません。
func (c *Client) ListTickets(ctx context.Context, sortBy, filterUser string) ([]Ticket, error) {
	q := url.Values{}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}
	if filterUser != "" && filterUser != FilterAll {
		q.Set("userId", filterUser)
	}
	p := "/api/tickets"
	if len(q) > 0 {
		p += "?" + q.Encode()
	}

	tickets := []Ticket{}
	if err := c.do(ctx, http.MethodGet, p, nil, &tickets, true); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket はIDでチケットを取得します。
func (c *Client) GetTicket(ctx context.Context, id uint) (*Ticket, error) {
	var t Ticket
	if err := c.do(ctx, http.MethodGet, ticketPath(id), nil, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTicket はチケットを作成します。
func (c *Client) CreateTicket(ctx context.Context, in TicketInput) (*Ticket, error) {
	var t Ticket
	if err := c.do(ctx, http.MethodPost, "/api/tickets", in, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTicket はチケット全体を置き換えます。
func (c *Client) UpdateTicket(ctx context.Context, id uint, in TicketInput) (*Ticket, error) {
	var t Ticket
	if err := c.do(ctx, http.MethodPut, ticketPath(id), in, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTicket はチケットを削除し、サーバーのメッセージを返します。
func (c *Client) DeleteTicket(ctx context.Context, id uint) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, ticketPath(id), nil, &res, true); err != nil {
		return "", err
	}
	return res.Message, nil
}

// ListUsers はユーザー一覧を取得します。
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

func ticketPath(id uint) string {
	return "/api/tickets/" + strconv.FormatUint(uint64(id), 10)
}

// do はリクエストを送信し、2xxならoutへデコードします。
// authがtrueの場合、保存済みトークンをBearerとして付与します。期限の判定はサーバーに任せます。
func (c *Client) do(ctx context.Context, method, path string, body, out any, auth bool) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		// 未ログイン時はヘッダーを付けず、サーバーに401を返させる
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	// 1MiBを超えるエラーボディは読まない
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
