// Package handler はticketsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban_backend/internal/api"
	"kanban_backend/internal/feature/tickets/domain/entity"
	"kanban_backend/internal/feature/tickets/transport/http/dto"
	"kanban_backend/internal/feature/tickets/usecase"
	jwtmw "kanban_backend/internal/platform/jwt"
)

const (
	msgTicketNotFound = "Ticket not found with the provided ID."
	msgTicketDeleted  = "Ticket deleted successfully."
	msgListFailed     = "Could not retrieve tickets. Please try again later."
	msgInvalidFilter  = "Invalid user filter."
	msgGetFailed      = "Could not retrieve ticket. Please try again later."
	msgCreateInvalid  = "Could not create ticket. Please check your input and try again."
	msgUpdateInvalid  = "Could not update ticket. Please check your input and try again."
	msgDeleteFailed   = "Could not delete ticket. Please try again later."
	msgInternalFailed = "Internal server error"
)

// TicketUsecase はチケット操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TicketUsecase interface {
	ListTickets(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error)
	GetTicket(ctx context.Context, id uint) (*entity.Ticket, error)
	CreateTicket(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error)
	UpdateTicket(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error)
	DeleteTicket(ctx context.Context, id uint) error
}

// TicketHandler は/api/tickets配下のHTTPリクエストを処理します。
type TicketHandler struct {
	uc TicketUsecase
}

// NewTicketHandler はTicketHandlerの新しいインスタンスを生成します。
func NewTicketHandler(uc TicketUsecase) *TicketHandler {
	return &TicketHandler{uc: uc}
}

// List はソート・フィルター条件に従ってチケット一覧を返します。
//
// エンドポイント例:
// GET /api/tickets?sortBy=name&userId=unassigned
func (h *TicketHandler) List(c *gin.Context) {
	sortBy := c.Query("sortBy")
	userID := c.Query("userId")

	tickets, err := h.uc.ListTickets(c.Request.Context(), sortBy, userID)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidFilter) {
			slog.Warn("invalid ticket filter", "error", err, "user_id", userID)
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgInvalidFilter})
			return
		}
		slog.Error("failed to list tickets", "error", err, "sort_by", sortBy, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgListFailed})
		return
	}
	c.JSON(http.StatusOK, dto.NewTicketListRes(tickets))
}

// Get はIDで指定されたチケットを担当ユーザー付きで返します。
//
// GET /api/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgTicketNotFound})
		return
	}
	ticket, err := h.uc.GetTicket(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgTicketNotFound})
			return
		}
		slog.Error("failed to get ticket", "error", err, "ticket_id", id)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgGetFailed})
		return
	}
	c.JSON(http.StatusOK, dto.NewTicketRes(ticket))
}

// Create は新しいチケットを作成し、201を返します。
//
// POST /api/tickets
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.TicketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create ticket validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgCreateInvalid})
		return
	}
	ticket, err := h.uc.CreateTicket(c.Request.Context(), toInput(req))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidTicket) {
			slog.Warn("create ticket rejected", "error", err)
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgCreateInvalid})
			return
		}
		slog.Error("failed to create ticket", "error", err)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgInternalFailed})
		return
	}
	slog.Info("ticket created", "ticket_id", ticket.ID, "actor", actor(c))
	c.JSON(http.StatusCreated, dto.NewTicketRes(ticket))
}

// Update は既存チケットの可変フィールドをすべて上書きします。
//
// PUT /api/tickets/:id
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgTicketNotFound})
		return
	}
	var req dto.TicketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update ticket validation failed", "error", err, "ticket_id", id)
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgUpdateInvalid})
		return
	}
	ticket, err := h.uc.UpdateTicket(c.Request.Context(), id, toInput(req))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgTicketNotFound})
		case errors.Is(err, usecase.ErrInvalidTicket):
			slog.Warn("update ticket rejected", "error", err, "ticket_id", id)
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgUpdateInvalid})
		default:
			slog.Error("failed to update ticket", "error", err, "ticket_id", id)
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgInternalFailed})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewTicketRes(ticket))
}

// Delete はチケットを削除します。
//
// DELETE /api/tickets/:id
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgTicketNotFound})
		return
	}
	if err := h.uc.DeleteTicket(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgTicketNotFound})
			return
		}
		slog.Error("failed to delete ticket", "error", err, "ticket_id", id)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgDeleteFailed})
		return
	}
	slog.Info("ticket deleted", "ticket_id", id, "actor", actor(c))
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgTicketDeleted})
}

// actor は認証済みユーザー名を返します。ログ用途のみです。
func actor(c *gin.Context) string {
	username, _ := jwtmw.UsernameFrom(c)
	return username
}

func toInput(req dto.TicketReq) usecase.TicketInput {
	return usecase.TicketInput{
		Name:           req.Name,
		Description:    req.Description,
		Status:         req.Status,
		AssignedUserID: req.AssignedUserID,
	}
}
