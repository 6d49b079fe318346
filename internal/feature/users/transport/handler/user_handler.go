// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban_backend/internal/api"
	"kanban_backend/internal/feature/users/domain/entity"
	"kanban_backend/internal/feature/users/transport/http/dto"
	"kanban_backend/internal/feature/users/usecase"
)

const (
	msgUserNotFound   = "User not found with the provided ID."
	msgUserDeleted    = "User deleted successfully."
	msgListFailed     = "Could not retrieve users. Please try again later."
	msgGetFailed      = "Could not retrieve user. Please try again later."
	msgCreateInvalid  = "Could not create user. Please check your input and try again."
	msgUpdateInvalid  = "Could not update user. Please check your input and try again."
	msgDeleteFailed   = "Could not delete user. Please try again later."
	msgInternalFailed = "Internal server error"
)

// UserUsecase はユーザー管理のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id uint) (*entity.User, error)
	CreateUser(ctx context.Context, username, password string) (*entity.User, error)
	UpdateUser(ctx context.Context, id uint, username, password string) (*entity.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// UserHandler は/api/users配下のHTTPリクエストを処理します。
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List はすべてのユーザーを返します（パスワードは含みません）。
//
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgListFailed})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListRes(users))
}

// Get はIDで指定されたユーザーを返します。
//
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUserNotFound})
		return
	}
	user, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUserNotFound})
			return
		}
		slog.Error("failed to get user", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgGetFailed})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// Create は新しいユーザーを登録し、201を返します。
//
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create user validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgCreateInvalid})
		return
	}
	user, err := h.uc.CreateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if isValidationError(err) {
			slog.Warn("create user rejected", "error", err, "username", req.Username)
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgCreateInvalid})
			return
		}
		slog.Error("failed to create user", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgInternalFailed})
		return
	}
	slog.Info("user created", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, dto.NewUserRes(user))
}

// Update は既存ユーザーのユーザー名とパスワードを上書きします。
//
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUserNotFound})
		return
	}
	var req dto.UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update user validation failed", "error", err, "user_id", id)
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgUpdateInvalid})
		return
	}
	user, err := h.uc.UpdateUser(c.Request.Context(), id, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUserNotFound})
		case isValidationError(err):
			slog.Warn("update user rejected", "error", err, "user_id", id)
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: msgUpdateInvalid})
		default:
			slog.Error("failed to update user", "error", err, "user_id", id)
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgInternalFailed})
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// Delete はユーザーを削除します。割り当て済みのチケットは未割り当てになります。
//
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUserNotFound})
		return
	}
	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: msgUserNotFound})
			return
		}
		slog.Error("failed to delete user", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgDeleteFailed})
		return
	}
	slog.Info("user deleted", "user_id", id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgUserDeleted})
}

func isValidationError(err error) bool {
	return errors.Is(err, usecase.ErrInvalidUser) || errors.Is(err, usecase.ErrUsernameTaken)
}
