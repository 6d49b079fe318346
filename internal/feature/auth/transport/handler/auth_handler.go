// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban_backend/internal/api"
	"kanban_backend/internal/feature/auth/transport/http/dto"
	"kanban_backend/internal/feature/auth/usecase"
	jwtmw "kanban_backend/internal/platform/jwt"
)

const (
	msgAuthFailed      = "Authentication failed"
	msgSecretMissing   = "JWT secret key is not configured"
	msgInternalFailure = "Internal server error"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Login はユーザーを認証し、成功時にJWTトークンを返します。
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド（不正な場合も認証失敗として401）
// - ユーザー不明・パスワード不一致は同一の401を返却
// - 署名シークレット未設定時は500を返却
// - 認証成功時はJWTトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: msgAuthFailed})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: msgAuthFailed})
		case errors.Is(err, jwtmw.ErrSecretNotConfigured):
			slog.Error("login unavailable: signing secret missing")
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgSecretMissing})
		default:
			slog.Error("login error", "error", err, "username", req.Username)
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: msgInternalFailure})
		}
		return
	}

	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{Token: token})
}
