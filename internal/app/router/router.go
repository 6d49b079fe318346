// Package router はHTTPルーティングを構成します。
package router

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kanban_backend/internal/api"
	authhandler "kanban_backend/internal/feature/auth/transport/handler"
	tickethandler "kanban_backend/internal/feature/tickets/transport/handler"
	userhandler "kanban_backend/internal/feature/users/transport/handler"
	"kanban_backend/internal/platform/http/handler"
	"kanban_backend/internal/platform/http/middleware"
	jwtmw "kanban_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するフィーチャーハンドラーです。
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Tickets *tickethandler.TicketHandler
	Users   *userhandler.UserHandler
}

// Options はルーター全体に関わる設定です。
type Options struct {
	// Verifier は/api配下のトークン検証に使用します。
	Verifier jwtmw.Verifier
	// DB が設定されている場合、/healthzはDBへの疎通も確認します。
	DB handler.Pinger
	// ClientOrigins が空の場合、CORSミドルウェアは登録しません。
	ClientOrigins []string
	// StaticDir が設定されている場合、API以外のパスでクライアントを配信します。
	StaticDir string
}

// NewRouter はルーティングを構成したgin.Engineを返します。
func NewRouter(h Handlers, opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	if len(opts.ClientOrigins) > 0 {
		corsCfg := cors.Config{
			AllowOrigins:     opts.ClientOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}
		if err := corsCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid CLIENT_ORIGIN: %w", err)
		}
		r.Use(cors.New(corsCfg))
	}

	// 認証不要
	// 導通確認用
	health := handler.Health(opts.DB)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// ログイン（JWT 発行）
	r.POST("/auth/login", h.Auth.Login)

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	protected := r.Group("/api")
	protected.Use(jwtmw.AuthRequired(opts.Verifier))
	{
		protected.GET("/tickets", h.Tickets.List)
		protected.GET("/tickets/:id", h.Tickets.Get)
		protected.POST("/tickets", h.Tickets.Create)
		protected.PUT("/tickets/:id", h.Tickets.Update)
		protected.DELETE("/tickets/:id", h.Tickets.Delete)

		protected.GET("/users", h.Users.List)
		protected.GET("/users/:id", h.Users.Get)
		protected.POST("/users", h.Users.Create)
		protected.PUT("/users/:id", h.Users.Update)
		protected.DELETE("/users/:id", h.Users.Delete)
	}

	r.NoRoute(noRoute(opts.StaticDir))
	return r, nil
}

// noRoute はAPIパスには404のJSONを返し、それ以外はクライアントのindex.htmlへフォールバックします。
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if staticDir == "" || !isRead || isAPIPath(p) {
			c.JSON(http.StatusNotFound, api.MessageResponse{Message: "Not found"})
			return
		}

		// path.Cleanでルート外への遡りを除去してから解決する
		clean := path.Clean("/" + p)
		if clean != "/" {
			file := filepath.Join(staticDir, filepath.FromSlash(clean))
			if fileExists(file) {
				c.File(file)
				return
			}
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

func isAPIPath(p string) bool {
	for _, prefix := range []string{"/api", "/auth"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
