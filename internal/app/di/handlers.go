// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"kanban_backend/internal/app/router"
	authhandler "kanban_backend/internal/feature/auth/transport/handler"
	authusecase "kanban_backend/internal/feature/auth/usecase"
	ticketadapters "kanban_backend/internal/feature/tickets/adapters"
	tickethandler "kanban_backend/internal/feature/tickets/transport/handler"
	ticketusecase "kanban_backend/internal/feature/tickets/usecase"
	userhandler "kanban_backend/internal/feature/users/transport/handler"
	userusecase "kanban_backend/internal/feature/users/usecase"
	jwtmw "kanban_backend/internal/platform/jwt"
	"kanban_backend/internal/platform/password"
)

// Settings holds the values the feature graph needs from configuration.
type Settings struct {
	JWTSecret    string
	JWTTTL       time.Duration
	UserCacheTTL time.Duration
	// BcryptCost of 0 means bcrypt.DefaultCost.
	BcryptCost int
}

// NewUserUsecase wires the user usecase over the (optionally cached) user repository.
func NewUserUsecase(db *gorm.DB, rdb *redis.Client, s Settings) *userusecase.UserUsecase {
	return userusecase.NewUserUsecase(NewUserRepository(db, rdb, s.UserCacheTTL), password.NewHasher(s.BcryptCost))
}

// NewHandlers builds every feature handler over a single shared DB pool.
func NewHandlers(db *gorm.DB, rdb *redis.Client, s Settings) router.Handlers {
	userRepo := NewUserRepository(db, rdb, s.UserCacheTTL)
	hasher := password.NewHasher(s.BcryptCost)

	userUC := userusecase.NewUserUsecase(userRepo, hasher)
	ticketUC := ticketusecase.NewTicketUsecase(ticketadapters.NewTicketRepository(db), userRepo)
	authUC := authusecase.NewAuthUsecase(userRepo, hasher, jwtmw.NewGenerator(s.JWTSecret, s.JWTTTL))

	return router.Handlers{
		Auth:    authhandler.NewAuthHandler(authUC),
		Tickets: tickethandler.NewTicketHandler(ticketUC),
		Users:   userhandler.NewUserHandler(userUC),
	}
}
