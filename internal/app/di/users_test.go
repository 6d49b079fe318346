package di

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban_backend/internal/platform/cache"
)

func TestNewUserRepository(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	t.Run("without redis", func(t *testing.T) {
		repo := NewUserRepository(db, nil, time.Minute)
		_, cached := repo.(*cache.CachingUserRepository)
		assert.False(t, cached)
	})

	t.Run("with redis", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		repo := NewUserRepository(db, rdb, time.Minute)
		_, cached := repo.(*cache.CachingUserRepository)
		assert.True(t, cached)
	})
}

func TestNewHandlers(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	h := NewHandlers(db, nil, Settings{JWTSecret: "s"})
	assert.NotNil(t, h.Auth)
	assert.NotNil(t, h.Tickets)
	assert.NotNil(t, h.Users)
}
