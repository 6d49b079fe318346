package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cache:6380", Config{Host: "cache", Port: "6380"}.Addr())
	assert.Equal(t, "cache:6379", Config{Host: "cache"}.Addr())
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Host: "localhost"}.Enabled())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	// port 1 is reserved and nothing listens there
	rdb, err := NewRedisClient(context.Background(), Config{Host: "127.0.0.1", Port: "1"})

	assert.Error(t, err)
	assert.Nil(t, rdb)
}
