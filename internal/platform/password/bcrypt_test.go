package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cost     int
		expected int
	}{
		{"min cost", bcrypt.MinCost, bcrypt.MinCost},
		{"default cost", bcrypt.DefaultCost, bcrypt.DefaultCost},
		{"too low falls back", 1, bcrypt.DefaultCost},
		{"too high falls back", 99, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NewHasher(tt.cost).Cost)
		})
	}
}

func TestHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash, "plaintext must not be returned")
	assert.True(t, IsHash(hash))

	assert.NoError(t, h.Compare(hash, "password"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)
}

func TestHasher_HashIsSalted(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	first, err := h.Hash("password")
	require.NoError(t, err)
	second, err := h.Hash("password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_HashRejectsInvalid(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestHasher_CompareMalformedHash(t *testing.T) {
	t.Parallel()

	err := NewHasher(bcrypt.MinCost).Compare("not-a-hash", "password")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}

func TestIsHash(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, IsHash(string(hash)))
	assert.False(t, IsHash("password"))
	assert.False(t, IsHash(""))
	assert.False(t, IsHash("$2a$"+strings.Repeat("x", 56)))
}
