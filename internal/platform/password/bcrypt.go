// Package password はbcryptによるパスワードのハッシュ化と照合を提供します。
package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidPassword は空のパスワード、またはbcryptの上限（72バイト）を超えるパスワードの場合に返されます。
	ErrInvalidPassword = errors.New("invalid password")

	// ErrMismatch はハッシュと平文パスワードが一致しない場合に返されます。
	ErrMismatch = errors.New("password does not match")
)

// Hasher はbcryptのコストを保持します。ゼロ値はbcrypt.DefaultCostを使用します。
type Hasher struct {
	Cost int
}

// NewHasher は指定されたコストのHasherを生成します。
// 範囲外のコストはbcrypt.DefaultCostに置き換えられます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

// Hash は平文パスワードからソルト付きハッシュを生成します。
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" || len(plain) > 72 {
		return "", ErrInvalidPassword
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare はハッシュと平文パスワードを照合します。
// 第1引数はハッシュ化パスワード、第2引数は平文パスワードです。
func (h *Hasher) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// IsHash は値が既にbcryptハッシュであるかを判定します。
func IsHash(s string) bool {
	if len(s) != 60 || !strings.HasPrefix(s, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
