package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kanban_backend/internal/feature/users/domain/entity"
)

const maxUsernameLength = 255

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// List returns every user ordered by ID.
	List(ctx context.Context) ([]entity.User, error)

	// FindByID returns ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByUsername returns ErrUserNotFound when no row matches exactly.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user and fills in ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	// Update overwrites username and password of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user and unassigns their tickets.
	Delete(ctx context.Context, id uint) error
}

// PasswordHasher turns a plaintext password into a salted one-way hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UserUsecase provides business logic for user management.
type UserUsecase struct {
	repo   UserRepository
	hasher PasswordHasher
}

// NewUserUsecase creates a new UserUsecase with the given repository and hasher.
func NewUserUsecase(repo UserRepository, hasher PasswordHasher) *UserUsecase {
	return &UserUsecase{repo: repo, hasher: hasher}
}

// ListUsers returns all users. Callers must not expose the Password field.
func (u *UserUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.repo.List(ctx)
}

// GetUser returns a single user by ID.
func (u *UserUsecase) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	return u.repo.FindByID(ctx, id)
}

// CreateUser validates the input, hashes the password and persists the user.
func (u *UserUsecase) CreateUser(ctx context.Context, username, password string) (*entity.User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidUser)
	}
	if err := u.ensureUsernameFree(ctx, username, 0); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	user := &entity.User{Username: username, Password: hashed}
	if err := u.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser overwrites the username and password of an existing user.
//
// The password is re-hashed unless it is empty or identical to the stored hash,
// so a client echoing back the current hash does not double-hash it.
func (u *UserUsecase) UpdateUser(ctx context.Context, id uint, username, password string) (*entity.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	username, err = normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if username != user.Username {
		if err := u.ensureUsernameFree(ctx, username, id); err != nil {
			return nil, err
		}
	}
	user.Username = username

	if password != "" && password != user.Password {
		hashed, err := u.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
		}
		user.Password = hashed
	}

	if err := u.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user. Tickets assigned to the user become unassigned.
func (u *UserUsecase) DeleteUser(ctx context.Context, id uint) error {
	if _, err := u.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}

// ensureUsernameFree returns ErrUsernameTaken if a user other than selfID owns username.
func (u *UserUsecase) ensureUsernameFree(ctx context.Context, username string, selfID uint) error {
	existing, err := u.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return ErrUsernameTaken
	}
	return nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if len(username) > maxUsernameLength {
		return "", fmt.Errorf("%w: username is longer than %d characters", ErrInvalidUser, maxUsernameLength)
	}
	return username, nil
}
