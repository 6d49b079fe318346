package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kanban_backend/internal/feature/tickets/domain/entity"
	userentity "kanban_backend/internal/feature/users/domain/entity"
	userusecase "kanban_backend/internal/feature/users/usecase"
)

const maxNameLength = 255

// TicketRepository abstracts the persistence layer for tickets.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TicketRepository interface {
	// List returns tickets matching q with AssignedUser preloaded.
	List(ctx context.Context, q entity.ListQuery) ([]entity.Ticket, error)

	// FindByID returns ErrTicketNotFound when no row matches.
	FindByID(ctx context.Context, id uint) (*entity.Ticket, error)

	Create(ctx context.Context, t *entity.Ticket) error
	Update(ctx context.Context, t *entity.Ticket) error

	// Delete returns ErrTicketNotFound when no row was removed.
	Delete(ctx context.Context, id uint) error
}

// UserLookup resolves assignees. It returns userusecase.ErrUserNotFound for unknown IDs.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// TicketInput carries the mutable fields of a ticket.
type TicketInput struct {
	Name           string
	Description    string
	Status         string
	AssignedUserID *uint
}

// TicketUsecase provides business logic for ticket management.
type TicketUsecase struct {
	repo  TicketRepository
	users UserLookup
}

// NewTicketUsecase creates a new TicketUsecase.
func NewTicketUsecase(repo TicketRepository, users UserLookup) *TicketUsecase {
	return &TicketUsecase{repo: repo, users: users}
}

// ListTickets returns tickets sorted and filtered according to the raw query values.
func (u *TicketUsecase) ListTickets(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) {
	q, err := ParseListQuery(sortBy, userID)
	if err != nil {
		return nil, err
	}
	return u.repo.List(ctx, q)
}

// GetTicket returns a single ticket with its assignee.
func (u *TicketUsecase) GetTicket(ctx context.Context, id uint) (*entity.Ticket, error) {
	return u.repo.FindByID(ctx, id)
}

// CreateTicket validates the input and persists a new ticket.
func (u *TicketUsecase) CreateTicket(ctx context.Context, in TicketInput) (*entity.Ticket, error) {
	t := &entity.Ticket{}
	if err := u.apply(ctx, t, in); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return u.repo.FindByID(ctx, t.ID)
}

// UpdateTicket overwrites every mutable field of an existing ticket.
// Status may change to any label regardless of its current value.
func (u *TicketUsecase) UpdateTicket(ctx context.Context, id uint, in TicketInput) (*entity.Ticket, error) {
	t, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.apply(ctx, t, in); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return u.repo.FindByID(ctx, id)
}

// DeleteTicket removes a ticket.
func (u *TicketUsecase) DeleteTicket(ctx context.Context, id uint) error {
	if _, err := u.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}

// apply validates in and copies it onto t.
func (u *TicketUsecase) apply(ctx context.Context, t *entity.Ticket, in TicketInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTicket)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidTicket, maxNameLength)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidTicket)
	}
	status := entity.Status(in.Status)
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTicket, in.Status)
	}

	var assignee *uint
	if in.AssignedUserID != nil {
		id := *in.AssignedUserID
		if _, err := u.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, userusecase.ErrUserNotFound) {
				return fmt.Errorf("%w: assigned user %d does not exist", ErrInvalidTicket, id)
			}
			return err
		}
		assignee = &id
	}

	t.Name = name
	t.Description = in.Description
	t.Status = status
	t.AssignedUserID = assignee
	t.AssignedUser = nil
	return nil
}
