// Package entity defines the domain entities for the tickets feature.
package entity

import (
	"time"

	userentity "kanban_backend/internal/feature/users/domain/entity"
)

// Status is the swimlane a ticket belongs to.
// Any status may move to any other; there is no transition table.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known labels.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Ticket is a unit of work shown on the board.
type Ticket struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	Status      Status `gorm:"size:32;not null;index"`

	// AssignedUserID is nil for unassigned tickets.
	AssignedUserID *uint            `gorm:"index"`
	AssignedUser   *userentity.User `gorm:"foreignKey:AssignedUserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Ticket) TableName() string {
	return "tickets"
}
