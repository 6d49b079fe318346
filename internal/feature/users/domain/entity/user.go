// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a person who can log in and be assigned tickets.
type User struct {
	// ID is the surrogate key assigned by the store.
	ID uint `gorm:"primaryKey" json:"id"`

	// Username is the login name. Lookups are exact matches.
	Username string `gorm:"uniqueIndex;size:255;not null" json:"username"`

	// Password is always a bcrypt hash at rest and is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
