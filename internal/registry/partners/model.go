// Package partners defines the channel-partner registry entity and screen.
package partners

import (
	"strings"
	"time"
)

// Entity is the backend collection name.
const Entity = "partners"

// Partner is a channel partner as returned by the backend.
type Partner struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordID implements crud.Record.
func (p Partner) RecordID() string { return p.ID }

// SearchText is the full name.
func (p Partner) SearchText() string { return p.FullName() }

// FullName joins first and last name.
func (p Partner) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Field returns the value behind a column key.
func (p Partner) Field(key string) any {
	switch key {
	case "id":
		return p.ID
	case "first_name":
		return p.FirstName
	case "last_name":
		return p.LastName
	case "email":
		return p.Email
	case "phone_number":
		return p.PhoneNumber
	case "is_active":
		return p.IsActive
	case "created_at":
		return p.CreatedAt
	}
	return nil
}

// Form is the create/update payload.
type Form struct {
	FirstName   string `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"last_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
	IsActive    *bool  `json:"is_active"`
}

// Active reports the effective is_active value.
func (f Form) Active() bool {
	return f.IsActive == nil || *f.IsActive
}
