// Package companies defines the company registry entity and screen.
package companies

import "time"

// Entity is the backend collection name.
const Entity = "companies"

// Company is a registered company. Fields pass through from the backend
// unchanged.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Website     string    `json:"website"`
	CompanyType string    `json:"company_type"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Company) RecordID() string   { return c.ID }
func (c Company) SearchText() string { return c.Name }

func (c Company) Field(key string) any {
	switch key {
	case "id":
		return c.ID
	case "name":
		return c.Name
	case "address":
		return c.Address
	case "phone":
		return c.Phone
	case "email":
		return c.Email
	case "website":
		return c.Website
	case "company_type":
		return c.CompanyType
	case "is_active":
		return c.IsActive
	case "created_at":
		return c.CreatedAt
	}
	return nil
}

// Form is the create/update payload.
type Form struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=32"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
	CompanyType string `json:"company_type" validate:"max=64"`
	IsActive    *bool  `json:"is_active"`
}

// Active reports the effective is_active value.
func (f Form) Active() bool {
	return f.IsActive == nil || *f.IsActive
}
