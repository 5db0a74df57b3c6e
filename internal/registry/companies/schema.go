package companies

import (
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
)

var messages = map[string]string{
	"name.required": "Company name is required",
	"name.min":      "Company name must be at least 2 characters",
	"email.email":   "Invalid email address",
	"website.url":   "Website must be a valid URL",
}

// NewSchema returns the company form schema.
func NewSchema() *crud.Schema[Form] {
	return crud.NewSchema(messages, func(f *Form) {
		f.Name = strings.TrimSpace(f.Name)
		f.Address = strings.TrimSpace(f.Address)
		f.Phone = strings.TrimSpace(f.Phone)
		f.Email = strings.TrimSpace(f.Email)
		f.Website = strings.TrimSpace(f.Website)
		f.CompanyType = strings.TrimSpace(f.CompanyType)
		if f.IsActive == nil {
			active := true
			f.IsActive = &active
		}
	})
}
