package partners

import (
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
)

var messages = map[string]string{
	"first_name.required":   "First name is required",
	"first_name.min":        "First name must be at least 2 characters",
	"last_name.required":    "Last name is required",
	"last_name.min":         "Last name must be at least 2 characters",
	"email.required":        "Email is required",
	"email.email":           "Invalid email address",
	"phone_number.required": "Phone number is required",
	"phone_number.max":      "Phone number must be at most 32 characters",
}

// NewSchema returns the partner form schema. is_active defaults to true.
func NewSchema() *crud.Schema[Form] {
	return crud.NewSchema(messages, normalize)
}

func normalize(f *Form) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	if f.IsActive == nil {
		active := true
		f.IsActive = &active
	}
}
