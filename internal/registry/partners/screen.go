package partners

import (
	"net/url"
	"strconv"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/registry"
)

// Definition describes the Channel Partners screen.
func Definition() registry.Definition[Partner, Form] {
	return registry.Definition[Partner, Form]{
		Entity:   Entity,
		Noun:     "partner",
		Path:     "/channel-partners",
		Title:    "Channel Partners",
		Singular: "Partner",
		Columns: []registry.Column[Partner]{
			{Key: "first_name", Label: "First Name", Sortable: true},
			{Key: "last_name", Label: "Last Name", Sortable: true},
			{Key: "email", Label: "Email", Sortable: true},
			{Key: "phone_number", Label: "Phone Number", Sortable: true},
			{Key: "is_active", Label: "Active", Sortable: true},
			{Key: "created_at", Label: "Created", Sortable: true},
		},
		Fields: []registry.FormField{
			{Name: "first_name", Label: "First Name", Type: registry.FieldText, Placeholder: "Enter first name", Required: true},
			{Name: "last_name", Label: "Last Name", Type: registry.FieldText, Placeholder: "Enter last name", Required: true},
			{Name: "email", Label: "Email", Type: registry.FieldEmail, Placeholder: "Enter email", Required: true},
			{Name: "phone_number", Label: "Phone Number", Type: registry.FieldTel, Placeholder: "Enter phone number", Required: true},
			{Name: "is_active", Label: "Is Active", Type: registry.FieldCheckbox},
		},
		Schema:  NewSchema(),
		Decode:  Decode,
		Values:  Values,
		Details: details,
	}
}

// Decode reads a posted partner form.
func Decode(v url.Values) Form {
	return Form{
		FirstName:   registry.TrimmedValue(v, "first_name"),
		LastName:    registry.TrimmedValue(v, "last_name"),
		Email:       registry.TrimmedValue(v, "email"),
		PhoneNumber: registry.TrimmedValue(v, "phone_number"),
		IsActive:    registry.BoolValue(v, "is_active"),
	}
}

// Values prefills the edit form.
func Values(p Partner) url.Values {
	return url.Values{
		"first_name":   {p.FirstName},
		"last_name":    {p.LastName},
		"email":        {p.Email},
		"phone_number": {p.PhoneNumber},
		"is_active":    {strconv.FormatBool(p.IsActive)},
	}
}

func details(p Partner, _ masterdata.Data) []registry.Detail {
	created := ""
	if !p.CreatedAt.IsZero() {
		created = p.CreatedAt.Format("02 Jan 2006 15:04")
	}
	return []registry.Detail{
		{Label: "First Name", Value: p.FirstName},
		{Label: "Last Name", Value: p.LastName},
		{Label: "Email", Value: p.Email},
		{Label: "Phone Number", Value: p.PhoneNumber},
		{Label: "Active", Value: registry.YesNo(p.IsActive), Badge: true, BadgeOK: p.IsActive},
		{Label: "Created", Value: created},
	}
}
