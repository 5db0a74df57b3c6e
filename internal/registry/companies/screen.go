package companies

import (
	"net/url"
	"strconv"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/registry"
)

// Definition describes the Companies screen. Company types are shown by
// their master-data label.
func Definition() registry.Definition[Company, Form] {
	return registry.Definition[Company, Form]{
		Entity:   Entity,
		Noun:     "company",
		Path:     "/companies",
		Title:    "Companies",
		Singular: "Company",
		Columns: []registry.Column[Company]{
			{Key: "name", Label: "Name", Sortable: true},
			{Key: "email", Label: "Email", Sortable: true},
			{Key: "phone", Label: "Phone", Sortable: true},
			{Key: "website", Label: "Website", Sortable: true},
			{Key: "company_type", Label: "Type", Sortable: true, Render: func(c Company, md masterdata.Data) string {
				return md.Label(masterdata.ListCompanyTypes, c.CompanyType)
			}},
			{Key: "is_active", Label: "Status", Sortable: true, Render: func(c Company, _ masterdata.Data) string {
				return registry.ActiveLabel(c.IsActive)
			}},
		},
		Fields: []registry.FormField{
			{Name: "name", Label: "Name", Type: registry.FieldText, Placeholder: "Enter company name", Required: true},
			{Name: "address", Label: "Address", Type: registry.FieldTextarea, Placeholder: "Enter address"},
			{Name: "phone", Label: "Phone", Type: registry.FieldTel, Placeholder: "Enter phone"},
			{Name: "email", Label: "Email", Type: registry.FieldEmail, Placeholder: "Enter email"},
			{Name: "website", Label: "Website", Type: registry.FieldURL, Placeholder: "https://"},
			{Name: "company_type", Label: "Type", Type: registry.FieldSelect, OptionsList: masterdata.ListCompanyTypes},
			{Name: "is_active", Label: "Is Active", Type: registry.FieldCheckbox},
		},
		Schema:     NewSchema(),
		Decode:     Decode,
		Values:     Values,
		Details:    details,
		MasterData: true,
	}
}

// Decode reads a posted company form.
func Decode(v url.Values) Form {
	return Form{
		Name:        registry.TrimmedValue(v, "name"),
		Address:     registry.TrimmedValue(v, "address"),
		Phone:       registry.TrimmedValue(v, "phone"),
		Email:       registry.TrimmedValue(v, "email"),
		Website:     registry.TrimmedValue(v, "website"),
		CompanyType: registry.TrimmedValue(v, "company_type"),
		IsActive:    registry.BoolValue(v, "is_active"),
	}
}

// Values prefills the edit form.
func Values(c Company) url.Values {
	return url.Values{
		"name":         {c.Name},
		"address":      {c.Address},
		"phone":        {c.Phone},
		"email":        {c.Email},
		"website":      {c.Website},
		"company_type": {c.CompanyType},
		"is_active":    {strconv.FormatBool(c.IsActive)},
	}
}

func details(c Company, md masterdata.Data) []registry.Detail {
	out := []registry.Detail{
		{Label: "Name", Value: c.Name},
		{Label: "Address", Value: c.Address},
		{Label: "Phone", Value: c.Phone},
		{Label: "Email", Value: c.Email},
		{Label: "Website", Value: c.Website, Href: c.Website},
	}
	if c.CompanyType != "" {
		out = append(out, registry.Detail{Label: "Type", Value: md.Label(masterdata.ListCompanyTypes, c.CompanyType)})
	}
	return append(out, registry.Detail{Label: "Status", Value: registry.ActiveLabel(c.IsActive), Badge: true, BadgeOK: c.IsActive})
}
