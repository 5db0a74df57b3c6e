// Package registry renders list/detail/edit screens for registry entities on
// top of crud.Controller. Entity packages describe themselves with a
// Definition and mount a Screen.
package registry

import (
	"net/url"
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
)

// Column describes one data table column.
type Column[T crud.Record] struct {
	Key      string
	Label    string
	Sortable bool
	// Render formats the cell; nil falls back to the record's Field value.
	Render func(item T, md masterdata.Data) string
}

// FieldType selects the form control.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldURL      FieldType = "url"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// FormField describes one input of the create/edit form.
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Placeholder string
	Required    bool
	// OptionsList names the master-data list feeding a select.
	OptionsList string
}

// Detail is one row of the view dialog.
type Detail struct {
	Label string
	Value string
	Href  string
	// Badge renders the value as a status badge; BadgeOK picks its colour.
	Badge   bool
	BadgeOK bool
}

// Definition binds an entity type to its screen.
type Definition[T crud.Record, F any] struct {
	// Entity is the backend collection, e.g. "partners".
	Entity string
	// Noun is the singular used in messages, e.g. "partner".
	Noun string
	// Path is where the screen is mounted, e.g. "/channel-partners".
	Path     string
	Title    string
	Singular string

	Columns []Column[T]
	Fields  []FormField
	Schema  *crud.Schema[F]

	// Decode reads a posted form.
	Decode func(url.Values) F
	// Values prefills the edit form from a record.
	Values func(T) url.Values
	// Details lists the view dialog rows.
	Details func(T, masterdata.Data) []Detail

	// MasterData loads reference lists alongside the collection.
	MasterData bool
}

func (d Definition[T, F]) sortable(key string) bool {
	for _, col := range d.Columns {
		if col.Key == key {
			return col.Sortable
		}
	}
	return false
}

func (d Definition[T, F]) options() crud.Options {
	return crud.Options{Entity: d.Entity, Noun: d.Noun}
}

// Cell renders one column value for item.
func (c Column[T]) Cell(item T, md masterdata.Data) string {
	if c.Render != nil {
		return c.Render(item, md)
	}
	return FormatValue(item.Field(c.Key))
}

// BoolValue reads a checkbox posted after a hidden fallback input. The last
// value wins; a missing field yields nil so schema defaults apply.
func BoolValue(values url.Values, name string) *bool {
	raw, ok := lastValue(values, name)
	if !ok {
		return nil
	}
	v := isTruthy(raw)
	return &v
}

// TrimmedValue returns the first value of name without surrounding spaces.
func TrimmedValue(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

func lastValue(values url.Values, name string) (string, bool) {
	vs, ok := values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
