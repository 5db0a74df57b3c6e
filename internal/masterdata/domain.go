// Package masterdata serves reference lists (company types, countries, ...)
// used by the registry screens for display lookups.
package masterdata

import "context"

// Well-known list names.
const (
	ListCompanyTypes = "company_types"
	ListCountries    = "countries"
)

// Option is one entry of a reference list.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Data maps a list name to its ordered options.
type Data map[string][]Option

// Label resolves code within list, falling back to the code itself.
func (d Data) Label(list, code string) string {
	for _, opt := range d[list] {
		if opt.Code == code {
			return opt.Label
		}
	}
	return code
}

// Options returns the named list, or nil.
func (d Data) Options(list string) []Option {
	return d[list]
}

// Source fetches the reference mapping from the registry backend.
type Source interface {
	MasterData(ctx context.Context, dest any) error
}
