package crud

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// SortDirection is either SortAsc or SortDesc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection defaults anything that is not "desc" to ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// filterRecords keeps the records whose search text contains term under
// Unicode case folding. The input slice is never modified.
func filterRecords[T Record](items []T, term string) []T {
	if term == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	folder := cases.Fold()
	needle := folder.String(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(folder.String(item.SearchText()), needle) {
			out = append(out, item)
		}
	}
	return out
}

// sortRecords sorts in place and keeps the relative order of equal values.
func sortRecords[T Record](items []T, field string, dir SortDirection) {
	if field == "" {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compareValues(items[i].Field(field), items[j].Field(field))
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues orders values of the same kind. Mismatched, nil, or
// unsupported values compare equal.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case *time.Time:
		if bv, ok := b.(*time.Time); ok && av != nil && bv != nil {
			return av.Compare(*bv)
		}
	default:
		if af, ok := toFloat(a); ok {
			if bf, ok := toFloat(b); ok {
				switch {
				case af < bf:
					return -1
				case af > bf:
					return 1
				}
			}
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func totalPages(n, pageSize int) int {
	if pageSize <= 0 || n == 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}
