package registry

import (
	"fmt"
	"strconv"
	"time"
)

// FormatValue renders a record field for a table cell or CSV export.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return YesNo(val)
	case time.Time:
		return FormatDay(val)
	case *time.Time:
		if val == nil {
			return ""
		}
		return FormatDay(*val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// FormatDay renders a date without time, or "" for the zero time.
func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// YesNo renders a flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ActiveLabel renders an is_active flag as a status word.
func ActiveLabel(b bool) string {
	if b {
		return "Active"
	}
	return "Inactive"
}
