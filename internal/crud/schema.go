package crud

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GeneralField keys errors that do not belong to a single form field.
const GeneralField = "general"

// FieldErrors maps a form field (by its json name) to a human message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Schema validates form structs of type F using validator struct tags.
//
// Messages are looked up as "field.tag" first and then "field"; anything
// unmatched falls back to a generated message.
type Schema[F any] struct {
	validate  *validator.Validate
	messages  map[string]string
	normalize func(*F)
}

// NewSchema builds a Schema. normalize may be nil; it runs before validation and
// is where defaults such as is_active=true are applied.
func NewSchema[F any](messages map[string]string, normalize func(*F)) *Schema[F] {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if messages == nil {
		messages = map[string]string{}
	}
	return &Schema[F]{validate: v, messages: messages, normalize: normalize}
}

// Apply returns the form with defaults and normalisation applied.
func (s *Schema[F]) Apply(form F) F {
	if s != nil && s.normalize != nil {
		s.normalize(&form)
	}
	return form
}

// Validate checks the form and returns nil when it is valid.
func (s *Schema[F]) Validate(form F) FieldErrors {
	if s == nil {
		return nil
	}
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{GeneralField: err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fieldErr := range verrs {
		field := fieldErr.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := s.messages[field+"."+fieldErr.Tag()]; ok {
			out[field] = msg
			continue
		}
		if msg, ok := s.messages[field]; ok {
			out[field] = msg
			continue
		}
		out[field] = defaultMessage(fieldErr)
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "email":
		return label + " must be a valid email address"
	case "url", "http_url":
		return label + " must be a valid URL"
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
	}
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
