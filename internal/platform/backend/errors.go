package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Method string
	Entity string
	Status int
	Title  string
	Detail string
	Fields map[string]string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("backend: %s %s returned %d", e.Method, e.Entity, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	} else if e.Title != "" {
		msg += ": " + e.Title
	}
	return msg
}

// As lets callers match validation responses as crud.FieldErrors.
func (e *APIError) As(target any) bool {
	fe, ok := target.(*crud.FieldErrors)
	if !ok || len(e.Fields) == 0 {
		return false
	}
	*fe = crud.FieldErrors(e.Fields)
	return true
}

// Is maps status codes onto the httpx sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case httpx.ErrNotFound:
		return e.Status == http.StatusNotFound
	case httpx.ErrDuplicate:
		return e.Status == http.StatusConflict
	case httpx.ErrValidation:
		return e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func newAPIError(method, entity string, resp *http.Response) *APIError {
	apiErr := &APIError{Method: method, Entity: entity, Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		apiErr.Title = http.StatusText(resp.StatusCode)
		return apiErr
	}
	var problem httpx.ProblemDetail
	if json.Unmarshal(raw, &problem) == nil && (problem.Title != "" || problem.Detail != "" || len(problem.Errors) > 0) {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
		apiErr.Fields = problem.Errors
		return apiErr
	}
	apiErr.Title = http.StatusText(resp.StatusCode)
	return apiErr
}
