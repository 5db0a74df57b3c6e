package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

// memResource keeps records in insertion order.
type memResource[T any, F any] struct {
	mu     sync.Mutex
	items  []T
	ids    func(T) string
	build  func(id string, form F) T
	seq    int
	unique func(existing T, form F) bool
	err    error
}

func (m *memResource[T, F]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]T(nil), m.items...), nil
}

func (m *memResource[T, F]) Create(_ context.Context, form F) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	for _, existing := range m.items {
		if m.unique != nil && m.unique(existing, form) {
			return zero, fmt.Errorf("duplicate: %w", httpx.ErrDuplicate)
		}
	}
	m.seq++
	item := m.build(fmt.Sprintf("id-%d", m.seq), form)
	m.items = append(m.items, item)
	return item, nil
}

func (m *memResource[T, F]) Update(_ context.Context, id string, form F) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.items {
		if m.ids(existing) == id {
			m.items[i] = m.build(id, form)
			return m.items[i], nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s: %w", id, httpx.ErrNotFound)
}

func (m *memResource[T, F]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.items {
		if m.ids(existing) == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, httpx.ErrNotFound)
}

type memStore struct {
	companies *memResource[companies.Company, companies.Form]
	partners  *memResource[partners.Partner, partners.Form]
	master    masterdata.Data
	pingErr   error
}

func newMemStore() *memStore {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &memStore{
		companies: &memResource[companies.Company, companies.Form]{
			ids: func(c companies.Company) string { return c.ID },
			build: func(id string, f companies.Form) companies.Company {
				return companies.Company{ID: id, Name: f.Name, Email: f.Email, Website: f.Website, CompanyType: f.CompanyType, IsActive: f.Active(), CreatedAt: created}
			},
		},
		partners: &memResource[partners.Partner, partners.Form]{
			ids: func(p partners.Partner) string { return p.ID },
			build: func(id string, f partners.Form) partners.Partner {
				return partners.Partner{ID: id, FirstName: f.FirstName, LastName: f.LastName, Email: f.Email, PhoneNumber: f.PhoneNumber, IsActive: f.Active(), CreatedAt: created}
			},
			unique: func(p partners.Partner, f partners.Form) bool { return strings.EqualFold(p.Email, f.Email) },
		},
		master: masterdata.Data{masterdata.ListCompanyTypes: {{Code: "supplier", Label: "Supplier"}}},
	}
}

func (s *memStore) Companies() Resource[companies.Company, companies.Form] { return s.companies }
func (s *memStore) Partners() Resource[partners.Partner, partners.Form]    { return s.partners }
func (s *memStore) Ping(context.Context) error                             { return s.pingErr }

func (s *memStore) MasterData(context.Context) (masterdata.Data, error) {
	return s.master, nil
}

func (s *memStore) ReplaceMasterList(_ context.Context, list string, options []masterdata.Option) error {
	s.master[list] = options
	return nil
}

type APISuite struct {
	suite.Suite
	store  *memStore
	router http.Handler
}

func (s *APISuite) SetupTest() {
	s.store = newMemStore()
	s.router = NewRouter(RouterParams{Store: s.store, Metrics: observability.NewMetrics(), RateLimit: 1000})
}

func (s *APISuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) problem(rec *httptest.ResponseRecorder) httpx.ProblemDetail {
	s.Equal(httpx.ProblemContentType, rec.Header().Get("Content-Type"))
	var p httpx.ProblemDetail
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) TestPartnerLifecycle() {
	rec := s.do(http.MethodGet, "/api/partners", "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/partners", `{"first_name":"Jane","last_name":"Doe","email":"jane@example.com","phone_number":"555"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)
	var created partners.Partner
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal("id-1", created.ID)
	s.True(created.IsActive, "is_active defaults to true")

	rec = s.do(http.MethodPut, "/api/partners/id-1", `{"first_name":"Janet","last_name":"Doe","email":"jane@example.com","phone_number":"555","is_active":false}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var updated partners.Partner
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &updated))
	s.Equal("Janet", updated.FirstName)
	s.False(updated.IsActive)

	rec = s.do(http.MethodDelete, "/api/partners/id-1", "")
	s.Equal(http.StatusNoContent, rec.Code)
	s.Empty(s.store.partners.items)
}

func (s *APISuite) TestValidationProblemListsFields() {
	rec := s.do(http.MethodPost, "/api/partners", `{"first_name":"J","last_name":"Doe","email":"nope","phone_number":"1"}`)
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	p := s.problem(rec)
	s.Equal("First name must be at least 2 characters", p.Errors["first_name"])
	s.Equal("Invalid email address", p.Errors["email"])
	s.Empty(s.store.partners.items)
}

func (s *APISuite) TestMalformedBodyIsBadRequest() {
	rec := s.do(http.MethodPost, "/api/companies", `{"name":`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/companies", `{"name":"Acme","unknown":1}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestDuplicateIsConflict() {
	body := `{"first_name":"Jane","last_name":"Doe","email":"jane@example.com","phone_number":"555"}`
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/partners", body).Code)

	rec := s.do(http.MethodPost, "/api/partners", strings.Replace(body, "jane@", "JANE@", 1))
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("Duplicate", s.problem(rec).Title)
}

func (s *APISuite) TestUnknownRecordIsNotFound() {
	rec := s.do(http.MethodPut, "/api/companies/missing", `{"name":"Acme"}`)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/companies/missing", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Not Found", s.problem(rec).Title)
}

func (s *APISuite) TestStoreFailureIsInternalError() {
	s.store.companies.err = errors.New("connection reset")
	rec := s.do(http.MethodGet, "/api/companies", "")
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "connection reset")
}

func (s *APISuite) TestMasterData() {
	rec := s.do(http.MethodGet, "/api/master-data", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"company_types":[{"code":"supplier","label":"Supplier"}]}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/master-data/countries", `[{"code":"ID","label":"Indonesia"},{"code":"SG","label":"Singapore"}]`)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Len(s.store.master[masterdata.ListCountries], 2)

	rec = s.do(http.MethodPut, "/api/master-data/countries", `[{"code":"ID","label":""},{"code":"ID","label":"Again"}]`)
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	p := s.problem(rec)
	s.Equal("Label is required", p.Errors["0.label"])
	s.Equal("Code is duplicated", p.Errors["1.code"])
}

func (s *APISuite) TestHealthAndMetrics() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", "").Code)

	s.store.pingErr = errors.New("down")
	s.Equal(http.StatusServiceUnavailable, s.do(http.MethodGet, "/healthz", "").Code)

	rec := s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "odyssey_http_requests_total")
}

func (s *APISuite) TestSecureHeaders() {
	rec := s.do(http.MethodGet, "/api/companies", "")
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
	s.Equal("DENY", rec.Header().Get("X-Frame-Options"))
}
