package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

type fakeAPI struct {
	mu       sync.Mutex
	partners []partners.Partner
	deleted  []string
	failList bool
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		partners: []partners.Partner{
			{ID: "p1", FirstName: "Budi", LastName: "Santoso", Email: "budi@example.com", PhoneNumber: "0811", IsActive: true},
			{ID: "p2", FirstName: "Ayu", LastName: "Lestari", Email: "ayu@example.com", PhoneNumber: "0812", IsActive: false},
			{ID: "p3", FirstName: "Citra", LastName: "Dewi", Email: "citra@example.com", PhoneNumber: "0813", IsActive: true},
		},
	}
	r := chi.NewRouter()
	r.Get("/api/partners", func(w http.ResponseWriter, req *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		if api.failList {
			httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "database unavailable")
			return
		}
		httpx.JSON(w, http.StatusOK, api.partners)
	})
	r.Delete("/api/partners/{id}", func(w http.ResponseWriter, req *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		id := chi.URLParam(req, "id")
		api.deleted = append(api.deleted, id)
		kept := api.partners[:0]
		for _, p := range api.partners {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		api.partners = kept
		httpx.NoContent(w)
	})
	r.Get("/api/companies", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, []companies.Company{
			{ID: "c1", Name: "Odyssey Trading", CompanyType: "distributor", IsActive: true},
		})
	})
	r.Get("/api/master-data", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, masterdata.Data{
			masterdata.ListCompanyTypes: {{Code: "distributor", Label: "Distributor"}, {Code: "reseller", Label: "Reseller"}},
			masterdata.ListCountries:    {{Code: "ID", Label: "Indonesia"}},
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--backend-url", srv.URL, "--timeout", (2 * time.Second).String()}, args...))
	err := root.Execute()
	return out.String(), err
}

func dataLines(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return lines[1:]
}

func TestPartnersListPrintsEveryRow(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "partners", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FIRST NAME")
	assert.Len(t, dataLines(out), 3)
	assert.NotContains(t, out, "Page ")
}

func TestPartnersListSearchMatchesFullName(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "partners", "list", "--search", "ayu les")
	require.NoError(t, err)
	lines := dataLines(out)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "p2"))
}

func TestPartnersListSortDescending(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "partners", "list", "--sort", "first_name", "--desc")
	require.NoError(t, err)
	lines := dataLines(out)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "p3"))
	assert.True(t, strings.HasPrefix(lines[2], "p2"))
}

func TestPartnersListPaging(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "partners", "list", "--sort", "first_name", "--page-size", "2", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2 of 2 (3 matching)")
	assert.Contains(t, out, "Citra")
	assert.NotContains(t, out, "Budi")
}

func TestPartnersListRejectsUnknownSortColumn(t *testing.T) {
	_, srv := newFakeAPI(t)

	_, err := run(t, srv, "partners", "list", "--sort", "shoe_size")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort column")
}

func TestPartnersListEmptySearch(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "partners", "list", "--search", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "No partners found.\n", out)
}

func TestPartnersListBackendFailure(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.failList = true

	_, err := run(t, srv, "partners", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load partners")
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestPartnersDelete(t *testing.T) {
	api, srv := newFakeAPI(t)

	out, err := run(t, srv, "partners", "delete", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Partner deleted: Budi Santoso\n", out)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []string{"p1"}, api.deleted)
	assert.Len(t, api.partners, 2)
}

func TestPartnersDeleteUnknownID(t *testing.T) {
	api, srv := newFakeAPI(t)

	_, err := run(t, srv, "partners", "delete", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partner nope not found")
	assert.Empty(t, api.deleted)
}

func TestCompaniesListResolvesTypeLabel(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "companies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Distributor")
	assert.Contains(t, out, "Active")
}

func TestMasterDataShow(t *testing.T) {
	_, srv := newFakeAPI(t)

	out, err := run(t, srv, "masterdata", "show")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "company_types"))
	assert.True(t, strings.HasPrefix(lines[3], "countries"))

	out, err = run(t, srv, "masterdata", "show", masterdata.ListCountries)
	require.NoError(t, err)
	assert.Contains(t, out, "Indonesia")
	assert.NotContains(t, out, "Distributor")

	_, err = run(t, srv, "masterdata", "show", "currencies")
	require.Error(t, err)
}
