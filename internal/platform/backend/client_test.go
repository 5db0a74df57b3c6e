package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w widget) RecordID() string   { return w.ID }
func (w widget) SearchText() string { return w.Name }
func (w widget) Field(key string) any {
	if key == "name" {
		return w.Name
	}
	return nil
}

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type requestLog struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.reqs...)
}

func newTestAPI(t *testing.T) (*Client, *requestLog) {
	t.Helper()
	seen := &requestLog{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			body, _ := io.ReadAll(req.Body)
			seen.mu.Lock()
			seen.reqs = append(seen.reqs, recordedRequest{Method: req.Method, Path: req.URL.Path, Body: string(body)})
			seen.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/widgets", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, []widget{{ID: "1", Name: "Sprocket"}, {ID: "2", Name: "Gear"}})
	})
	r.Get("/api/empty", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	})
	r.Post("/api/widgets", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusCreated, widget{ID: "3", Name: "New"})
	})
	r.Post("/api/invalid", func(w http.ResponseWriter, req *http.Request) {
		httpx.ValidationProblem(w, map[string]string{"name": "name is taken"})
	})
	r.Put("/api/widgets/{id}", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, widget{ID: chi.URLParam(req, "id")})
	})
	r.Delete("/api/widgets/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") == "missing" {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "widget missing")
			return
		}
		httpx.NoContent(w)
	})
	r.Get("/api/broken", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	r.Get("/api/master-data", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string][]map[string]string{"countries": {{"code": "ID", "label": "Indonesia"}}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, observability.NewMetrics()), seen
}

func TestGatewayListDecodesCollection(t *testing.T) {
	client, _ := newTestAPI(t)
	gw := NewGateway[widget](client, "widgets")

	items, err := gw.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "1", Name: "Sprocket"}, {ID: "2", Name: "Gear"}}, items)
}

func TestGatewayListNullBody(t *testing.T) {
	client, _ := newTestAPI(t)
	items, err := NewGateway[widget](client, "empty").List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGatewayWritesSendJSON(t *testing.T) {
	client, seen := newTestAPI(t)
	gw := NewGateway[widget](client, "widgets")
	ctx := context.Background()

	require.NoError(t, gw.Create(ctx, map[string]string{"name": "New"}))
	require.NoError(t, gw.Update(ctx, "7", map[string]string{"name": "Renamed"}))
	require.NoError(t, gw.Delete(ctx, "7"))

	reqs := seen.all()
	require.Len(t, reqs, 3)
	assert.Equal(t, recordedRequest{Method: http.MethodPost, Path: "/api/widgets", Body: `{"name":"New"}`}, reqs[0])
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/api/widgets/7", reqs[1].Path)
	assert.Equal(t, http.MethodDelete, reqs[2].Method)
}

func TestAPIErrorCarriesProblemDetail(t *testing.T) {
	client, _ := newTestAPI(t)

	err := NewGateway[widget](client, "widgets").Delete(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "widget missing", apiErr.Detail)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestAPIErrorPlainTextBody(t *testing.T) {
	client, _ := newTestAPI(t)

	err := NewGateway[widget](client, "broken").Delete(context.Background(), "x")
	require.Error(t, err)

	_, err = NewGateway[widget](client, "broken").List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Title)
}

func TestValidationProblemBecomesFieldErrors(t *testing.T) {
	client, _ := newTestAPI(t)

	err := NewGateway[widget](client, "invalid").Create(context.Background(), map[string]string{"name": "x"})
	var fieldErrs crud.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, "name is taken", fieldErrs["name"])
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestMasterData(t *testing.T) {
	client, seen := newTestAPI(t)

	var data map[string][]map[string]string
	require.NoError(t, client.MasterData(context.Background(), &data))
	assert.Equal(t, "Indonesia", data["countries"][0]["label"])
	assert.Equal(t, "/api/master-data", seen.all()[0].Path)
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond, nil)
	err := client.List(context.Background(), "widgets", &[]widget{})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestEncodeFailure(t *testing.T) {
	client, _ := newTestAPI(t)
	err := client.Create(context.Background(), "widgets", map[string]any{"bad": make(chan int)}, nil)
	require.Error(t, err)
	var syntaxErr *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &syntaxErr)
}
