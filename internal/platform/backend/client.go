// Package backend is the HTTP client for the registry REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/odyssey-erp/odyssey-admin/internal/observability"
)

var tracer = otel.Tracer("github.com/odyssey-erp/odyssey-admin/internal/platform/backend")

// MasterDataEntity is the pseudo entity used for the reference-data endpoint.
const MasterDataEntity = "master-data"

// Client wraps calls to the registry API under {baseURL}/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewClient constructs a client. A zero timeout keeps http.Client's default.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

// List fetches the full collection of entity into dest.
func (c *Client) List(ctx context.Context, entity string, dest any) error {
	return c.do(ctx, "list", entity, http.MethodGet, c.entityURL(entity, ""), nil, dest)
}

// Create posts payload to the entity collection. dest may be nil.
func (c *Client) Create(ctx context.Context, entity string, payload, dest any) error {
	return c.do(ctx, "create", entity, http.MethodPost, c.entityURL(entity, ""), payload, dest)
}

// Update replaces the record id. dest may be nil.
func (c *Client) Update(ctx context.Context, entity, id string, payload, dest any) error {
	return c.do(ctx, "update", entity, http.MethodPut, c.entityURL(entity, id), payload, dest)
}

// Delete removes the record id.
func (c *Client) Delete(ctx context.Context, entity, id string) error {
	return c.do(ctx, "delete", entity, http.MethodDelete, c.entityURL(entity, id), nil, nil)
}

// MasterData fetches the reference-data mapping into dest.
func (c *Client) MasterData(ctx context.Context, dest any) error {
	return c.do(ctx, "get", MasterDataEntity, http.MethodGet, c.entityURL(MasterDataEntity, ""), nil, dest)
}

// Ping checks that the API answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", "health", http.MethodGet, c.baseURL+"/healthz", nil, nil)
}

func (c *Client) entityURL(entity, id string) string {
	u := c.baseURL + "/api/" + url.PathEscape(entity)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, op, entity, method, target string, payload, dest any) (err error) {
	ctx, span := tracer.Start(ctx, "backend."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("registry.entity", entity),
			attribute.String("http.request.method", method),
		),
	)
	start := time.Now()
	defer func() {
		c.metrics.ObserveBackend(entity, op, err, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode %s payload: %w", entity, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, entity, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return newAPIError(method, entity, resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil && err != io.EOF {
		return fmt.Errorf("backend: decode %s response: %w", entity, err)
	}
	return nil
}
