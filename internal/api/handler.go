package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

// Handler serves the registry JSON API.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

// MountRoutes registers the API under r, normally at /api.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/"+companies.Entity, resource[companies.Company, companies.Form]{
		res:    h.store.Companies(),
		schema: companies.NewSchema(),
		logger: h.logger.With(slog.String("resource", companies.Entity)),
	}.mount)
	r.Route("/"+partners.Entity, resource[partners.Partner, partners.Form]{
		res:    h.store.Partners(),
		schema: partners.NewSchema(),
		logger: h.logger.With(slog.String("resource", partners.Entity)),
	}.mount)
	r.Get("/master-data", h.masterData)
	r.Put("/master-data/{list}", h.replaceMasterList)
}

func (h *Handler) masterData(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.MasterData(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if data == nil {
		data = masterdata.Data{}
	}
	httpx.JSON(w, http.StatusOK, data)
}

func (h *Handler) replaceMasterList(w http.ResponseWriter, r *http.Request) {
	var options []masterdata.Option
	if err := httpx.DecodeJSON(r, &options); err != nil {
		h.fail(w, fmt.Errorf("%w: %v", httpx.ErrBadRequest, err))
		return
	}
	fields := crud.FieldErrors{}
	seen := map[string]bool{}
	for i, opt := range options {
		switch {
		case opt.Code == "":
			fields[fmt.Sprintf("%d.code", i)] = "Code is required"
		case seen[opt.Code]:
			fields[fmt.Sprintf("%d.code", i)] = "Code is duplicated"
		}
		seen[opt.Code] = true
		if opt.Label == "" {
			fields[fmt.Sprintf("%d.label", i)] = "Label is required"
		}
	}
	if len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}
	if err := h.store.ReplaceMasterList(r.Context(), chi.URLParam(r, "list"), options); err != nil {
		h.fail(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	logFailure(h.logger, err)
	httpx.RespondError(w, err)
}

func logFailure(logger *slog.Logger, err error) {
	var fieldErrs crud.FieldErrors
	switch {
	case errors.As(err, &fieldErrs), errors.Is(err, httpx.ErrNotFound), errors.Is(err, httpx.ErrBadRequest):
		logger.Debug("request rejected", slog.Any("error", err))
	case errors.Is(err, httpx.ErrDuplicate):
		logger.Info("duplicate rejected", slog.Any("error", err))
	default:
		logger.Error("request failed", slog.Any("error", err))
	}
}

// resource adapts one Resource to REST routes, validating writes with the
// same schema the admin screens use.
type resource[T any, F any] struct {
	res    Resource[T, F]
	schema *crud.Schema[F]
	logger *slog.Logger
}

func (rs resource[T, F]) mount(r chi.Router) {
	r.Get("/", rs.list)
	r.Post("/", rs.create)
	r.Put("/{id}", rs.update)
	r.Delete("/{id}", rs.delete)
}

func (rs resource[T, F]) list(w http.ResponseWriter, r *http.Request) {
	items, err := rs.res.List(r.Context())
	if err != nil {
		rs.fail(w, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (rs resource[T, F]) decode(r *http.Request) (F, error) {
	var form F
	if err := httpx.DecodeJSON(r, &form); err != nil {
		return form, fmt.Errorf("%w: %v", httpx.ErrBadRequest, err)
	}
	form = rs.schema.Apply(form)
	if fieldErrs := rs.schema.Validate(form); len(fieldErrs) > 0 {
		return form, fieldErrs
	}
	return form, nil
}

func (rs resource[T, F]) create(w http.ResponseWriter, r *http.Request) {
	form, err := rs.decode(r)
	if err != nil {
		rs.fail(w, err)
		return
	}
	item, err := rs.res.Create(r.Context(), form)
	if err != nil {
		rs.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (rs resource[T, F]) update(w http.ResponseWriter, r *http.Request) {
	form, err := rs.decode(r)
	if err != nil {
		rs.fail(w, err)
		return
	}
	item, err := rs.res.Update(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		rs.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (rs resource[T, F]) delete(w http.ResponseWriter, r *http.Request) {
	if err := rs.res.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		rs.fail(w, err)
		return
	}
	httpx.NoContent(w)
}

func (rs resource[T, F]) fail(w http.ResponseWriter, err error) {
	logFailure(rs.logger, err)
	httpx.RespondError(w, err)
}
