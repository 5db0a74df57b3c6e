package registry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

const listTemplate = "pages/registry_list.html"

// MasterData resolves reference lists for display.
type MasterData interface {
	Lookup(ctx context.Context) (masterdata.Data, error)
}

// Renderer renders a page template.
type Renderer interface {
	RenderStatus(w http.ResponseWriter, status int, name string, data view.TemplateData) error
}

// Deps are the collaborators shared by every screen.
type Deps struct {
	Logger     *slog.Logger
	Templates  Renderer
	CSRF       *shared.CSRFManager
	MasterData MasterData
	PageSize   int
}

// Screen serves one registry entity. Each request gets its own controller.
type Screen[T crud.Record, F any] struct {
	def     Definition[T, F]
	gateway crud.Gateway[T]
	deps    Deps
	logger  *slog.Logger
}

// NewScreen binds a definition to its gateway.
func NewScreen[T crud.Record, F any](def Definition[T, F], gateway crud.Gateway[T], deps Deps) *Screen[T, F] {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen[T, F]{
		def:     def,
		gateway: gateway,
		deps:    deps,
		logger:  logger.With(slog.String("screen", def.Entity)),
	}
}

// Path returns the mount path.
func (s *Screen[T, F]) Path() string {
	return s.def.Path
}

// MountRoutes registers the screen routes relative to its path.
func (s *Screen[T, F]) MountRoutes(r chi.Router) {
	r.Get("/", s.list)
	r.Post("/", s.create)
	r.Get("/export.csv", s.export)
	r.Post("/{id}/edit", s.update)
	r.Post("/{id}/delete", s.delete)
}

func (s *Screen[T, F]) newController() *crud.Controller[T, F] {
	opts := s.def.options()
	opts.PageSize = s.deps.PageSize
	opts.Logger = s.logger
	return crud.NewController[T, F](s.gateway, s.def.Schema, opts)
}

// restore applies a list position to a fresh controller. Paging is applied
// after loading since it is clamped to the loaded collection.
func (s *Screen[T, F]) restore(ctrl *crud.Controller[T, F], state listState) {
	ctrl.SetSearchTerm(state.Search)
	if state.Sort != "" && s.def.sortable(state.Sort) {
		ctrl.SetSort(state.Sort, state.Dir)
	}
}

// load fetches the collection and, when the screen uses it, master data in
// parallel. Failures are reported as flash messages and never abort the page.
func (s *Screen[T, F]) load(ctx context.Context, ctrl *crud.Controller[T, F]) (masterdata.Data, []shared.FlashMessage) {
	var (
		md      = masterdata.Data{}
		mdErr   error
		loadErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loadErr = ctrl.Load(gctx)
		return nil
	})
	if s.def.MasterData && s.deps.MasterData != nil {
		g.Go(func() error {
			data, err := s.deps.MasterData.Lookup(gctx)
			if err != nil {
				mdErr = err
				return nil
			}
			md = data
			return nil
		})
	}
	_ = g.Wait()

	var flashes []shared.FlashMessage
	if loadErr != nil {
		flashes = append(flashes, shared.FlashMessage{Kind: shared.FlashError, Message: ctrl.Err()})
	}
	if mdErr != nil {
		s.logger.Warn("master data unavailable", slog.Any("error", mdErr))
		flashes = append(flashes, shared.FlashMessage{Kind: shared.FlashError, Message: "Failed to load master data"})
	}
	return md, flashes
}

func (s *Screen[T, F]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := parseState(q)
	ctrl := s.newController()
	s.restore(ctrl, state)
	if toggle := q.Get("toggle"); toggle != "" && s.def.sortable(toggle) {
		ctrl.HandleSort(toggle)
	}

	md, flashes := s.load(r.Context(), ctrl)
	ctrl.SetCurrentPage(state.Page)

	switch mode := crud.ParseDialogMode(q.Get("dialog")); mode {
	case crud.DialogCreating:
		ctrl.OpenCreateDialog()
	case crud.DialogViewing, crud.DialogEditing:
		item, ok := ctrl.Find(q.Get("id"))
		if !ok {
			flashes = append(flashes, shared.FlashMessage{Kind: shared.FlashError, Message: s.def.Singular + " not found"})
			break
		}
		if mode == crud.DialogViewing {
			ctrl.OpenViewDialog(item)
		} else {
			ctrl.OpenEditDialog(item)
		}
	}

	s.render(w, r, http.StatusOK, ctrl, state, md, formState{}, flashes)
}

func (s *Screen[T, F]) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	state := parseState(r.URL.Query())
	ctrl := s.newController()
	s.restore(ctrl, state)
	ctrl.OpenCreateDialog()

	err := ctrl.HandleSubmit(r.Context(), s.def.Decode(r.PostForm))
	if err == nil {
		s.redirect(w, r, state, shared.FlashSuccess, s.def.Singular+" created")
		return
	}
	s.submitFailed(w, r, ctrl, state, err)
}

func (s *Screen[T, F]) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	state := parseState(r.URL.Query())
	ctrl := s.newController()
	s.restore(ctrl, state)
	if err := ctrl.Load(r.Context()); err != nil {
		s.redirect(w, r, state, shared.FlashError, ctrl.Err())
		return
	}
	item, ok := ctrl.Find(chi.URLParam(r, "id"))
	if !ok {
		s.redirect(w, r, state, shared.FlashError, s.def.Singular+" not found")
		return
	}
	ctrl.OpenEditDialog(item)

	err := ctrl.HandleSubmit(r.Context(), s.def.Decode(r.PostForm))
	if err == nil {
		s.redirect(w, r, state, shared.FlashSuccess, s.def.Singular+" updated")
		return
	}
	s.submitFailed(w, r, ctrl, state, err)
}

// submitFailed re-renders the open form with field errors (422) or the
// mutation alert (502). The dialog stays open in both cases.
func (s *Screen[T, F]) submitFailed(w http.ResponseWriter, r *http.Request, ctrl *crud.Controller[T, F], state listState, err error) {
	form := formState{values: r.PostForm}
	status := http.StatusUnprocessableEntity
	var fieldErrs crud.FieldErrors
	if errors.As(err, &fieldErrs) {
		form.errors = fieldErrs
	} else {
		status = http.StatusBadGateway
		form.alert = ctrl.Err()
	}

	// A successful reload clears the controller error, so the alert was
	// captured first.
	md, flashes := s.load(r.Context(), ctrl)
	ctrl.SetCurrentPage(state.Page)
	s.render(w, r, status, ctrl, state, md, form, flashes)
}

func (s *Screen[T, F]) delete(w http.ResponseWriter, r *http.Request) {
	state := parseState(r.URL.Query())
	ctrl := s.newController()
	if err := ctrl.Load(r.Context()); err != nil {
		s.redirect(w, r, state, shared.FlashError, ctrl.Err())
		return
	}
	item, ok := ctrl.Find(chi.URLParam(r, "id"))
	if !ok {
		s.redirect(w, r, state, shared.FlashError, s.def.Singular+" not found")
		return
	}
	if err := ctrl.HandleDelete(r.Context(), item); err != nil {
		s.redirect(w, r, state, shared.FlashError, ctrl.Err())
		return
	}
	s.redirect(w, r, state, shared.FlashSuccess, s.def.Singular+" deleted")
}

func (s *Screen[T, F]) redirect(w http.ResponseWriter, r *http.Request, state listState, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && message != "" {
		sess.AddFlash(kind, message)
	}
	http.Redirect(w, r, state.url(s.def.Path), http.StatusSeeOther)
}

func (s *Screen[T, F]) render(w http.ResponseWriter, r *http.Request, status int, ctrl *crud.Controller[T, F], state listState, md masterdata.Data, form formState, flashes []shared.FlashMessage) {
	data := view.TemplateData{
		Title:       s.def.Title,
		CurrentPath: s.def.Path,
		Data:        s.buildPage(ctrl, state, md, form),
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		data.Flashes = append(sess.PopFlashes(), flashes...)
		if s.deps.CSRF != nil {
			token, err := s.deps.CSRF.EnsureToken(sess)
			if err != nil {
				s.logger.Error("csrf token", slog.Any("error", err))
			}
			data.CSRFToken = token
		}
	} else {
		data.Flashes = flashes
	}
	if err := s.deps.Templates.RenderStatus(w, status, listTemplate, data); err != nil {
		s.logger.Error("render", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
