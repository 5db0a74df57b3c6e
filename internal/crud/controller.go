package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNoFormOpen is returned by HandleSubmit when no create or edit dialog is open.
var ErrNoFormOpen = errors.New("crud: no create or edit dialog open")

// DefaultPageSize applies when Options.PageSize is zero.
const DefaultPageSize = 10

// Options configures a Controller.
type Options struct {
	// Entity is the plural name used in messages, e.g. "partners".
	Entity string
	// Noun is the singular name used in messages, e.g. "partner".
	Noun string
	// PageSize is rows per page. Zero selects DefaultPageSize; a negative
	// value disables paging.
	PageSize int
	Logger   *slog.Logger
}

// Controller owns the state of one list screen: the collection, search and
// sort settings, paging, the last error, and the single dialog target.
// Build one per screen instance with NewController; it is safe for use by
// concurrent goroutines.
type Controller[T Record, F any] struct {
	gateway Gateway[T]
	schema  *Schema[F]
	opts    Options
	logger  *slog.Logger

	mu          sync.Mutex
	items       []T
	loading     bool
	errMsg      string
	search      string
	sortField   string
	sortDir     SortDirection
	currentPage int
	dialog      Dialog[T]
	loadSeq     uint64
}

// NewController returns a fresh controller bound to gateway and schema.
func NewController[T Record, F any](gateway Gateway[T], schema *Schema[F], opts Options) *Controller[T, F] {
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Entity == "" {
		opts.Entity = "records"
	}
	if opts.Noun == "" {
		opts.Noun = "record"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[T, F]{
		gateway:     gateway,
		schema:      schema,
		opts:        opts,
		logger:      logger.With(slog.String("entity", opts.Entity)),
		sortDir:     SortAsc,
		currentPage: 1,
		dialog:      closedDialog[T](),
	}
}

// Load fetches the whole collection. On failure the previous collection is
// kept and Err reports a message. When loads overlap only the most recently
// started one is applied.
func (c *Controller[T, F]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	c.mu.Unlock()

	items, err := c.gateway.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq {
		c.logger.Debug("discarding superseded load", slog.Uint64("seq", seq))
		return nil
	}
	c.loading = false
	if err != nil {
		c.errMsg = fmt.Sprintf("Failed to load %s", c.opts.Entity)
		c.logger.Error("load failed", slog.Any("error", err))
		return fmt.Errorf("crud: load %s: %w", c.opts.Entity, err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.errMsg = ""
	c.clampPageLocked()
	return nil
}

// SetSearchTerm changes the search filter and returns to the first page.
func (c *Controller[T, F]) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	c.currentPage = 1
}

// SetSort restores a sort without toggle semantics.
func (c *Controller[T, F]) SetSort(field string, dir SortDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortField = field
	if dir != SortDesc {
		dir = SortAsc
	}
	c.sortDir = dir
}

// HandleSort toggles direction when field is already the sort field,
// otherwise it sorts by field ascending.
func (c *Controller[T, F]) HandleSort(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortField == field {
		c.sortDir = c.sortDir.Toggle()
		return
	}
	c.sortField = field
	c.sortDir = SortAsc
}

// SetCurrentPage moves to page p, clamped to the available pages.
func (c *Controller[T, F]) SetCurrentPage(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentPage = p
	c.clampPageLocked()
}

func (c *Controller[T, F]) clampPageLocked() {
	pages := totalPages(len(filterRecords(c.items, c.search)), c.opts.PageSize)
	if c.currentPage > pages {
		c.currentPage = pages
	}
	if c.currentPage < 1 {
		c.currentPage = 1
	}
}

// OpenCreateDialog replaces any open dialog with the create form.
func (c *Controller[T, F]) OpenCreateDialog() {
	c.setDialog(Dialog[T]{mode: DialogCreating})
}

// OpenEditDialog replaces any open dialog with the edit form for item.
func (c *Controller[T, F]) OpenEditDialog(item T) {
	c.setDialog(Dialog[T]{mode: DialogEditing, item: item})
}

// OpenViewDialog replaces any open dialog with the detail view for item.
func (c *Controller[T, F]) OpenViewDialog(item T) {
	c.setDialog(Dialog[T]{mode: DialogViewing, item: item})
}

// CloseDialog returns to no active dialog target.
func (c *Controller[T, F]) CloseDialog() {
	c.setDialog(closedDialog[T]())
}

func (c *Controller[T, F]) setDialog(d Dialog[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = d
}

// HandleSubmit validates form and dispatches a create or update depending on
// the open dialog. Validation failures return FieldErrors without contacting
// the backend. After a successful mutation the collection is reloaded and the
// dialog closed; on backend failure the dialog stays open and Err is set.
func (c *Controller[T, F]) HandleSubmit(ctx context.Context, form F) error {
	c.mu.Lock()
	dialog := c.dialog
	c.mu.Unlock()
	if !dialog.IsForm() {
		return ErrNoFormOpen
	}

	form = c.schema.Apply(form)
	if fieldErrs := c.schema.Validate(form); len(fieldErrs) > 0 {
		return fieldErrs
	}

	var (
		err  error
		verb string
	)
	if target, ok := dialog.Target(); ok {
		verb = "update"
		err = c.gateway.Update(ctx, target.RecordID(), form)
	} else {
		verb = "create"
		err = c.gateway.Create(ctx, form)
	}
	if err != nil {
		var remote FieldErrors
		if errors.As(err, &remote) {
			return remote
		}
		c.setError(fmt.Sprintf("Failed to %s %s", verb, c.opts.Noun))
		c.logger.Error(verb+" failed", slog.Any("error", err))
		return fmt.Errorf("crud: %s %s: %w", verb, c.opts.Noun, err)
	}

	if err := c.Load(ctx); err != nil {
		c.logger.Warn("reload after "+verb+" failed", slog.Any("error", err))
	}
	c.CloseDialog()
	return nil
}

// HandleDelete removes item and reloads. On failure the collection is left
// untouched and Err is set.
func (c *Controller[T, F]) HandleDelete(ctx context.Context, item T) error {
	if err := c.gateway.Delete(ctx, item.RecordID()); err != nil {
		c.setError(fmt.Sprintf("Failed to delete %s", c.opts.Noun))
		c.logger.Error("delete failed", slog.Any("error", err), slog.String("id", item.RecordID()))
		return fmt.Errorf("crud: delete %s: %w", c.opts.Noun, err)
	}
	if err := c.Load(ctx); err != nil {
		c.logger.Warn("reload after delete failed", slog.Any("error", err))
	}
	return nil
}

func (c *Controller[T, F]) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
}

// Find returns the loaded record with the given id.
func (c *Controller[T, F]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns the loaded collection in server order.
func (c *Controller[T, F]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// View returns the filtered and sorted collection.
func (c *Controller[T, F]) View() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller[T, F]) viewLocked() []T {
	out := filterRecords(c.items, c.search)
	sortRecords(out, c.sortField, c.sortDir)
	return out
}

// Page returns the current page of View.
func (c *Controller[T, F]) Page() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.viewLocked()
	size := c.opts.PageSize
	if size <= 0 {
		return view
	}
	start := (c.currentPage - 1) * size
	if start >= len(view) {
		return []T{}
	}
	end := start + size
	if end > len(view) {
		end = len(view)
	}
	return view[start:end]
}

// Loading reports whether a load is outstanding.
func (c *Controller[T, F]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last human readable error, or "".
func (c *Controller[T, F]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// SearchTerm returns the active search filter.
func (c *Controller[T, F]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Sort returns the active sort field and direction.
func (c *Controller[T, F]) Sort() (string, SortDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortField, c.sortDir
}

// CurrentPage returns the 1-based page number.
func (c *Controller[T, F]) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// TotalPages returns the page count of View, at least 1.
func (c *Controller[T, F]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalPages(len(filterRecords(c.items, c.search)), c.opts.PageSize)
}

// Dialog returns the active dialog.
func (c *Controller[T, F]) Dialog() Dialog[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog
}

// Schema exposes the form schema, used by screens to normalise values for display.
func (c *Controller[T, F]) Schema() *Schema[F] {
	return c.schema
}
