package registry

import (
	"net/url"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata"
)

// Page is the data handed to pages/registry_list.html.
type Page struct {
	Title     string
	Singular  string
	Path      string
	Search    string
	Alert     string
	Loading   bool
	Total     int
	Headers   []Header
	Rows      []Row
	Paging    Paging
	CreateURL string
	ExportURL string
	Dialog    *DialogView
}

// Header is a column heading; URL is set for sortable columns.
type Header struct {
	Label  string
	URL    string
	Active bool
	Dir    string
}

// Row is one rendered table row.
type Row struct {
	ID        string
	Cells     []string
	ViewURL   string
	EditURL   string
	DeleteURL string
}

// Paging drives the pagination controls.
type Paging struct {
	Current int
	Total   int
	PrevURL string
	NextURL string
	Links   []PageLink
}

// PageLink is one numbered page button.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// DialogView is the single open dialog.
type DialogView struct {
	Mode      string
	Title     string
	Action    string
	Submit    string
	CloseURL  string
	EditURL   string
	Alert     string
	Fields    []FieldView
	Details   []Detail
	IsForm    bool
	IsViewing bool
}

// FieldView is a form field with its current value and error.
type FieldView struct {
	FormField
	Value   string
	Checked bool
	Error   string
	Options []masterdata.Option
}

// formState carries a re-rendered form's posted values and errors.
type formState struct {
	values url.Values
	errors crud.FieldErrors
	alert  string
}

func (s *Screen[T, F]) buildPage(ctrl *crud.Controller[T, F], state listState, md masterdata.Data, form formState) Page {
	def := s.def
	sortField, sortDir := ctrl.Sort()
	state.Search = ctrl.SearchTerm()
	state.Sort = sortField
	state.Dir = sortDir
	state.Page = ctrl.CurrentPage()

	page := Page{
		Title:     def.Title,
		Singular:  def.Singular,
		Path:      def.Path,
		Search:    state.Search,
		Alert:     ctrl.Err(),
		Loading:   ctrl.Loading(),
		Total:     len(ctrl.View()),
		CreateURL: state.url(def.Path, "dialog", crud.DialogCreating.String()),
		ExportURL: state.url(def.Path + "/export.csv"),
	}

	for _, col := range def.Columns {
		h := Header{Label: col.Label}
		if col.Sortable {
			h.Active = col.Key == sortField
			if h.Active {
				h.Dir = string(sortDir)
			}
			h.URL = state.withPage(1).url(def.Path, "toggle", col.Key)
		}
		page.Headers = append(page.Headers, h)
	}

	for _, item := range ctrl.Page() {
		id := item.RecordID()
		row := Row{
			ID:        id,
			ViewURL:   state.url(def.Path, "dialog", crud.DialogViewing.String(), "id", id),
			EditURL:   state.url(def.Path, "dialog", crud.DialogEditing.String(), "id", id),
			DeleteURL: state.url(def.Path + "/" + url.PathEscape(id) + "/delete"),
		}
		for _, col := range def.Columns {
			row.Cells = append(row.Cells, col.Cell(item, md))
		}
		page.Rows = append(page.Rows, row)
	}

	total := ctrl.TotalPages()
	page.Paging = Paging{Current: state.Page, Total: total}
	if state.Page > 1 {
		page.Paging.PrevURL = state.withPage(state.Page - 1).url(def.Path)
	}
	if state.Page < total {
		page.Paging.NextURL = state.withPage(state.Page + 1).url(def.Path)
	}
	for n := 1; n <= total; n++ {
		page.Paging.Links = append(page.Paging.Links, PageLink{
			Number:  n,
			URL:     state.withPage(n).url(def.Path),
			Current: n == state.Page,
		})
	}

	page.Dialog = s.buildDialog(ctrl.Dialog(), state, md, form)
	return page
}

func (s *Screen[T, F]) buildDialog(d crud.Dialog[T], state listState, md masterdata.Data, form formState) *DialogView {
	if !d.Open() {
		return nil
	}
	def := s.def
	view := &DialogView{
		Mode:     d.Mode().String(),
		CloseURL: state.url(def.Path),
		Alert:    form.alert,
		IsForm:   d.IsForm(),
	}
	target, hasTarget := d.Target()

	switch d.Mode() {
	case crud.DialogViewing:
		view.IsViewing = true
		view.Title = def.Singular + " Details"
		view.EditURL = state.url(def.Path, "dialog", crud.DialogEditing.String(), "id", target.RecordID())
		if def.Details != nil {
			view.Details = def.Details(target, md)
		}
		return view
	case crud.DialogEditing:
		view.Title = "Edit " + def.Singular
		view.Submit = "Update"
		view.Action = state.url(def.Path + "/" + url.PathEscape(target.RecordID()) + "/edit")
	case crud.DialogCreating:
		view.Title = "Create " + def.Singular
		view.Submit = "Create"
		view.Action = state.url(def.Path)
	}

	values := form.values
	if values == nil && hasTarget && def.Values != nil {
		values = def.Values(target)
	}
	for _, f := range def.Fields {
		fv := FieldView{FormField: f, Error: form.errors[f.Name]}
		raw, present := lastValue(values, f.Name)
		if f.Type == FieldCheckbox {
			// New records default to checked until the user says otherwise.
			fv.Checked = !present || isTruthy(raw)
		} else {
			fv.Value = raw
		}
		if f.OptionsList != "" {
			fv.Options = md.Options(f.OptionsList)
		}
		view.Fields = append(view.Fields, fv)
	}
	if msg := form.errors[crud.GeneralField]; msg != "" && view.Alert == "" {
		view.Alert = msg
	}
	return view
}
