package registry

import (
	"encoding/csv"
	"log/slog"
	"net/http"
)

// export streams the filtered and sorted view as CSV using the screen's
// column renderers.
func (s *Screen[T, F]) export(w http.ResponseWriter, r *http.Request) {
	state := parseState(r.URL.Query())
	ctrl := s.newController()
	s.restore(ctrl, state)
	md, _ := s.load(r.Context(), ctrl)
	if ctrl.Err() != "" {
		http.Error(w, ctrl.Err(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.def.Entity+`.csv"`)
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(s.def.Columns)+1)
	header = append(header, "id")
	for _, col := range s.def.Columns {
		header = append(header, col.Label)
	}
	_ = cw.Write(header)
	for _, item := range ctrl.View() {
		record := make([]string, 0, len(header))
		record = append(record, item.RecordID())
		for _, col := range s.def.Columns {
			record = append(record, col.Cell(item, md))
		}
		if err := cw.Write(record); err != nil {
			s.logger.Warn("csv export aborted", slog.Any("error", err))
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.logger.Warn("csv export flush", slog.Any("error", err))
	}
}
