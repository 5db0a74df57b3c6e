package registry

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
)

// listState is the list position carried in query strings between requests.
type listState struct {
	Search string
	Sort   string
	Dir    crud.SortDirection
	Page   int
}

func parseState(q url.Values) listState {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return listState{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   q.Get("sort"),
		Dir:    crud.ParseSortDirection(q.Get("dir")),
		Page:   page,
	}
}

func (s listState) values() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set("search", s.Search)
	}
	if s.Sort != "" {
		q.Set("sort", s.Sort)
		q.Set("dir", string(s.Dir))
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	return q
}

// url renders path with the state plus extra key/value pairs.
func (s listState) url(path string, extra ...string) string {
	q := s.values()
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func (s listState) withPage(p int) listState {
	s.Page = p
	return s
}
