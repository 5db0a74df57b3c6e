package registry

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/crud"
)

func TestFormatValue(t *testing.T) {
	day := time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "x", FormatValue("x"))
	assert.Equal(t, "Yes", FormatValue(true))
	assert.Equal(t, "29 Feb 2024", FormatValue(day))
	assert.Equal(t, "29 Feb 2024", FormatValue(&day))
	assert.Equal(t, "", FormatValue((*time.Time)(nil)))
	assert.Equal(t, "", FormatValue(time.Time{}))
	assert.Equal(t, "42", FormatValue(42))
	assert.Equal(t, "1.5", FormatValue(1.5))
}

func TestBoolValue(t *testing.T) {
	assert.Nil(t, BoolValue(url.Values{}, "is_active"))

	v := BoolValue(url.Values{"is_active": {"false", "on"}}, "is_active")
	require.NotNil(t, v)
	assert.True(t, *v)

	v = BoolValue(url.Values{"is_active": {"0"}}, "is_active")
	require.NotNil(t, v)
	assert.False(t, *v)
}

func TestListStateURL(t *testing.T) {
	state := parseState(url.Values{"search": {" acme "}, "sort": {"name"}, "dir": {"DESC"}, "page": {"2"}})
	assert.Equal(t, listState{Search: "acme", Sort: "name", Dir: crud.SortDesc, Page: 2}, state)
	assert.Equal(t, "/companies?dir=desc&page=2&search=acme&sort=name", state.url("/companies"))
	assert.Equal(t, "/companies?dialog=new&dir=desc&search=acme&sort=name", state.withPage(1).url("/companies", "dialog", "new"))

	assert.Equal(t, "/companies", parseState(url.Values{"page": {"-3"}}).url("/companies"))
}
