package gists

import (
	"math"
	"net/url"
	"strconv"
)

// Pagination defaults applied when a query parameter is absent or not an integer.
const (
	DefaultPage    = 1
	DefaultPerPage = 5
)

// PageContext holds the pagination state of one listing request.
type PageContext struct {
	User     string
	Page     int
	PerPage  int
	PrevPage int
	NextPage int
}

// NewPageContext derives the previous and next pages. PrevPage never drops
// below 1 and NextPage never overflows. Page and PerPage are not bounded here; GitHub applies its own
// limits.
func NewPageContext(user string, page, perPage int) PageContext {
	prev := page - 1
	if prev < 1 {
		prev = 1
	}
	next := page + 1
	if page == math.MaxInt {
		next = page
	}
	return PageContext{
		User:     user,
		Page:     page,
		PerPage:  perPage,
		PrevPage: prev,
		NextPage: next,
	}
}

// ParsePageContext reads page and per_page from the query, falling back to
// the defaults for missing or non-integer values.
func ParsePageContext(user string, query url.Values) PageContext {
	return NewPageContext(user,
		intParam(query, "page", DefaultPage),
		intParam(query, "per_page", DefaultPerPage))
}

func intParam(query url.Values, name string, fallback int) int {
	raw := query.Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// PageURL links to the listing of user at page, keeping perPage.
func PageURL(user string, page, perPage int) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	return "/" + url.PathEscape(user) + "?" + query.Encode()
}
