package client

import (
	"net/url"
	"strconv"
)

// Params describes one page worth of a resource listing: pagination, free
// text search, sorting, and resource-specific filters.
//
// The zero value means "no parameters": the server applies its defaults.
type Params struct {
	Page      int
	PerPage   int
	Q         string
	SortBy    string
	SortOrder string
	Filters   map[string]string
}

// Normalize returns a copy with all absent values dropped. Empty strings and
// non-positive numbers are treated as "not set", so two logically equal
// parameter sets normalize to the same value regardless of how they were
// built.
func (p Params) Normalize() Params {
	n := Params{
		Q:         p.Q,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
	}
	if p.Page > 0 {
		n.Page = p.Page
	}
	if p.PerPage > 0 {
		n.PerPage = p.PerPage
	}
	for k, v := range p.Filters {
		if k == "" || v == "" {
			continue
		}
		if n.Filters == nil {
			n.Filters = make(map[string]string, len(p.Filters))
		}
		n.Filters[k] = v
	}
	return n
}

// Values converts the parameters to URL query values, omitting absent
// entries.
func (p Params) Values() url.Values {
	p = p.Normalize()
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Q != "" {
		v.Set("q", p.Q)
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sort_order", p.SortOrder)
	}
	for k, val := range p.Filters {
		v.Set(k, val)
	}
	return v
}

// Encode serializes the normalized parameters with keys in sorted order, so
// the result is stable across map iteration order and input construction.
func (p Params) Encode() string {
	return p.Values().Encode()
}

// CacheKey derives the cache key for a resource listing. Keys for the same
// resource share the "resource?" prefix, which is what prefix invalidation
// matches on.
func CacheKey(resource string, p Params) string {
	return resource + "?" + p.Encode()
}
