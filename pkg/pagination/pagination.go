package pagination

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/steward/pkg/query"
)

// PageRequest is the page, size, search, and sort a list endpoint was asked for.
// Sort is only read from the query string.
type PageRequest struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Search   *string           `json:"search,omitempty"`
	Sort     []query.SortField `json:"-"`
}

// Normalize clamps the request: pages start at 1 and sizes fall in
// [1, cfg.MaxPageSize], with cfg.DefaultPageSize standing in for zero.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// PageRequestFromQuery reads page, page_size, search, and sort. Malformed
// numbers are treated as absent.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	req := PageRequest{Sort: query.ParseSortFields(values.Get("sort"))}
	req.Page, _ = strconv.Atoi(values.Get("page"))
	req.PageSize, _ = strconv.Atoi(values.Get("page_size"))
	if s := values.Get("search"); s != "" {
		req.Search = &s
	}
	req.Normalize(cfg)
	return req
}

type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult reports at least one page so empty results still render a
// page 1 of 1. Data is never null in JSON.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	pages := 1
	if total > 0 && pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	if data == nil {
		data = make([]T, 0)
	}
	return PageResult[T]{Data: data, Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}
