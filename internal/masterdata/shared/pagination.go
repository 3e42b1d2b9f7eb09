package shared

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	// Default pagination
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 500

	// Sort directions
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list filters.
type ListFilters struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Search   string `json:"search,omitempty"`
	SortBy   string `json:"sort,omitempty"`
	SortDir  string `json:"dir,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`

	// Entity specific filters
	BranchID   string `json:"branch_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
}

// Offset returns the row offset of the current page.
func (f ListFilters) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ParseListFilters reads page, limit, search, sort, dir, active, branch_id
// and category_id from the query string.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	filters := ListFilters{
		Page:       page,
		Limit:      limit,
		Search:     strings.TrimSpace(q.Get("search")),
		SortBy:     q.Get("sort"),
		SortDir:    strings.ToLower(q.Get("dir")),
		BranchID:   strings.TrimSpace(q.Get("branch_id")),
		CategoryID: strings.TrimSpace(q.Get("category_id")),
	}
	if active, err := strconv.ParseBool(q.Get("active")); err == nil {
		filters.IsActive = &active
	}
	return filters
}

// Page is a list response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// NewPage wraps items, never returning a nil slice.
func NewPage[T any](items []T, total int, f ListFilters) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
}
