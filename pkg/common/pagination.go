package common

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest carries pagination parameters parsed from the query string.
type PageRequest struct {
	Page     int
	PageSize int
}

// ParsePageRequest reads page/page_size query parameters, clamping to sane bounds.
func ParsePageRequest(r *http.Request) PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return PageRequest{Page: page, PageSize: size}
}

// Offset returns the row offset for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageInfo describes the slice of a listing that was returned.
type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPageInfo computes paging metadata for a total row count.
func NewPageInfo(req PageRequest, total int) PageInfo {
	totalPages := total / req.PageSize
	if total%req.PageSize != 0 {
		totalPages++
	}
	return PageInfo{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
	}
}
