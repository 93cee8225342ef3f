package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// PageInfo describes the client-side pagination window applied to a fully
// materialized, already-filtered collection.
type PageInfo struct {
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	TotalItems  int    `json:"total_items"`
	TotalPages  int    `json:"total_pages"`
	HasNextPage bool   `json:"has_next_page"`
	NextCursor  string `json:"next_cursor,omitempty"`
}

// PaginatedResult wraps one page of unified entities.
type PaginatedResult[T any] struct {
	Data       []T      `json:"data"`
	Pagination PageInfo `json:"pagination"`
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type pageCursor struct {
	Page int `json:"page"`
}

// EncodePageCursor builds the opaque cursor for a page number.
func EncodePageCursor(page int) string {
	raw, _ := json.Marshal(pageCursor{Page: page})
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodePageCursor reverses EncodePageCursor.
func DecodePageCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("decode cursor: %w", err)
	}
	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return 0, fmt.Errorf("decode cursor: %w", err)
	}
	if c.Page < 1 {
		return 0, fmt.Errorf("decode cursor: page %d out of range", c.Page)
	}
	return c.Page, nil
}

// Paginate slices one page out of a fully materialized list and computes the
// pagination metadata. Page numbers are 1-based; out-of-range pages yield an
// empty data slice with correct totals.
func Paginate[T any](items []T, page, pageSize int) PaginatedResult[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	var data []T
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		data = items[start:end]
	}
	if data == nil {
		data = []T{}
	}

	info := PageInfo{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
	}
	if info.HasNextPage {
		info.NextCursor = EncodePageCursor(page + 1)
	}
	return PaginatedResult[T]{Data: data, Pagination: info}
}
