package domain_test

import (
	"testing"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 0, 7)
	for i := 1; i <= 7; i++ {
		items = append(items, i)
	}

	page := domain.Paginate(items, 1, 3)
	if len(page.Data) != 3 || page.Data[0] != 1 {
		t.Errorf("page 1 = %+v", page.Data)
	}
	if page.Pagination.TotalItems != 7 || page.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	if !page.Pagination.HasNextPage || page.Pagination.NextCursor == "" {
		t.Errorf("page 1 should have a next cursor: %+v", page.Pagination)
	}

	page = domain.Paginate(items, 3, 3)
	if len(page.Data) != 1 || page.Data[0] != 7 {
		t.Errorf("last page = %+v", page.Data)
	}
	if page.Pagination.HasNextPage || page.Pagination.NextCursor != "" {
		t.Errorf("last page must not advertise a next cursor: %+v", page.Pagination)
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	page := domain.Paginate([]string{"a", "b"}, 9, 50)
	if len(page.Data) != 0 {
		t.Errorf("out-of-range page data = %+v, want empty", page.Data)
	}
	if page.Data == nil {
		t.Error("data must be an empty slice, not nil, so it serializes as []")
	}
	if page.Pagination.TotalItems != 2 || page.Pagination.TotalPages != 1 {
		t.Errorf("pagination = %+v, totals must stay correct", page.Pagination)
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := domain.Paginate([]int{}, 1, 10)
	if page.Pagination.TotalPages != 1 {
		t.Errorf("empty collection total pages = %d, want 1", page.Pagination.TotalPages)
	}
	if page.Pagination.HasNextPage {
		t.Error("empty collection has no next page")
	}
}

func TestPageCursorRoundTrip(t *testing.T) {
	cursor := domain.EncodePageCursor(4)
	page, err := domain.DecodePageCursor(cursor)
	if err != nil {
		t.Fatalf("DecodePageCursor: %v", err)
	}
	if page != 4 {
		t.Errorf("page = %d, want 4", page)
	}

	if _, err := domain.DecodePageCursor("!!not-base64!!"); err == nil {
		t.Error("garbage cursor must fail")
	}
	if _, err := domain.DecodePageCursor(domain.EncodePageCursor(0)); err == nil {
		t.Error("cursor for page 0 must fail validation")
	}
}
