package pagination

import "testing"

func TestPageRequest(t *testing.T) {
	var p PageRequest
	if p.Enabled() {
		t.Error("zero page should be disabled")
	}

	p = PageRequest{Page: 3}
	p.Defaults()
	if !p.Enabled() {
		t.Error("page 3 should be enabled")
	}
	if p.PageSize != 20 {
		t.Errorf("expected default page size 20, got %d", p.PageSize)
	}
	if p.Offset() != 40 {
		t.Errorf("expected offset 40, got %d", p.Offset())
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[string](nil, 1, 20, 41)
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %v", page.Items)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
}
