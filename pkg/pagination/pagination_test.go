package pagination_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/steward/pkg/pagination"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 50}
	err := cfg.Finalize(nil)
	if err == nil || !strings.Contains(err.Error(), "cannot exceed") {
		t.Errorf("err = %v, want default_page_size cannot exceed max_page_size", err)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantSize    int
		wantSearch  string
		wantSortLen int
	}{
		{"empty", "", 1, 20, "", 0},
		{"explicit", "page=3&page_size=10&search=elder&sort=-created_at,title", 3, 10, "elder", 2},
		{"clamped", "page=-2&page_size=1000", 1, 100, "", 0},
		{"garbage", "page=abc&page_size=xyz", 1, 20, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, defaultConfig())

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantSize)
			}
			if tt.wantSearch == "" && req.Search != nil {
				t.Errorf("Search = %q, want nil", *req.Search)
			}
			if tt.wantSearch != "" && (req.Search == nil || *req.Search != tt.wantSearch) {
				t.Errorf("Search = %v, want %q", req.Search, tt.wantSearch)
			}
			if len(req.Sort) != tt.wantSortLen {
				t.Errorf("len(Sort) = %d, want %d", len(req.Sort), tt.wantSortLen)
			}
		})
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"empty", 0, 20, 1},
		{"exact", 40, 20, 2},
		{"remainder", 41, 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			if res.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.Data == nil {
				t.Error("Data should be an empty slice, not nil")
			}
		})
	}
}
