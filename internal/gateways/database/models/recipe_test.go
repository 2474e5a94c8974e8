package models

import (
	"math"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Page
	}{
		{name: "defaults", page: 0, limit: 0, want: Page{Limit: 6, Offset: 0}},
		{name: "second page", page: 2, limit: 10, want: Page{Limit: 10, Offset: 10}},
		{name: "limit capped", page: 3, limit: 500, want: Page{Limit: 100, Offset: 200}},
		{name: "negative page", page: -4, limit: 5, want: Page{Limit: 5, Offset: 0}},
		{name: "huge page", page: math.MaxInt, limit: 100, want: Page{Limit: 100, Offset: math.MaxInt32 / 100 * 100}},
		{name: "page just past int32", page: math.MaxInt32, limit: 2, want: Page{Limit: 2, Offset: math.MaxInt32 / 2 * 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(tt.page, tt.limit, 6, 100)
			if got != tt.want {
				t.Errorf("Paginate(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
			}
			if got.Offset < 0 || got.Offset > math.MaxInt32 {
				t.Errorf("offset %d outside int32 range", got.Offset)
			}
		})
	}
}
