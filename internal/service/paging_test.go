package service

import (
	"Devflow/internal/pkg/consts"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantSkip  int64
		wantLimit int64
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 10, 20, 10},
		{"page below one", 0, 10, 0, 10},
		{"negative page", -4, 5, 0, 5},
		{"page size below one", 2, 0, consts.DefaultPageSize, consts.DefaultPageSize},
		{"page size above max", 2, consts.MaxPageSize + 1, consts.MaxPageSize, consts.MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := pageWindow(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestHasNext(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		page     int
		pageSize int
		returned int
		want     bool
	}{
		{"first of two", 2, 1, 1, 1, true},
		{"last of two", 2, 2, 1, 1, false},
		{"past the end", 2, 3, 1, 0, false},
		{"exact fit", 10, 1, 10, 10, false},
		{"partial last page", 25, 3, 10, 5, false},
		{"middle page", 25, 2, 10, 10, true},
		{"empty", 0, 1, 10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, _ := pageWindow(tt.page, tt.pageSize)
			assert.Equal(t, tt.want, hasNext(tt.total, skip, tt.returned))
		})
	}
}
