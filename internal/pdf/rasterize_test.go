package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageNumber(t *testing.T) {
	tests := []struct {
		path   string
		want   int
		wantOK bool
	}{
		{"doc-1.png", 1, true},
		{"doc-07.png", 7, true},
		{"doc-123.png", 123, true},
		{"/tmp/pages/report-02.png", 2, true},
		{"multi-part-name-9.png", 9, true},
		{"nodash.png", 0, false},
		{"doc-final.png", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, ok := PageNumber(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestSortPages(t *testing.T) {
	t.Run("numeric order beats lexical", func(t *testing.T) {
		pages := []string{"doc-10.png", "doc-2.png", "doc-1.png"}
		SortPages(pages)
		assert.Equal(t, []string{"doc-1.png", "doc-2.png", "doc-10.png"}, pages)
	})

	t.Run("zero padded", func(t *testing.T) {
		pages := []string{"doc-03.png", "doc-01.png", "doc-02.png"}
		SortPages(pages)
		assert.Equal(t, []string{"doc-01.png", "doc-02.png", "doc-03.png"}, pages)
	})

	t.Run("non numeric falls back to lexical", func(t *testing.T) {
		pages := []string{"b.png", "a.png"}
		SortPages(pages)
		assert.Equal(t, []string{"a.png", "b.png"}, pages)
	})
}

func TestNewRasterizer_DPIDefault(t *testing.T) {
	require.Equal(t, 300, NewRasterizer(0).dpi)
	require.Equal(t, 300, NewRasterizer(-5).dpi)
	require.Equal(t, 150, NewRasterizer(150).dpi)
}
