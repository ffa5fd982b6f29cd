package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"png", "scan.png", true},
		{"jpg", "photo.jpg", true},
		{"jpeg", "photo.jpeg", true},
		{"webp", "img.webp", true},
		{"gif", "anim.gif", true},
		{"bmp", "old.bmp", true},
		{"tiff", "fax.tiff", true},
		{"tif", "fax.tif", true},
		{"uppercase extension", "SCAN.PNG", true},
		{"mixed case", "Photo.JpG", true},
		{"pdf", "document.pdf", false},
		{"text", "notes.txt", false},
		{"no extension", "README", false},
		{"dotfile", ".hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupportedImage(tt.path))
		})
	}
}

func TestValidateImageName_PDFHint(t *testing.T) {
	err := ValidateImageName("report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf command")
	assert.Contains(t, err.Error(), "pdftoppm")
}

func TestValidateImageName_UnsupportedListsFormats(t *testing.T) {
	err := ValidateImageName("notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `".txt"`)
	assert.Contains(t, err.Error(), ".png")
	assert.Contains(t, err.Error(), ".jpg")
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("not really a png"), 0644))

	t.Run("existing supported file", func(t *testing.T) {
		assert.NoError(t, ValidateImagePath(imagePath))
	})

	t.Run("missing file", func(t *testing.T) {
		err := ValidateImagePath(filepath.Join(dir, "nope.png"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("directory", func(t *testing.T) {
		err := ValidateImagePath(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch command")
	})
}

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.png", "image/png"},
		{"a.jpg", "image/jpeg"},
		{"a.jpeg", "image/jpeg"},
		{"a.gif", "image/gif"},
		{"a.webp", "image/webp"},
		{"a.bmp", "image/bmp"},
		{"a.tiff", "image/tiff"},
		{"a.tif", "image/tiff"},
		{"a.unknown", "image/jpeg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MimeTypeFor(tt.path), tt.path)
	}
}

func TestSupportedExtensionsSorted(t *testing.T) {
	exts := SupportedExtensions()
	require.NotEmpty(t, exts)
	assert.IsNonDecreasing(t, exts)
	assert.Contains(t, exts, ".png")
	assert.NotContains(t, exts, ".pdf")
}
