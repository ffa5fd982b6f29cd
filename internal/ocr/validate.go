package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions is the allow-list of raster formats the vision
// runtimes accept. PDFs are deliberately absent: they go through the
// pdf pipeline, which rasterizes pages first.
var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// SupportedExtensions returns the allow-list in sorted order, for error messages.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupportedImage reports whether the file name carries a supported image extension.
func IsSupportedImage(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateImagePath fails fast on missing files and unsupported formats so the
// expensive inference call is never attempted on input we cannot handle. The
// returned errors carry a remediation hint where one exists.
func ValidateImagePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("image file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not an image (use the batch command for directories)", path)
	}
	return ValidateImageName(path)
}

// ValidateImageName checks only the extension, for callers that hold uploads
// rather than files on disk.
func ValidateImageName(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if supportedExtensions[ext] {
		return nil
	}
	if ext == ".pdf" {
		return fmt.Errorf("PDFs are not supported by the single-file path: run the pdf command instead, or convert pages yourself with pdftoppm (pdftoppm -png document.pdf page)")
	}
	return fmt.Errorf("unsupported file format %q (supported: %s)", ext, strings.Join(SupportedExtensions(), ", "))
}

// MimeTypeFor returns the MIME type for a supported image path. Providers that
// send inline image data need it; unknown extensions fall back to JPEG, which
// matches how the runtimes sniff content anyway.
func MimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}
