package pdf

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Rasterizer converts PDF pages to PNG images by shelling out to pdftoppm
// (poppler). The binary is the only hard dependency of the pdf pipeline.
type Rasterizer struct {
	dpi int
}

func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = 300
	}
	return &Rasterizer{dpi: dpi}
}

// CheckAvailable verifies pdftoppm is on PATH, with an install hint when not.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return fmt.Errorf("pdftoppm not found: install poppler (apt install poppler-utils / brew install poppler)")
	}
	return nil
}

// Rasterize renders every page of pdfPath as <outPrefix>-<page>.png and returns
// the generated image paths in ascending page order.
func (r *Rasterizer) Rasterize(pdfPath, outPrefix string) ([]string, error) {
	cmd := exec.Command("pdftoppm", "-png", "-r", strconv.Itoa(r.dpi), pdfPath, outPrefix)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	pages, err := filepath.Glob(outPrefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no images generated from PDF %s", pdfPath)
	}

	SortPages(pages)
	return pages, nil
}

// SortPages orders rasterized page paths by their numeric page suffix.
// pdftoppm pads page numbers per document width ("-01.png" vs "-1.png"
// depending on page count), so a plain lexical sort is not reliable.
func SortPages(pages []string) {
	sort.Slice(pages, func(i, j int) bool {
		ni, oki := PageNumber(pages[i])
		nj, okj := PageNumber(pages[j])
		if oki && okj {
			return ni < nj
		}
		return pages[i] < pages[j]
	})
}

// PageNumber extracts the numeric page suffix from a rasterized page path,
// e.g. "doc-07.png" -> 7.
func PageNumber(path string) (int, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndexByte(stem, '-')
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(stem[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
