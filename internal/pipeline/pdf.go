package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/easyocr/vision-ocr/internal/ai"
	"github.com/easyocr/vision-ocr/internal/models"
	"github.com/easyocr/vision-ocr/internal/writer"
)

const sectionSeparator = "============================================================"

// Pager rasterizes a PDF into per-page images. Satisfied by pdf.Rasterizer;
// tests substitute a stub.
type Pager interface {
	Rasterize(pdfPath, outPrefix string) ([]string, error)
}

// PDFOptions controls a PDF pipeline run.
type PDFOptions struct {
	PDFPath    string
	OutputDir  string // default: <stem>_ocr next to the PDF
	KeepImages bool   // keep temp_pages/ instead of deleting it
}

// RunPDF rasterizes the document, recognizes every page in page order, writes
// one artifact per page plus the combined artifact, and removes the
// intermediate images. Cleanup is best-effort and also runs on partial failure.
func RunPDF(ctx context.Context, rec *ai.Recognizer, params ai.Params, pager Pager, opts PDFOptions) (*models.PDFSummary, error) {
	if _, err := os.Stat(opts.PDFPath); err != nil {
		return nil, fmt.Errorf("PDF not found: %s", opts.PDFPath)
	}
	if strings.ToLower(filepath.Ext(opts.PDFPath)) != ".pdf" {
		return nil, fmt.Errorf("not a PDF file: %s", opts.PDFPath)
	}

	stem := strings.TrimSuffix(filepath.Base(opts.PDFPath), filepath.Ext(opts.PDFPath))
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = stem + "_ocr"
	}
	tempDir := filepath.Join(outputDir, "temp_pages")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if !opts.KeepImages {
		defer func() {
			if err := os.RemoveAll(tempDir); err != nil {
				log.Printf("[PDF] Warning: failed to clean up %s: %v", tempDir, err)
			}
		}()
	}

	log.Printf("[PDF] Converting: %s", filepath.Base(opts.PDFPath))
	pages, err := pager.Rasterize(opts.PDFPath, filepath.Join(tempDir, stem))
	if err != nil {
		return nil, err
	}
	log.Printf("[PDF] Converted to %d pages", len(pages))

	summary := &models.PDFSummary{}
	type pageResult struct {
		label string
		file  string
	}
	var results []pageResult

	for i, page := range pages {
		label := pageLabel(page)
		log.Printf("[PDF] Page %d/%d: %s", i+1, len(pages), filepath.Base(page))

		result, err := rec.RecognizeFile(ctx, page, params)
		if err != nil {
			summary.Failed++
			log.Printf("[PDF] Failed page %s: %v", label, err)
			continue
		}

		pageFile := filepath.Join(outputDir, fmt.Sprintf("page_%s.md", label))
		if err := writer.WriteArtifact(pageFile, result.Text); err != nil {
			summary.Failed++
			log.Printf("[PDF] Failed to save page %s: %v", label, err)
			continue
		}
		results = append(results, pageResult{label: label, file: pageFile})
		summary.PageFiles = append(summary.PageFiles, pageFile)
	}
	summary.Pages = len(results)

	// Combined artifact, ascending page order (pages already sorted).
	var sb strings.Builder
	fmt.Fprintf(&sb, "# OCR Results: %s\n\n", stem)
	fmt.Fprintf(&sb, "Total Pages: %d\n\n", len(results))
	sb.WriteString(sectionSeparator + "\n\n")
	for _, res := range results {
		fmt.Fprintf(&sb, "## Page %s\n\n", res.label)
		content, err := os.ReadFile(res.file)
		if err == nil {
			sb.Write(content)
		}
		sb.WriteString("\n\n" + sectionSeparator + "\n\n")
	}

	combinedFile := filepath.Join(outputDir, stem+"_complete.md")
	if err := writer.WriteArtifact(combinedFile, sb.String()); err != nil {
		return nil, fmt.Errorf("writing combined artifact: %w", err)
	}
	summary.CombinedFile = combinedFile
	log.Printf("[PDF] Combined file created: %s", combinedFile)

	return summary, nil
}

// pageLabel keeps pdftoppm's zero-padded page suffix so per-page artifacts
// sort naturally on disk ("page_07.md").
func pageLabel(pagePath string) string {
	stem := strings.TrimSuffix(filepath.Base(pagePath), filepath.Ext(pagePath))
	if idx := strings.LastIndexByte(stem, '-'); idx >= 0 {
		return stem[idx+1:]
	}
	return stem
}
