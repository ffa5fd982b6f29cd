package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/easyocr/vision-ocr/internal/ai"
	"github.com/easyocr/vision-ocr/internal/models"
	"github.com/easyocr/vision-ocr/internal/writer"
)

// BatchOptions controls a directory run.
type BatchOptions struct {
	InputDir  string
	OutputDir string // default: <InputDir>_ocr_results
	Pattern   string // glob against base names, default "*"
	Workers   int    // default 1 (strictly sequential)
}

// RunBatch runs single-file recognition over every file in the directory that
// matches the pattern. Unsupported formats count as failures; each failure is
// recorded and processing continues. With Workers <= 1 files are handled one
// at a time in enumeration order.
func RunBatch(ctx context.Context, rec *ai.Recognizer, params ai.Params, opts BatchOptions) (*models.BatchSummary, error) {
	info, err := os.Stat(opts.InputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory not found: %s", opts.InputDir)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		base := filepath.Base(filepath.Clean(opts.InputDir))
		outputDir = filepath.Join(filepath.Dir(filepath.Clean(opts.InputDir)), base+"_ocr_results")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	files, err := matchFiles(opts.InputDir, opts.Pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found matching pattern %q in %s", patternOrDefault(opts.Pattern), opts.InputDir)
	}

	summary := &models.BatchSummary{
		Processed: len(files),
		OutputDir: outputDir,
		Failures:  make(map[string]string),
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	record := func(file string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			summary.Failed++
			summary.Failures[filepath.Base(file)] = err.Error()
			log.Printf("[Batch] Failed: %s - %v", filepath.Base(file), err)
		} else {
			summary.Successful++
		}
	}

	if workers == 1 {
		for _, file := range files {
			record(file, processOne(ctx, rec, params, file, outputDir))
		}
		return summary, nil
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				record(file, processOne(ctx, rec, params, file, outputDir))
			}
		}()
	}
	for _, file := range files {
		jobs <- file
	}
	close(jobs)
	wg.Wait()

	return summary, nil
}

// OutputPathFor returns the per-file artifact path a batch run writes for an input file.
func OutputPathFor(outputDir, inputFile string) string {
	stem := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	return filepath.Join(outputDir, stem+"_ocr.txt")
}

func processOne(ctx context.Context, rec *ai.Recognizer, params ai.Params, file, outputDir string) error {
	log.Printf("[Batch] Processing: %s", filepath.Base(file))
	result, err := rec.RecognizeFile(ctx, file, params)
	if err != nil {
		return err
	}
	outputFile := OutputPathFor(outputDir, file)
	if err := writer.WriteArtifact(outputFile, result.Text); err != nil {
		return err
	}
	log.Printf("[Batch] Completed: %s -> %s", filepath.Base(file), filepath.Base(outputFile))
	return nil
}

func matchFiles(dir, pattern string) ([]string, error) {
	pattern = patternOrDefault(pattern)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func patternOrDefault(pattern string) string {
	if pattern == "" {
		return "*"
	}
	return pattern
}
