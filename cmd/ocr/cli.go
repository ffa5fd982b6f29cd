package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/easyocr/vision-ocr/internal/ai"
	"github.com/easyocr/vision-ocr/internal/models"
	"github.com/easyocr/vision-ocr/internal/pdf"
	"github.com/easyocr/vision-ocr/internal/pipeline"
	"github.com/easyocr/vision-ocr/internal/writer"
)

const usageText = `Usage:
  ocr run <image>   [flags]   Recognize a single image
  ocr batch <dir>   [flags]   Recognize every matching file in a directory
  ocr pdf <file>    [flags]   Rasterize a PDF and recognize every page

Models:
  granite    - IBM Granite Docling (258M) - fast, outputs DocTags/markdown
  nanonets   - Nanonets OCR2 (3B) - semantic tagging, captions
  paddleocr  - PaddleOCR-VL (0.9B) - 109 languages, layout preserving

Run "ocr <command> -h" for command flags.

Note: PDFs are not accepted by run/batch. Use the pdf command, or convert
pages yourself: pdftoppm -png document.pdf page
`

// CLI dispatches the subcommands. Configuration comes from config.yaml plus
// environment overrides; a .env file is honored when present.
type CLI struct {
	config *models.Config
}

func NewCLI() (*CLI, error) {
	godotenv.Load()

	config, err := models.LoadConfig("config.yaml")
	if err != nil {
		return nil, err
	}
	return &CLI{config: config}, nil
}

func (c *CLI) Run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "run":
		return c.runSingle(args[1:])
	case "batch":
		return c.runBatch(args[1:])
	case "pdf":
		return c.runPDF(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usageText)
		return nil
	default:
		// Bare image path behaves like the run command, matching the habit
		// of invoking the tool with just a file.
		return c.runSingle(args)
	}
}

// inferenceFlags are the knobs shared by all three commands.
type inferenceFlags struct {
	model       string
	modelID     string
	provider    string
	prompt      string
	maxTokens   int
	temperature float64
}

func (f *inferenceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.model, "model", "granite", fmt.Sprintf("Model to use (%s)", strings.Join(ai.Selectors(), ", ")))
	fs.StringVar(&f.modelID, "model-id", "", "Override the runtime model identifier")
	fs.StringVar(&f.provider, "provider", "", "Inference provider (openai, gemini, ollama; default from config)")
	fs.StringVar(&f.prompt, "prompt", "", "Custom prompt (default: the model's extraction prompt)")
	fs.IntVar(&f.maxTokens, "max-tokens", 4096, "Maximum tokens to generate")
	fs.Float64Var(&f.temperature, "temperature", 0.0, "Sampling temperature")
}

// resolve builds the recognizer and per-call params from the shared flags.
func (c *CLI) resolve(f inferenceFlags) (*ai.Recognizer, ai.Params, error) {
	providerName := f.provider
	if providerName == "" {
		providerName = c.config.AI.DefaultProvider
	}

	spec, err := ai.LookupModel(f.model)
	if err != nil {
		return nil, ai.Params{}, err
	}

	provider, err := ai.NewProvider(providerName, c.config.AI)
	if err != nil {
		return nil, ai.Params{}, err
	}

	params := ai.Params{
		Selector:    f.model,
		ModelID:     spec.ResolveID(providerName, f.modelID, ai.FallbackModel(providerName, c.config.AI)),
		Prompt:      f.prompt,
		MaxTokens:   f.maxTokens,
		Temperature: float32(f.temperature),
	}
	return ai.NewRecognizer(provider), params, nil
}

func (c *CLI) runSingle(args []string) error {
	fs := flag.NewFlagSet("ocr run", flag.ExitOnError)
	var f inferenceFlags
	f.register(fs)
	output := fs.String("output", "", "Save output to file instead of printing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one image path, got %d", fs.NArg())
	}
	imagePath := fs.Arg(0)

	rec, params, err := c.resolve(f)
	if err != nil {
		return err
	}

	log.Printf("[OCR] Model: %s (%s)", f.model, params.ModelID)
	log.Printf("[OCR] Processing: %s", imagePath)

	result, err := rec.RecognizeFile(context.Background(), imagePath, params)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := writer.WriteArtifact(*output, result.Text); err != nil {
			return err
		}
		log.Printf("[OCR] Output saved to: %s", *output)
	} else {
		writer.PrintArtifact(os.Stdout, result.Text)
	}
	log.Printf("[OCR] Length: %d characters in %.2fs", result.Chars, result.Duration)
	return nil
}

func (c *CLI) runBatch(args []string) error {
	fs := flag.NewFlagSet("ocr batch", flag.ExitOnError)
	var f inferenceFlags
	f.register(fs)
	outputDir := fs.String("output-dir", "", "Output directory (default: <dir>_ocr_results)")
	pattern := fs.String("pattern", "", "File pattern to match (default: all files)")
	workers := fs.Int("workers", 1, "Number of parallel workers (1 = sequential)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one input directory, got %d", fs.NArg())
	}

	rec, params, err := c.resolve(f)
	if err != nil {
		return err
	}

	log.Printf("[Batch] Input directory: %s", fs.Arg(0))
	log.Printf("[Batch] Model: %s (%s), workers: %d", f.model, params.ModelID, *workers)

	summary, err := pipeline.RunBatch(context.Background(), rec, params, pipeline.BatchOptions{
		InputDir:  fs.Arg(0),
		OutputDir: *outputDir,
		Pattern:   *pattern,
		Workers:   *workers,
	})
	if err != nil {
		return err
	}

	log.Printf("[Batch] Complete: %d successful, %d failed", summary.Successful, summary.Failed)
	log.Printf("[Batch] Results saved to: %s", summary.OutputDir)
	if summary.Successful == 0 {
		return fmt.Errorf("all %d files failed", summary.Failed)
	}
	return nil
}

func (c *CLI) runPDF(args []string) error {
	fs := flag.NewFlagSet("ocr pdf", flag.ExitOnError)
	var f inferenceFlags
	f.register(fs)
	outputDir := fs.String("output-dir", "", "Output directory (default: <pdf_name>_ocr)")
	dpi := fs.Int("dpi", c.config.PDF.DPI, "Rasterization resolution")
	keepImages := fs.Bool("keep-images", false, "Keep temporary page images")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one PDF path, got %d", fs.NArg())
	}

	if err := pdf.CheckAvailable(); err != nil {
		return err
	}

	rec, params, err := c.resolve(f)
	if err != nil {
		return err
	}

	log.Printf("[PDF] Document: %s", fs.Arg(0))
	log.Printf("[PDF] Model: %s (%s), DPI: %d", f.model, params.ModelID, *dpi)

	summary, err := pipeline.RunPDF(context.Background(), rec, params, pdf.NewRasterizer(*dpi), pipeline.PDFOptions{
		PDFPath:    fs.Arg(0),
		OutputDir:  *outputDir,
		KeepImages: *keepImages,
	})
	if err != nil {
		return err
	}

	log.Printf("[PDF] Processed %d pages (%d failed)", summary.Pages, summary.Failed)
	log.Printf("[PDF] Combined file: %s", summary.CombinedFile)
	if summary.Pages == 0 {
		return fmt.Errorf("no pages were recognized")
	}
	return nil
}
