package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteArtifact saves recognized text to outputPath, creating parent
// directories as needed. An existing file is truncated, never appended, so
// reruns with the same destination replace the prior artifact.
func WriteArtifact(outputPath, text string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// PrintArtifact writes the text to w framed the way the CLI presents results
// on the console.
func PrintArtifact(w io.Writer, text string) {
	separator := "============================================================"
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, text)
	fmt.Fprintln(w, separator)
}
