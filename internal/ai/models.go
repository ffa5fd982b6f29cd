package ai

import (
	"fmt"
	"sort"
	"strings"
)

// ModelSpec maps a selector from the closed set onto runtime model identifiers
// and the default instruction prompt tuned for that model family.
type ModelSpec struct {
	Selector string
	Prompt   string
	// IDs maps provider name to the model identifier that runtime loads.
	// A provider absent from the map falls back to its configured default
	// model; the selector then only chooses the prompt.
	IDs map[string]string
}

var modelSpecs = map[string]ModelSpec{
	"granite": {
		Selector: "granite",
		Prompt:   "Convert this page to markdown format.",
		IDs: map[string]string{
			"openai": "ibm-granite/granite-docling-258M",
			"ollama": "granite3.2-vision",
		},
	},
	"nanonets": {
		Selector: "nanonets",
		Prompt: `Extract the text from the above document as if you were reading it naturally.
Return tables in HTML format. Return equations in LaTeX.
If there's an image without a caption, add a description inside <img></img> tags.
Use ☐ and ☑ for checkboxes.`,
		IDs: map[string]string{
			"openai": "nanonets/Nanonets-OCR2-3B",
		},
	},
	"paddleocr": {
		Selector: "paddleocr",
		Prompt:   "Extract all text from this document preserving the layout and structure.",
		IDs: map[string]string{
			"openai": "PaddlePaddle/PaddleOCR-VL-0.9B",
		},
	},
}

// Selectors returns the closed selector set in sorted order.
func Selectors() []string {
	names := make([]string, 0, len(modelSpecs))
	for name := range modelSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupModel resolves a selector to its spec.
func LookupModel(selector string) (ModelSpec, error) {
	spec, ok := modelSpecs[selector]
	if !ok {
		return ModelSpec{}, fmt.Errorf("unknown model %q (available: %s)", selector, strings.Join(Selectors(), ", "))
	}
	return spec, nil
}

// ResolveID picks the runtime model identifier: an explicit override wins,
// then the selector's mapping for this provider, then the provider fallback.
func (s ModelSpec) ResolveID(provider, override, fallback string) string {
	if override != "" {
		return override
	}
	if id, ok := s.IDs[provider]; ok {
		return id
	}
	return fallback
}
