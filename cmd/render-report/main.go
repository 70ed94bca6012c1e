package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/analizai/labreport/internal/labanalysis"
	"github.com/analizai/labreport/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to a saved analysis JSON")
	outputPath := flag.String("output", "", "Path for the markdown report (defaults to stdout)")
	pdfPath := flag.String("pdf", "", "Optional path to also render a PDF")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	blob, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		log.Fatalf("decode analysis JSON: %v", err)
	}
	analysis := labanalysis.Normalize(raw, sourceOf(raw))

	markdown := report.BuildMarkdown(analysis)
	if err := writeMarkdown(*outputPath, markdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *pdfPath != "" {
		pdf, err := report.NewChromiumPDFRenderer().Render(context.Background(), analysis)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}

func sourceOf(raw map[string]any) labanalysis.Source {
	src, _ := raw["source"].(map[string]any)
	provider, _ := src["provider"].(string)
	model, _ := src["model"].(string)
	return labanalysis.Source{Provider: provider, Model: model}
}

func writeMarkdown(path, markdown string) error {
	if path == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(path, []byte(markdown), 0o644)
}
