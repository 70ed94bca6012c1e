package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/analizai/labreport/internal/aianalysis"
	"github.com/analizai/labreport/internal/labanalysis"
	"github.com/analizai/labreport/internal/report"
	"github.com/analizai/labreport/internal/textextract"
)

func main() {
	var (
		inputPath = flag.String("input", "", "Report file to analyze (PDF or text; default: read text from stdin)")
		sample    = flag.Bool("sample", false, "Analyze the built-in sample report")
		model     = flag.String("model", aianalysis.DefaultModel, "Completion model")
		noLLM     = flag.Bool("no-llm", false, "Skip the AI backend and use the rule-based engine")
		markdown  = flag.Bool("markdown", false, "Print a markdown report instead of JSON")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	text, err := resolveInput(ctx, *inputPath, *sample)
	if err != nil {
		log.Fatal(err)
	}

	analysis, warning, err := runAnalysis(ctx, text, *model, *noLLM)
	if err != nil {
		log.Fatal(err)
	}
	if warning != "" {
		fmt.Fprintln(os.Stderr, warning)
	}

	if *markdown {
		fmt.Print(report.BuildMarkdown(analysis))
		return
	}
	out, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func resolveInput(ctx context.Context, path string, sample bool) (string, error) {
	if sample {
		return labanalysis.SampleReport, nil
	}
	if path == "" {
		blob, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(blob), nil
	}
	result, err := textextract.FileExtractor{}.Extract(ctx, path, func(p textextract.Progress) {
		log.Printf("%s (%.0f%%)", p.Stage, p.Progress*100)
	})
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return result.Text, nil
}

func runAnalysis(ctx context.Context, text, model string, noLLM bool) (labanalysis.Analysis, string, error) {
	if noLLM {
		return aianalysis.BuildFallback(text), "", nil
	}
	caller, err := aianalysis.NewAnthropicCallerFromEnv(model)
	if err != nil {
		return labanalysis.Analysis{}, "", err
	}
	return aianalysis.NewAnalyzer(caller, caller.Model()).Analyze(ctx, text)
}
