package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/analizai/labreport/internal/aianalysis"
	"github.com/analizai/labreport/internal/httpapi"
	"github.com/analizai/labreport/internal/labanalysis"
	"github.com/analizai/labreport/internal/report"
	"github.com/analizai/labreport/internal/textextract"
)

func main() {
	var (
		addr  = flag.String("addr", ":8080", "Listen address")
		model = flag.String("model", aianalysis.DefaultModel, "Completion model")
		noLLM = flag.Bool("no-llm", false, "Serve the rule-based analysis only (no API key needed)")
	)
	flag.Parse()

	var analyzer httpapi.Analyzer
	if *noLLM {
		analyzer = ruleBasedAnalyzer{}
		log.Printf("running without AI backend; all analyses use the rule-based engine")
	} else {
		caller, err := aianalysis.NewAnthropicCallerFromEnv(*model)
		if err != nil {
			log.Fatal(err)
		}
		analyzer = aianalysis.NewAnalyzer(caller, caller.Model())
	}

	handler := httpapi.NewServer(analyzer, textextract.FileExtractor{}, report.NewChromiumPDFRenderer())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("lab-server listening on %s (model=%s)", *addr, *model)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// ruleBasedAnalyzer satisfies httpapi.Analyzer with the deterministic
// engine alone.
type ruleBasedAnalyzer struct{}

func (ruleBasedAnalyzer) Analyze(_ context.Context, text string) (labanalysis.Analysis, string, error) {
	if strings.TrimSpace(text) == "" {
		return labanalysis.Analysis{}, "", aianalysis.ErrNoInput
	}
	return aianalysis.BuildFallback(text), "", nil
}
