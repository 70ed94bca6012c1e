package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/analizai/labreport/internal/aianalysis"
	"github.com/analizai/labreport/internal/labanalysis"
)

// ruleBasedAnalyzer runs the real fallback pipeline, so the contract test
// exercises a genuine analysis document rather than a fixture.
type ruleBasedAnalyzer struct{}

func (ruleBasedAnalyzer) Analyze(_ context.Context, text string) (labanalysis.Analysis, string, error) {
	return aianalysis.BuildFallback(text), "", nil
}

// TestAnalysisWireContract pins the JSON field names and enums clients
// depend on. Renaming any of these is a breaking API change.
func TestAnalysisWireContract(t *testing.T) {
	handler := NewServer(ruleBasedAnalyzer{}, fakeExtractor{}, nil)

	rec := postJSON(t, handler, "/v1/analyze", map[string]string{"mode": "sample"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		OK        bool            `json:"ok"`
		RequestID string          `json:"request_id"`
		Analysis  json.RawMessage `json:"analysis"`
		Warning   string          `json:"warning"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || body.RequestID == "" {
		t.Fatalf("envelope: %+v", body)
	}

	var analysis map[string]any
	if err := json.Unmarshal(body.Analysis, &analysis); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{
		"title", "updatedAt", "summary", "metrics", "explanations",
		"diet", "lifestyle", "vitamins", "caution", "source",
	} {
		if _, ok := analysis[field]; !ok {
			t.Fatalf("analysis missing field %q", field)
		}
	}

	metrics, ok := analysis["metrics"].([]any)
	if !ok || len(metrics) == 0 {
		t.Fatalf("metrics = %v", analysis["metrics"])
	}
	for _, field := range []string{"name", "value", "unit", "range", "status", "note"} {
		if _, ok := metrics[0].(map[string]any)[field]; !ok {
			t.Fatalf("metric missing field %q", field)
		}
	}
	for _, item := range metrics {
		status := item.(map[string]any)["status"].(string)
		if !labanalysis.ValidStatus(status) {
			t.Fatalf("status %q outside the enum", status)
		}
	}

	source := analysis["source"].(map[string]any)
	if source["provider"] != "Fallback" || source["model"] != "Rule-based" {
		t.Fatalf("source = %v", source)
	}
}

func TestAnalyzePDFContractDisposition(t *testing.T) {
	renderer := &fakeRenderer{pdf: []byte("%PDF-1.4")}
	handler := NewServer(ruleBasedAnalyzer{}, fakeExtractor{}, renderer)

	rec := postJSON(t, handler, "/v1/reports/pdf", map[string]any{"title": "X"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="analysis-report.pdf"` {
		t.Fatalf("disposition = %q", got)
	}
}
