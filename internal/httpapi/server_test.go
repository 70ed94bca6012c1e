package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/analizai/labreport/internal/aianalysis"
	"github.com/analizai/labreport/internal/labanalysis"
	"github.com/analizai/labreport/internal/textextract"
)

type fakeAnalyzer struct {
	lastText string
	analysis labanalysis.Analysis
	warning  string
	err      error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (labanalysis.Analysis, string, error) {
	f.lastText = text
	if f.err != nil {
		return labanalysis.Analysis{}, "", f.err
	}
	if strings.TrimSpace(text) == "" {
		return labanalysis.Analysis{}, "", aianalysis.ErrNoInput
	}
	return f.analysis, f.warning, nil
}

type fakeExtractor struct {
	result textextract.Result
	err    error
}

func (f fakeExtractor) Extract(context.Context, string, textextract.ProgressFn) (textextract.Result, error) {
	return f.result, f.err
}

type fakeRenderer struct {
	lastAnalysis labanalysis.Analysis
	pdf          []byte
	err          error
}

func (f *fakeRenderer) Render(_ context.Context, a labanalysis.Analysis) ([]byte, error) {
	f.lastAnalysis = a
	return f.pdf, f.err
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAnalyzeEndpoint(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: labanalysis.Analysis{Title: "Готово", Summary: "ok"}}
	handler := NewServer(analyzer, fakeExtractor{}, nil)

	rec := postJSON(t, handler, "/v1/analyze", map[string]string{"text": "Глюкоза: 5.1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
	id, _ := body["request_id"].(string)
	if strings.TrimSpace(id) == "" {
		t.Fatal("request_id missing")
	}
	analysis := body["analysis"].(map[string]any)
	if analysis["title"] != "Готово" {
		t.Fatalf("analysis = %v", analysis)
	}
	if analyzer.lastText != "Глюкоза: 5.1" {
		t.Fatalf("analyzer got %q", analyzer.lastText)
	}
}

func TestAnalyzeEndpointSampleMode(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: labanalysis.Analysis{Title: "Готово"}}
	handler := NewServer(analyzer, fakeExtractor{}, nil)

	rec := postJSON(t, handler, "/v1/analyze", map[string]string{"mode": "sample"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if analyzer.lastText != labanalysis.SampleReport {
		t.Fatal("sample mode did not substitute the demo report")
	}
}

func TestAnalyzeEndpointEmptyText(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)

	rec := postJSON(t, handler, "/v1/analyze", map[string]string{"text": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	if !strings.Contains(errObj["message"].(string), "Нет данных для анализа") {
		t.Fatalf("message = %v", errObj["message"])
	}
}

func TestAnalyzeEndpointSurfacesWarning(t *testing.T) {
	analyzer := &fakeAnalyzer{
		analysis: labanalysis.Analysis{Title: "Готово", Source: aianalysis.FallbackSource},
		warning:  "Превышен лимит запросов AI-сервиса.",
	}
	handler := NewServer(analyzer, fakeExtractor{}, nil)

	rec := postJSON(t, handler, "/v1/analyze", map[string]string{"text": "Глюкоза: 5.1"})
	body := decodeBody(t, rec)
	if !strings.Contains(body["warning"].(string), "Превышен лимит") {
		t.Fatalf("warning = %v", body["warning"])
	}
}

func TestAnalyzeEndpointRejectsGet(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeFileEndpoint(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: labanalysis.Analysis{Title: "Готово"}}
	extractor := fakeExtractor{result: textextract.Result{Text: "Глюкоза: 5.1", Method: "pdftotext"}}
	handler := NewServer(analyzer, extractor, nil)

	body, contentType := multipartUpload(t, "file", "report.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if analyzer.lastText != "Глюкоза: 5.1" {
		t.Fatalf("analyzer got %q", analyzer.lastText)
	}
}

func TestAnalyzeFileEndpointExtractionFailure(t *testing.T) {
	extractor := fakeExtractor{err: errors.New("no text layer")}
	handler := NewServer(&fakeAnalyzer{}, extractor, nil)

	body, contentType := multipartUpload(t, "file", "scan.pdf", []byte{0x00, 0x01})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzeFileEndpointMissingFile(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)

	body, contentType := multipartUpload(t, "attachment", "report.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReportPDFEndpoint(t *testing.T) {
	renderer := &fakeRenderer{pdf: []byte("%PDF-1.4")}
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, renderer)

	payload := map[string]any{
		"title":   "Мой анализ",
		"metrics": []any{map[string]any{"name": "Глюкоза", "status": "warning"}},
		"source":  map[string]any{"provider": "Anthropic", "model": "test-model"},
	}
	rec := postJSON(t, handler, "/v1/reports/pdf", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("content type = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), []byte("%PDF-1.4")) {
		t.Fatal("pdf bytes not passed through")
	}
	if renderer.lastAnalysis.Title != "Мой анализ" {
		t.Fatalf("renderer analysis = %+v", renderer.lastAnalysis)
	}
	if renderer.lastAnalysis.Source.Provider != "Anthropic" {
		t.Fatalf("source = %+v", renderer.lastAnalysis.Source)
	}
	if renderer.lastAnalysis.Caution != labanalysis.Disclaimer {
		t.Fatal("normalization not applied before rendering")
	}
}

func TestReportPDFEndpointWithoutRenderer(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)
	rec := postJSON(t, handler, "/v1/reports/pdf", map[string]any{"title": "X"})
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReferenceEndpoint(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/reference", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	entries := body["reference"].([]any)
	if len(entries) != len(labanalysis.Catalog) {
		t.Fatalf("entries = %d, want %d", len(entries), len(labanalysis.Catalog))
	}
	first := entries[0].(map[string]any)
	if first["id"] != "glucose" || first["range"] != "3.9–5.5" {
		t.Fatalf("first entry = %v", first)
	}
}

func TestSampleEndpoint(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/sample", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body := decodeBody(t, rec)
	if body["text"] != labanalysis.SampleReport {
		t.Fatal("sample text mismatch")
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := NewServer(&fakeAnalyzer{}, fakeExtractor{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
}
