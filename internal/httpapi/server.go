package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/analizai/labreport/internal/aianalysis"
	"github.com/analizai/labreport/internal/labanalysis"
	"github.com/analizai/labreport/internal/textextract"
)

// Analyzer is the orchestration entry point the server depends on.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (labanalysis.Analysis, string, error)
}

// PDFRenderer turns a completed analysis into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, analysis labanalysis.Analysis) ([]byte, error)
}

type Server struct {
	analyzer  Analyzer
	extractor textextract.Extractor
	renderer  PDFRenderer
}

func NewServer(analyzer Analyzer, extractor textextract.Extractor, renderer PDFRenderer) http.Handler {
	s := &Server{analyzer: analyzer, extractor: extractor, renderer: renderer}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/analyze/file", s.handleAnalyzeFile)
	mux.HandleFunc("/v1/reports/pdf", s.handleReportPDF)
	mux.HandleFunc("/v1/reference", s.handleReference)
	mux.HandleFunc("/v1/sample", s.handleSample)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"message": message},
	})
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Text string `json:"text"`
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if req.Mode == "sample" {
		text = labanalysis.SampleReport
	}

	s.runAnalysis(w, r, text)
}

func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "labreport-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	tmp.Close()

	result, err := s.extractor.Extract(r.Context(), tmp.Name(), nil)
	if err != nil {
		log.Printf("text extraction failed for %q: %v", header.Filename, err)
		writeError(w, http.StatusUnprocessableEntity,
			"Не удалось распознать файл. Попробуйте PDF с текстовым слоем или ручной ввод.")
		return
	}

	s.runAnalysis(w, r, result.Text)
}

// runAnalysis is the shared tail of both analyze endpoints. Empty input is
// the only caller-visible error; AI failures arrive already absorbed into
// the analysis with an advisory warning.
func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, text string) {
	requestID := uuid.NewString()
	analysis, warning, err := s.analyzer.Analyze(r.Context(), text)
	if err != nil {
		if errors.Is(err, aianalysis.ErrNoInput) {
			writeError(w, http.StatusBadRequest, "Нет данных для анализа. Проверьте ввод или файл.")
			return
		}
		log.Printf("analysis %s failed: %v", requestID, err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	if warning != "" {
		log.Printf("analysis %s degraded to fallback: %s", requestID, warning)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"request_id": requestID,
		"analysis":   analysis,
		"warning":    warning,
	})
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	if s.renderer == nil {
		writeError(w, http.StatusNotImplemented, "pdf rendering is not configured")
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis payload")
		return
	}
	analysis := labanalysis.Normalize(raw, sourceFromRaw(raw))

	pdf, err := s.renderer.Render(r.Context(), analysis)
	if err != nil {
		log.Printf("pdf render failed: %v", err)
		writeError(w, http.StatusInternalServerError, "pdf rendering failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// sourceFromRaw carries the diagnostic source metadata of a saved
// analysis through normalization, which otherwise never trusts raw input.
func sourceFromRaw(raw map[string]any) labanalysis.Source {
	src, _ := raw["source"].(map[string]any)
	provider, _ := src["provider"].(string)
	model, _ := src["model"].(string)
	return labanalysis.Source{Provider: provider, Model: model}
}

func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	type entry struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Unit  string `json:"unit"`
		Range string `json:"range"`
	}
	entries := make([]entry, 0, len(labanalysis.Catalog))
	for _, e := range labanalysis.Catalog {
		entries = append(entries, entry{
			ID:    e.ID,
			Name:  e.Name,
			Unit:  e.Unit,
			Range: labanalysis.FormatRange(e.Range),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reference": entries})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"text": labanalysis.SampleReport})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
