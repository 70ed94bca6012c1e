// Package textextract turns an uploaded lab-report file into plain text.
// The analysis core treats it as a black box: raw text plus progress
// events out, everything else is an implementation detail.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxFileBytes = 10 * 1024 * 1024
	maxTextRun   = 24000
)

// Progress reports an extraction stage and its completion in [0,1].
type Progress struct {
	Stage    string
	Progress float64
}

type ProgressFn func(Progress)

type Result struct {
	Text      string
	Method    string
	Truncated bool
}

// Extractor resolves a file into report text. Implemented here by the
// pdftotext chain; the HTTP layer and tests depend only on the interface.
type Extractor interface {
	Extract(ctx context.Context, path string, progress ProgressFn) (Result, error)
}

// FileExtractor extracts text from PDF (or already-plain) report files:
// pdftotext first, then a printable-byte sweep for files whose text layer
// cannot be read.
type FileExtractor struct{}

func (FileExtractor) Extract(ctx context.Context, path string, progress ProgressFn) (Result, error) {
	emit(progress, "Подготовка", 0)

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, err
	}
	if info.Size() > maxFileBytes {
		return Result{}, fmt.Errorf("file too large: %d bytes", info.Size())
	}

	emit(progress, "Извлечение текста", 0.3)
	if text, err := runPdfToText(ctx, path); err == nil && strings.TrimSpace(text) != "" {
		emit(progress, "Готово", 1)
		return truncateResult(text, "pdftotext"), nil
	}

	emit(progress, "Распознавание", 0.6)
	blob, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	text := printableRuns(blob)
	if strings.TrimSpace(text) == "" {
		return Result{}, errors.New("no extractable text found")
	}
	emit(progress, "Готово", 1)
	return truncateResult(text, "byte-fallback"), nil
}

func emit(progress ProgressFn, stage string, value float64) {
	if progress != nil {
		progress(Progress{Stage: stage, Progress: value})
	}
}

func runPdfToText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// printableRuns keeps printable runs of at least 16 characters from a
// binary blob. Lab reports saved as scans still often embed label text.
func printableRuns(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); utf8.RuneCountInString(s) >= 16 {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range string(blob) {
		if unicode.IsPrint(c) || c == '\n' || c == '\t' || c == '\r' {
			b.WriteRune(c)
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(strings.Join(runs, "\n"))
}

func truncateResult(text, method string) Result {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) <= maxTextRun {
		return Result{Text: trimmed, Method: method}
	}
	return Result{Text: string(runes[:maxTextRun]), Method: method, Truncated: true}
}
