package aianalysis

import (
	"context"
	"strings"

	"github.com/analizai/labreport/internal/labanalysis"
)

const (
	promptBudget = labanalysis.DefaultMaxChars
	retryBudget  = 2500
)

// FallbackSource tags analyses produced by the rule-based path alone.
var FallbackSource = labanalysis.Source{Provider: "Fallback", Model: "Rule-based"}

// Analyzer drives one analyze request: sanitize, one AI round-trip, at
// most one strict retry on malformed JSON, then merge with the rule-based
// fallback and normalize. Safe for concurrent use; all per-request state
// lives on the stack.
type Analyzer struct {
	caller   Caller
	provider string
	model    string
}

func NewAnalyzer(caller Caller, model string) *Analyzer {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Analyzer{caller: caller, provider: "Anthropic", model: model}
}

// Analyze returns the canonical analysis plus an advisory message for the
// caller to display. The returned error is non-nil only when there is no
// input text; every AI or parse failure is absorbed into a rule-based
// fallback with the advisory explaining what happened.
func (a *Analyzer) Analyze(ctx context.Context, text string) (labanalysis.Analysis, string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return labanalysis.Analysis{}, "", ErrNoInput
	}

	sanitized := labanalysis.Sanitize(trimmed, labanalysis.SanitizeOptions{MaxChars: promptBudget})
	parsed, err := a.analyzeWithAI(ctx, sanitized, false)
	if isInvalidJSON(err) {
		// One retry: tighter payload, stricter instruction. Never more.
		retryText := labanalysis.Sanitize(trimmed, labanalysis.SanitizeOptions{MaxChars: retryBudget})
		parsed, err = a.analyzeWithAI(ctx, retryText, true)
	}
	if err != nil {
		fallback := labanalysis.BuildFallback(trimmed)
		fallback.Source = FallbackSource
		return fallback, advisoryMessage(err, a.model), nil
	}

	result := labanalysis.Normalize(parsed, labanalysis.Source{Provider: a.provider, Model: a.model})
	if len(result.Metrics) == 0 {
		result = mergeWithFallback(result, labanalysis.BuildFallback(trimmed))
	}
	return result, "", nil
}

// AnalyzeWithAI is the AI-only primitive: it parses and normalizes one
// model response and fails with a classified error instead of falling
// back. The orchestration in Analyze is built on top of it.
func (a *Analyzer) AnalyzeWithAI(ctx context.Context, text string, strict bool) (labanalysis.Analysis, error) {
	parsed, err := a.analyzeWithAI(ctx, text, strict)
	if err != nil {
		return labanalysis.Analysis{}, err
	}
	return labanalysis.Normalize(parsed, labanalysis.Source{Provider: a.provider, Model: a.model}), nil
}

func (a *Analyzer) analyzeWithAI(ctx context.Context, text string, strict bool) (map[string]any, error) {
	system := systemMessage
	if strict {
		system = strictSystemMessage
	}
	content, err := a.caller.GenerateJSON(ctx, system, BuildPrompt(text))
	if err != nil {
		return nil, classifyTransport(err)
	}
	parsed := labanalysis.SafeParseJSON(content)
	if parsed == nil {
		return nil, invalidJSONError()
	}
	return parsed, nil
}

// mergeWithFallback reconciles a metrics-less AI result with the
// rule-based analysis: AI values win field by field when present; the
// metrics list is taken whole from whichever side has one.
func mergeWithFallback(ai, fallback labanalysis.Analysis) labanalysis.Analysis {
	merged := ai
	if merged.Title == "" {
		merged.Title = fallback.Title
	}
	if merged.Summary == "" {
		merged.Summary = fallback.Summary
	}
	if len(merged.Metrics) == 0 {
		merged.Metrics = fallback.Metrics
	}
	if len(merged.Explanations) == 0 {
		merged.Explanations = fallback.Explanations
	}
	if len(merged.Diet) == 0 {
		merged.Diet = fallback.Diet
	}
	if len(merged.Lifestyle) == 0 {
		merged.Lifestyle = fallback.Lifestyle
	}
	if len(merged.Vitamins) == 0 {
		merged.Vitamins = fallback.Vitamins
	}
	if len(merged.DietPlan) == 0 {
		merged.DietPlan = fallback.DietPlan
	}
	if merged.Caution == "" {
		merged.Caution = fallback.Caution
	}
	return merged
}

// BuildFallback re-exports the rule-based path at this package's boundary
// so callers of the orchestrator do not need both packages.
func BuildFallback(text string) labanalysis.Analysis {
	fallback := labanalysis.BuildFallback(text)
	fallback.Source = FallbackSource
	return fallback
}
